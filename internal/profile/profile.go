// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package profile

import (
	"os"
	"strings"
)

type ProfileType string

// Current is DEV unless PROFILE says otherwise.
var Current = DEV

const (
	DEV  ProfileType = "DEV"
	TEST ProfileType = "TEST"
	PROD ProfileType = "PROD"
)

// InitProfile reads the PROFILE environment variable. Unknown values keep the current profile.
func InitProfile() ProfileType {
	if p, ok := Parse(os.Getenv("PROFILE")); ok {
		Current = p
	}
	return Current
}

func Parse(s string) (ProfileType, bool) {
	switch p := ProfileType(strings.ToUpper(strings.TrimSpace(s))); p {
	case DEV, TEST, PROD:
		return p, true
	}
	return Current, false
}

// Strict reports whether programming errors (unsupported statement parameters and
// the like) should panic instead of being logged.
func Strict() bool {
	return Current == DEV || Current == TEST
}
