// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package extensions

import "strings"

// TUserTaskForm is an embedded form (zeebe:userTaskForm). The element body holds the form schema.
type TUserTaskForm struct {
	Id     string `xml:"id,attr"`
	Schema string `xml:",chardata"`
}

func (f TUserTaskForm) GetSchema() string {
	return strings.TrimSpace(f.Schema)
}
