// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package store

import (
	"errors"
	"fmt"
)

// Fault is returned when the database rejects a statement, e.g. a foreign key violation
// caused by an event that references a parent row which was not imported yet.
type Fault struct {
	Statement string
	Cause     error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("statement rejected: %s: %v", f.Statement, f.Cause)
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
