// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package otel

// Store span attributes.
const (
	AttributeQuery = "store.query"
	AttributeExec  = "store.exec"
	AttributeArgs  = "store.args"
	AttributeTable = "store.table"
)
