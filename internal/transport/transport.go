// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package transport

import (
	"context"
	"fmt"
	"time"
)

// Cursor is the last seen entry id of one stream.
type Cursor struct {
	Stream string
	ID     string
}

type Field struct {
	Name  string
	Value string
}

// Entry is one stream item, every field value is one exported record.
type Entry struct {
	ID     string
	Fields []Field
}

type Stream struct {
	Name    string
	Entries []Entry
}

// Transport is a connected source of stream entries.
type Transport interface {
	// Read blocks until at least one stream has entries after its cursor or block elapses.
	// A timeout returns no streams and no error.
	Read(ctx context.Context, cursors []Cursor, block time.Duration) ([]Stream, error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}

// Error is a connection or read failure of the transport.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
