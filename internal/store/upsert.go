// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package store

import (
	"fmt"
	"strings"
)

type Merge int

const (
	// InsertOnly columns are written when the row is created and never touched again.
	InsertOnly Merge = iota
	// Overwrite columns take the incoming value when the event is not older than the row.
	Overwrite
	// KeepFirst columns are filled once: a stored non NULL value always wins.
	KeepFirst
)

type Column struct {
	Name  string
	Value any
	Merge Merge
}

func Fixed(name string, value any) Column {
	return Column{Name: name, Value: value, Merge: InsertOnly}
}

func Mutable(name string, value any) Column {
	return Column{Name: name, Value: value, Merge: Overwrite}
}

func Sticky(name string, value any) Column {
	return Column{Name: name, Value: value, Merge: KeepFirst}
}

// Upsert inserts a row or, when any unique constraint of Table conflicts, merges the
// columns into the stored row. With Version set the merge only happens when the stored
// Version column is not newer than the incoming one, both compared as integers.
// An empty Version merges unconditionally.
type Upsert struct {
	Table   string
	Columns []Column
	Version string
}

// Statement renders the upsert as a single sqlite INSERT .. ON CONFLICT statement.
func (u Upsert) Statement() (string, []any) {
	names := make([]string, 0, len(u.Columns))
	placeholders := make([]string, 0, len(u.Columns))
	args := make([]any, 0, len(u.Columns))
	sets := make([]string, 0, len(u.Columns))
	for _, c := range u.Columns {
		names = append(names, c.Name)
		placeholders = append(placeholders, "?")
		args = append(args, c.Value)
		switch c.Merge {
		case Overwrite:
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c.Name, c.Name))
		case KeepFirst:
			sets = append(sets, fmt.Sprintf("%s = COALESCE(%s.%s, excluded.%s)", c.Name, u.Table, c.Name, c.Name))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s)\nVALUES (%s)\n", u.Table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if len(sets) == 0 {
		b.WriteString("ON CONFLICT DO NOTHING")
		return b.String(), args
	}
	fmt.Fprintf(&b, "ON CONFLICT DO UPDATE SET %s", strings.Join(sets, ", "))
	if u.Version != "" {
		fmt.Fprintf(&b, "\nWHERE CAST(%s.%s AS INTEGER) <= CAST(excluded.%s AS INTEGER)", u.Table, u.Version, u.Version)
	}
	return b.String(), args
}
