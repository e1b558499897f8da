// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package supervisor

import (
	"maps"
	"strings"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/transport"
)

// Registry tracks the read position of every consumed stream. Positions only move forward
// once an entry was handled completely, they survive reconnects.
type Registry struct {
	streams []string
	cursors map[string]string
}

// NewRegistry registers one stream per category, e.g. zeebe:PROCESS_INSTANCE.
func NewRegistry(prefix string, initialCursor string) *Registry {
	r := &Registry{cursors: make(map[string]string, len(event.Categories))}
	for _, c := range event.Categories {
		name := prefix + ":" + c.ValueType()
		r.streams = append(r.streams, name)
		r.cursors[name] = initialCursor
	}
	return r
}

func (r *Registry) Cursors() []transport.Cursor {
	res := make([]transport.Cursor, 0, len(r.streams))
	for _, name := range r.streams {
		res = append(res, transport.Cursor{Stream: name, ID: r.cursors[name]})
	}
	return res
}

func (r *Registry) Advance(stream string, id string) {
	if _, ok := r.cursors[stream]; ok {
		r.cursors[stream] = id
	}
}

func (r *Registry) Snapshot() map[string]string {
	return maps.Clone(r.cursors)
}

// CategoryOf returns the lower case suffix after the last colon of a stream name.
func CategoryOf(stream string) string {
	if i := strings.LastIndex(stream, ":"); i >= 0 {
		stream = stream[i+1:]
	}
	return strings.ToLower(stream)
}
