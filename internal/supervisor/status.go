// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package supervisor

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
	"github.com/pbinitiative/zenbpm-importer/internal/transport"
	otelPkg "github.com/pbinitiative/zenbpm-importer/pkg/otel"
	"github.com/pbinitiative/zenbpm-importer/pkg/ptr"
)

type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnected    State = "CONNECTED"
)

// Status is a point in time view of the supervisor for the status endpoint.
type Status struct {
	State       State             `json:"state"`
	Epoch       string            `json:"epoch,omitempty"`
	ConnectedAt *time.Time        `json:"connectedAt,omitempty"`
	Cursors     map[string]string `json:"cursors"`
	Entries     int64             `json:"entries"`
	Discarded   int64             `json:"discarded"`
	Reconnects  int64             `json:"reconnects"`

	// ConsecutiveFailures counts failed connection lifetimes that did not advance any cursor.
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastErrorAt         *time.Time `json:"lastErrorAt,omitempty"`
}

func (s *Supervisor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.status
	res.Cursors = maps.Clone(s.status.Cursors)
	return res
}

func (s *Supervisor) connected(epoch string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = StateConnected
	s.status.Epoch = epoch
	s.status.ConnectedAt = ptr.To(time.Now())
}

func (s *Supervisor) disconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = StateDisconnected
	s.status.ConnectedAt = nil
}

func (s *Supervisor) advance(stream string, id string) {
	s.registry.Advance(stream, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Cursors[stream] = id
	s.status.Entries++
	s.status.ConsecutiveFailures = 0
}

func (s *Supervisor) discarded(ctx context.Context, category string) {
	s.mu.Lock()
	s.status.Discarded++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordHandled(ctx, category, otelPkg.OutcomeDiscarded)
	}
}

func (s *Supervisor) fail(ctx context.Context, err error) {
	s.mu.Lock()
	s.status.ConsecutiveFailures++
	s.status.Reconnects++
	s.status.LastError = err.Error()
	s.status.LastErrorAt = ptr.To(time.Now())
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.Fault(ctx, faultKind(err))
		s.metrics.Reconnects.Add(ctx, 1)
	}
}

func faultKind(err error) string {
	var transportErr *transport.Error
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case event.IsValidationFault(err):
		return "validation"
	case store.IsFault(err):
		return "store"
	}
	return "other"
}
