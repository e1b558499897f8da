// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/transport"
	otelPkg "github.com/pbinitiative/zenbpm-importer/pkg/otel"
)

type Router interface {
	Route(ctx context.Context, category string, rec event.Record) error
}

// Supervisor consumes all registered streams and hands every event to the router in
// delivery order. Any failure drops the connection, waits for the backoff and resumes
// from the retained cursors.
type Supervisor struct {
	dialer   transport.Dialer
	router   Router
	registry *Registry
	conf     config.Consumer
	logger   hclog.Logger
	metrics  *otelPkg.ImporterMetrics

	mu     sync.RWMutex
	status Status
}

func New(conf config.Consumer, dialer transport.Dialer, router Router, logger hclog.Logger, metrics *otelPkg.ImporterMetrics) *Supervisor {
	registry := NewRegistry(conf.StreamPrefix, conf.InitialCursor)
	return &Supervisor{
		dialer:   dialer,
		router:   router,
		registry: registry,
		conf:     conf,
		logger:   logger,
		metrics:  metrics,
		status: Status{
			State:   StateDisconnected,
			Cursors: registry.Snapshot(),
		},
	}
}

// Run consumes until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.consume(ctx)
		if ctx.Err() != nil {
			s.logger.Info("Stopped consuming", "cursors", s.registry.Snapshot())
			return nil
		}
		s.fail(ctx, err)
		s.logger.Error("Consumption failed, reconnecting", "err", err, "backoff", s.conf.ReconnectBackoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.conf.ReconnectBackoff):
		}
	}
}

// consume runs one connection lifetime. It only returns on a failure or cancellation.
func (s *Supervisor) consume(ctx context.Context) error {
	tr, err := s.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	epoch := uuid.NewString()
	s.connected(epoch)
	logger := s.logger.With("epoch", epoch)
	logger.Info("Connected", "cursors", s.registry.Snapshot())
	defer func() {
		if err := tr.Close(); err != nil {
			logger.Warn("Failed to close transport", "err", err)
		}
		s.disconnected()
	}()

	for ctx.Err() == nil {
		streams, err := tr.Read(ctx, s.registry.Cursors(), s.conf.BlockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		for _, stream := range streams {
			if err := s.handleStream(ctx, stream); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}

func (s *Supervisor) handleStream(ctx context.Context, stream transport.Stream) error {
	category := CategoryOf(stream.Name)
	c, _ := event.ParseCategory(category)
	for _, entry := range stream.Entries {
		for _, field := range entry.Fields {
			rec, err := event.DecodeRecord(c, []byte(field.Value))
			if err != nil {
				return fmt.Errorf("stream %s entry %s: %w", stream.Name, entry.ID, err)
			}
			if !rec.IsEvent() {
				s.discarded(ctx, category)
				continue
			}
			if err := s.router.Route(ctx, category, rec); err != nil {
				return fmt.Errorf("stream %s entry %s: %w", stream.Name, entry.ID, err)
			}
		}
		s.advance(stream.Name, entry.ID)
	}
	return nil
}
