// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package projection

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/resolver"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
	otelPkg "github.com/pbinitiative/zenbpm-importer/pkg/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler applies one validated record of its category. applied is false when the stored
// rows are newer than the record.
type Handler func(ctx context.Context, session *store.Session, rec event.Record) (applied bool, err error)

// Router hands every record to the handler of its category inside its own store session.
type Router struct {
	store    *store.Store
	handlers map[event.Category]Handler
	logger   hclog.Logger
	metrics  *otelPkg.ImporterMetrics
	tracer   trace.Tracer
}

func NewRouter(st *store.Store, res *resolver.Resolver, logger hclog.Logger, metrics *otelPkg.ImporterMetrics) *Router {
	p := &projection{resolver: res, logger: logger}
	return &Router{
		store: st,
		handlers: map[event.Category]Handler{
			event.CategoryProcess:              p.process,
			event.CategoryProcessInstance:      p.processInstance,
			event.CategoryJob:                  p.job,
			event.CategoryDecisionRequirements: p.decisionRequirements,
			event.CategoryDecision:             p.decision,
			event.CategoryDecisionEvaluation:   p.decisionEvaluation,
			event.CategoryVariable:             p.variable,
			event.CategoryIncident:             p.incident,
		},
		logger:  logger,
		metrics: metrics,
		tracer:  otel.GetTracerProvider().Tracer("importer-projection"),
	}
}

// Route applies rec. Categories without a handler are ignored.
func (r *Router) Route(ctx context.Context, category string, rec event.Record) error {
	c, ok := event.ParseCategory(category)
	if !ok {
		r.logger.Debug("Ignoring record of unknown category", "category", category, "key", rec.Key)
		r.record(ctx, category, otelPkg.OutcomeIgnored)
		return nil
	}
	ctx, span := r.tracer.Start(ctx, "route-"+c.String(), trace.WithAttributes(
		attribute.String(otelPkg.AttributeCategory, c.String()),
		attribute.String(otelPkg.AttributeRecordKey, rec.Key.String()),
		attribute.String(otelPkg.AttributeIntent, rec.Intent),
	))
	defer span.End()

	session := r.store.Acquire(ctx, c.String())
	defer session.Release()

	applied, err := r.handlers[c](ctx, session, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.record(ctx, c.String(), otelPkg.OutcomeFailed)
		return err
	}
	if applied {
		r.record(ctx, c.String(), otelPkg.OutcomeApplied)
	} else {
		r.logger.Debug("Record is older than the stored row", "category", c, "key", rec.Key, "intent", rec.Intent)
		r.record(ctx, c.String(), otelPkg.OutcomeStale)
	}
	return nil
}

func (r *Router) record(ctx context.Context, category string, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordHandled(ctx, category, outcome)
	}
}

type projection struct {
	resolver *resolver.Resolver
	logger   hclog.Logger
}
