package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	OutcomeApplied   = "applied"
	OutcomeStale     = "stale"
	OutcomeDiscarded = "discarded"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// ImporterMetrics are the instruments shared by the router, the resolver and the supervisor.
type ImporterMetrics struct {
	Records         metric.Int64Counter
	Reconnects      metric.Int64Counter
	Faults          metric.Int64Counter
	DefinitionCache metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*ImporterMetrics, error) {
	var errJoin error

	records, err := meter.Int64Counter("importer_records", metric.WithDescription("Number of records handled per category and outcome"))
	errJoin = errors.Join(errJoin, err)

	reconnects, err := meter.Int64Counter("importer_reconnects", metric.WithDescription("Number of transport reconnects"))
	errJoin = errors.Join(errJoin, err)

	faults, err := meter.Int64Counter("importer_faults", metric.WithDescription("Number of faults that ended a read cycle"))
	errJoin = errors.Join(errJoin, err)

	cache, err := meter.Int64Counter("importer_definition_cache", metric.WithDescription("Definition cache lookups per result"))
	errJoin = errors.Join(errJoin, err)

	return &ImporterMetrics{
		Records:         records,
		Reconnects:      reconnects,
		Faults:          faults,
		DefinitionCache: cache,
	}, errJoin
}

func (m *ImporterMetrics) RecordHandled(ctx context.Context, category string, outcome string) {
	m.Records.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttributeCategory, category),
		attribute.String(AttributeOutcome, outcome),
	))
}

func (m *ImporterMetrics) Fault(ctx context.Context, kind string) {
	m.Faults.Add(ctx, 1, metric.WithAttributes(attribute.String(AttributeFaultKind, kind)))
}

func (m *ImporterMetrics) CacheLookup(ctx context.Context, result string) {
	m.DefinitionCache.Add(ctx, 1, metric.WithAttributes(attribute.String(AttributeResult, result)))
}
