// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package store

import (
	"context"
	"fmt"
	"regexp"

	otelPkg "github.com/pbinitiative/zenbpm-importer/internal/otel"
	"github.com/pbinitiative/zenbpm-importer/internal/sql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Record is a row keyed by column name, NULL columns hold nil.
type Record map[string]any

// Session is the exclusive handle to the store held while one event is applied.
// Every statement commits on its own so later statements of the same event see earlier writes.
type Session struct {
	store    *Store
	span     trace.Span
	released bool
}

// Release ends the session, calling it more than once is a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true
	s.span.End()
	s.store.sessionMu.Unlock()
}

// Exec runs a single statement and returns the number of affected rows.
func (s *Session) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return s.exec(ctx, query, args)
}

func (s *Session) exec(ctx context.Context, query string, args []any, attrs ...attribute.KeyValue) (int64, error) {
	attrs = append(attrs,
		attribute.String(otelPkg.AttributeExec, query),
		attribute.String(otelPkg.AttributeArgs, fmt.Sprintf("%v", args)),
	)
	ctx, execSpan := s.store.tracer.Start(s.spanContext(ctx), "rqlite-exec", trace.WithAttributes(attrs...))
	defer execSpan.End()

	result, err := s.store.execute(ctx, generateStatement(s.store.logger, query, args...))
	if err != nil {
		execSpan.RecordError(err)
		execSpan.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return result.GetE().GetRowsAffected(), nil
}

// spanContext parents statement spans to the session span while keeping ctx cancellation.
func (s *Session) spanContext(ctx context.Context) context.Context {
	return trace.ContextWithSpan(ctx, s.span)
}

// Upsert applies u and reports whether the row was written. False means the stored row is
// newer than the event (or the identity exists and nothing is mergeable).
func (s *Session) Upsert(ctx context.Context, u Upsert) (bool, error) {
	query, args := u.Statement()
	affected, err := s.exec(ctx, query, args, attribute.String(otelPkg.AttributeTable, u.Table))
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx, querySpan := s.store.tracer.Start(s.spanContext(ctx), "rqlite-query", trace.WithAttributes(
		attribute.String(otelPkg.AttributeQuery, query),
		attribute.String(otelPkg.AttributeArgs, fmt.Sprintf("%v", args)),
	))
	defer querySpan.End()

	result, err := s.store.query(generateStatement(s.store.logger, query, args...))
	if err != nil {
		querySpan.RecordError(err)
		querySpan.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return sql.ConstructRows(ctx, result), nil
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	ctx, querySpan := s.store.tracer.Start(s.spanContext(ctx), "rqlite-query", trace.WithAttributes(
		attribute.String(otelPkg.AttributeQuery, query),
	))
	defer querySpan.End()

	result, err := s.store.query(generateStatement(s.store.logger, query, args...))
	if err != nil {
		querySpan.RecordError(err)
		querySpan.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return sql.ConstructRow(ctx, result), nil
}

// ProcessResource returns the deployed resource text of the process definition with the given key.
func (s *Session) ProcessResource(ctx context.Context, key string) (string, error) {
	row, err := s.QueryRow(ctx, "SELECT resource FROM process WHERE key = ?", key)
	if err != nil {
		return "", err
	}
	var resource string
	if err := row.Scan(&resource); err != nil {
		return "", fmt.Errorf("failed to read resource of process %s: %w", key, err)
	}
	return resource, nil
}

var tableName = regexp.MustCompile(`^[a-z_]+$`)

// Records reads a whole table in insertion order.
func (s *Session) Records(ctx context.Context, table string) ([]Record, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := s.Query(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	res := make([]Record, 0, rows.Len())
	columns := rows.Columns()
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		record := make(Record, len(columns))
		for i, c := range columns {
			record[c] = values[i]
		}
		res = append(res, record)
	}
	return res, nil
}

// Snapshot reads every table of the projection.
func (s *Session) Snapshot(ctx context.Context) (map[string][]Record, error) {
	res := make(map[string][]Record, len(Tables))
	for _, table := range Tables {
		records, err := s.Records(ctx, table)
		if err != nil {
			return nil, err
		}
		res[table] = records
	}
	return res, nil
}

// Tables lists the projection tables in dependency order.
var Tables = []string{
	"process", "form", "process_instance", "element_instance", "job",
	"decision_requirements", "decision", "decision_evaluation", "variable", "incident",
}
