// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/pbinitiative/zenbpm-importer/internal/sql"
	"github.com/rqlite/rqlite/v8/command/proto"
	"github.com/rqlite/rqlite/v8/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Store is the relational projection backed by an embedded rqlite database file.
// Only one Session is open at a time.
type Store struct {
	db     *db.SwappableDB
	path   string
	logger hclog.Logger
	tracer trace.Tracer

	sessionMu sync.Mutex
}

func Open(conf config.Store, logger hclog.Logger) (*Store, error) {
	path, err := filepath.Abs(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path %s: %w", conf.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create database file: %w", err)
		}
		f.Close()
	}
	d, err := db.OpenSwappable(path, nil, !conf.DisableForeignKeys, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	logger.Info("Opened database", "path", path, "foreignKeys", !conf.DisableForeignKeys)
	return &Store{
		db:     d,
		path:   path,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("importer-rqlite"),
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies the bootstrap schema. It is safe to call on every start.
func (s *Store) Migrate(ctx context.Context) error {
	migrations, err := sql.GetMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	session := s.Acquire(ctx, "migrate")
	defer session.Release()
	for _, m := range migrations {
		if _, err := session.Exec(ctx, m); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	s.logger.Info("Schema is up to date", "statements", len(migrations))
	return nil
}

// Acquire blocks until no other session is open. The caller must Release the session.
func (s *Store) Acquire(ctx context.Context, name string) *Session {
	s.sessionMu.Lock()
	_, span := s.tracer.Start(ctx, "session-"+name)
	return &Session{store: s, span: span}
}

func (s *Store) execute(ctx context.Context, statement *proto.Statement) (*proto.ExecuteQueryResponse, error) {
	results, err := s.db.Execute(&proto.Request{
		Transaction: true,
		Statements:  []*proto.Statement{statement},
	}, false)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Error("Context done while executing statement", "err", ctx.Err())
		}
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("expected 1 result, got %d", len(results))
	}
	if msg := results[0].GetError(); msg != "" {
		return nil, &Fault{Statement: statement.Sql, Cause: errors.New(msg)}
	}
	return results[0], nil
}

func (s *Store) query(statement *proto.Statement) (*proto.QueryRows, error) {
	results, err := s.db.Query(&proto.Request{
		Transaction: false,
		Statements:  []*proto.Statement{statement},
	}, false)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("expected 1 result, got %d", len(results))
	}
	if results[0].Error != "" {
		return nil, fmt.Errorf("error executing SQL statement %s: %s", statement.Sql, results[0].Error)
	}
	return results[0], nil
}
