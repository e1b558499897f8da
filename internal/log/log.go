// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

// Package log is the process wide logger. Components that own a lifecycle use their own
// named hclog.Logger; this package is for the entry point and shared helpers.
package log

import (
	"context"
	"sync"

	"github.com/pbinitiative/zenbpm-importer/internal/profile"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// Init builds the logger for the current profile. PROD logs json at info level,
// DEV and TEST log colored console output at debug level.
func Init() {
	var cfg zap.Config
	if profile.Current == profile.PROD {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	Set(l)
}

// Set replaces the logger, tests use it with zaptest or zap.NewNop.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

func base() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// get adds the trace and span ids of ctx.
func get(ctx context.Context) *zap.SugaredLogger {
	l := base()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return l.With("traceId", sc.TraceID().String(), "spanId", sc.SpanID().String())
	}
	return l
}

func Info(format string, args ...any) {
	base().Infof(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	get(ctx).Infof(format, args...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	get(ctx).Debugf(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	get(ctx).Warnf(format, args...)
}

func Error(format string, args ...any) {
	base().Errorf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	get(ctx).Errorf(format, args...)
}

// Sync flushes buffered entries, call it before the process exits.
func Sync() {
	_ = base().Sync()
}
