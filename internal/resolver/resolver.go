// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package resolver

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pbinitiative/zenbpm-importer/pkg/bpmn/model/bpmn20"
	otelPkg "github.com/pbinitiative/zenbpm-importer/pkg/otel"
)

// ResourceReader reads the deployed resource text of a process definition.
type ResourceReader interface {
	ProcessResource(ctx context.Context, key string) (string, error)
}

// Resolver parses definition documents on first use and keeps the most recently used ones.
// It is not safe for concurrent use, it belongs to the consuming goroutine.
type Resolver struct {
	cache   *lru.Cache[string, *bpmn20.TDefinitions]
	logger  hclog.Logger
	metrics *otelPkg.ImporterMetrics
}

func New(size int, logger hclog.Logger, metrics *otelPkg.ImporterMetrics) (*Resolver, error) {
	cache, err := lru.New[string, *bpmn20.TDefinitions](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create definition cache: %w", err)
	}
	return &Resolver{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Resolve returns the parsed document of the definition or nil when it can not be read or
// parsed. Failures are not cached so a later event retries.
func (r *Resolver) Resolve(ctx context.Context, reader ResourceReader, definitionKey string) *bpmn20.TDefinitions {
	if definitions, ok := r.cache.Get(definitionKey); ok {
		r.lookup(ctx, otelPkg.CacheHit)
		return definitions
	}
	r.lookup(ctx, otelPkg.CacheMiss)

	resource, err := reader.ProcessResource(ctx, definitionKey)
	if err != nil {
		r.logger.Debug("Failed to read definition resource", "definitionKey", definitionKey, "err", err)
		return nil
	}
	definitions, err := bpmn20.Parse(decodeResource(resource))
	if err != nil {
		r.logger.Debug("Failed to parse definition", "definitionKey", definitionKey, "err", err)
		return nil
	}
	r.cache.Add(definitionKey, definitions)
	return definitions
}

func (r *Resolver) Len() int {
	return r.cache.Len()
}

func (r *Resolver) Contains(definitionKey string) bool {
	return r.cache.Contains(definitionKey)
}

func (r *Resolver) lookup(ctx context.Context, result string) {
	if r.metrics != nil {
		r.metrics.CacheLookup(ctx, result)
	}
}

// decodeResource undoes the base64 encoding the exporter applies to resources. Plain xml is
// passed through.
func decodeResource(resource string) []byte {
	trimmed := strings.TrimSpace(resource)
	if strings.HasPrefix(trimmed, "<") {
		return []byte(trimmed)
	}
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return []byte(resource)
	}
	return data
}
