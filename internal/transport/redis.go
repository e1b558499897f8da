// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package transport

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisDialer connects to the streams the exporter writes to.
type RedisDialer struct {
	conf config.Redis
}

func NewRedisDialer(conf config.Redis) *RedisDialer {
	return &RedisDialer{conf: conf}
}

func (d *RedisDialer) Dial(ctx context.Context) (Transport, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     d.conf.Addr,
		Password: d.conf.Password,
		DB:       d.conf.DB,
		// blocking reads may take longer than the default read timeout
		ReadTimeout: -1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &Error{Op: "dial " + d.conf.Addr, Cause: err}
	}
	return &redisTransport{client: client}, nil
}

type redisTransport struct {
	client *redis.Client
}

func (t *redisTransport) Read(ctx context.Context, cursors []Cursor, block time.Duration) ([]Stream, error) {
	if len(cursors) == 0 {
		return nil, errors.New("no streams to read")
	}
	args := make([]string, 0, 2*len(cursors))
	for _, c := range cursors {
		args = append(args, c.Stream)
	}
	for _, c := range cursors {
		args = append(args, c.ID)
	}
	// a zero block means forever for XREAD, keep reads bounded
	if block <= 0 {
		block = time.Millisecond
	}
	res, err := t.client.XRead(ctx, &redis.XReadArgs{
		Streams: args,
		Block:   block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Op: "read", Cause: err}
	}

	streams := make([]Stream, 0, len(res))
	for _, s := range res {
		stream := Stream{Name: s.Stream, Entries: make([]Entry, 0, len(s.Messages))}
		for _, m := range s.Messages {
			entry, err := toEntry(m)
			if err != nil {
				return nil, &Error{Op: "read", Cause: fmt.Errorf("stream %s: %w", s.Stream, err)}
			}
			stream.Entries = append(stream.Entries, entry)
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

// toEntry orders the fields by name, go-redis returns them as a map.
func toEntry(m redis.XMessage) (Entry, error) {
	entry := Entry{ID: m.ID, Fields: make([]Field, 0, len(m.Values))}
	for name, value := range m.Values {
		s, ok := value.(string)
		if !ok {
			return Entry{}, fmt.Errorf("entry %s field %s has unexpected type %T", m.ID, name, value)
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: s})
	}
	slices.SortFunc(entry.Fields, func(a, b Field) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entry, nil
}

func (t *redisTransport) Close() error {
	return t.client.Close()
}
