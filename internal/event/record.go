// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package event

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

const RecordTypeEvent = "EVENT"

// NoKey is what the exporter writes into key fields that do not apply, e.g. the parent of a root instance.
const NoKey Key = -1

type Key int64

// UnmarshalJSON accepts both a JSON number and a numeric string.
func (k *Key) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid key %s: %w", data, err)
	}
	*k = Key(i)
	return nil
}

func (k Key) String() string {
	return strconv.FormatInt(int64(k), 10)
}

func (k Key) Valid() bool {
	return k != NoKey
}

// NullString is the column value of the key, NULL for NoKey.
func (k Key) NullString() sql.NullString {
	if !k.Valid() {
		return sql.NullString{}
	}
	return sql.NullString{String: k.String(), Valid: true}
}

// Timestamp keeps the decimal epoch milliseconds exactly as they were written by the exporter.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if _, err := strconv.ParseInt(string(data), 10, 64); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*t = Timestamp(data)
	return nil
}

func (t Timestamp) String() string {
	return string(t)
}

// Record is the envelope every exported record shares. Value is validated per category.
type Record struct {
	Key        Key             `json:"key" required:"true"`
	Intent     string          `json:"intent" required:"true"`
	Timestamp  Timestamp       `json:"timestamp" required:"true"`
	RecordType string          `json:"recordType"`
	ValueType  string          `json:"valueType"`
	Position   int64           `json:"position"`
	Value      json.RawMessage `json:"value" required:"true"`
}

// IsEvent reports whether the record describes a committed state change. Commands and
// rejections carry a different record type and are never projected.
func (r Record) IsEvent() bool {
	return r.RecordType == RecordTypeEvent
}

// DecodeRecord parses one exported record. Records that are not events are returned without
// validation, the caller discards them.
func DecodeRecord(category Category, data []byte) (Record, error) {
	var probe struct {
		RecordType string `json:"recordType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Record{}, &ValidationFault{Category: category, Cause: fmt.Errorf("malformed record: %w", err)}
	}
	if probe.RecordType != RecordTypeEvent {
		return Record{RecordType: probe.RecordType}, nil
	}
	return decodeValue[Record](category, data)
}
