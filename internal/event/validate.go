// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ValidationFault is returned when a record misses a field the projection needs or carries
// an intent its category does not know.
type ValidationFault struct {
	Category Category
	Fields   []string
	Cause    error
}

func (f *ValidationFault) Error() string {
	if len(f.Fields) == 0 {
		return fmt.Sprintf("invalid %s record: %v", f.Category, f.Cause)
	}
	return fmt.Sprintf("invalid %s record, fields [%s]: %v", f.Category, strings.Join(f.Fields, ", "), f.Cause)
}

func (f *ValidationFault) Unwrap() error {
	return f.Cause
}

func IsValidationFault(err error) bool {
	var f *ValidationFault
	return errors.As(err, &f)
}

// Field presence rules, read from the `required` struct tag:
//
//	required:"true"     the field must be present and not null
//	required:"present"  the field must be present, null is accepted
type requirement struct {
	name     string
	nullable bool
}

var requirements sync.Map // reflect.Type -> []requirement

func requiredFields(t reflect.Type) []requirement {
	if cached, ok := requirements.Load(t); ok {
		return cached.([]requirement)
	}
	var res []requirement
	for i := range t.NumField() {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("required")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		res = append(res, requirement{name: name, nullable: tag == "present"})
	}
	requirements.Store(t, res)
	return res
}

var null = []byte("null")

// decodeValue checks the presence rules of T against the raw object and decodes it.
func decodeValue[T any](category Category, data []byte) (T, error) {
	var value T
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return value, &ValidationFault{Category: category, Cause: fmt.Errorf("malformed value: %w", err)}
	}

	var missing []string
	var errs []error
	for _, r := range requiredFields(reflect.TypeFor[T]()) {
		raw, ok := fields[r.name]
		if ok && (r.nullable || !bytes.Equal(bytes.TrimSpace(raw), null)) {
			continue
		}
		missing = append(missing, r.name)
		errs = append(errs, fmt.Errorf("missing required field %q", r.name))
	}
	if len(missing) > 0 {
		return value, &ValidationFault{Category: category, Fields: missing, Cause: errors.Join(errs...)}
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, &ValidationFault{Category: category, Cause: err}
	}
	return value, nil
}
