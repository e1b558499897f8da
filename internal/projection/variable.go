// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package projection

import (
	"context"
	"fmt"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
)

// variable rows are identified by name, instance and flow scope, the record key is not stored.
func (p *projection) variable(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.VariableIntent, event.Variable](event.CategoryVariable, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "variable",
		Columns: []store.Column{
			store.Fixed("name", v.Name),
			store.Mutable("value", v.Value),
			store.Fixed("processInstance", v.ProcessInstanceKey.String()),
			store.Fixed("processDefinition", v.ProcessDefinitionKey.String()),
			store.Fixed("flowScope", v.FlowScope()),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert variable %s of instance %d: %w", v.Name, v.ProcessInstanceKey, err)
	}
	return applied, nil
}
