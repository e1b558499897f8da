// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package projection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
)

func (p *projection) process(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.ProcessIntent, event.Process](event.CategoryProcess, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "process",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Fixed("bpmnProcessId", v.BpmnProcessId),
			store.Mutable("version", v.Version),
			store.Mutable("resourceName", v.ResourceName),
			store.Mutable("resource", v.Resource),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert process %d: %w", e.Key, err)
	}

	definitionKey := v.ProcessDefinitionKey.String()
	definitions := p.resolver.Resolve(ctx, s, definitionKey)
	if definitions == nil {
		return applied, nil
	}
	if name, ok := definitions.ProcessName(v.BpmnProcessId); ok {
		_, err := s.Exec(ctx, "UPDATE process SET bpmnProcessName = ? WHERE key = ?",
			sql.NullString{String: name, Valid: name != ""}, definitionKey)
		if err != nil {
			return false, fmt.Errorf("failed to update name of process %s: %w", definitionKey, err)
		}
	}
	for _, form := range definitions.UserTaskForms {
		_, err := s.Upsert(ctx, store.Upsert{
			Table: "form",
			Columns: []store.Column{
				store.Fixed("key", form.Id),
				store.Fixed("processDefinition", definitionKey),
				store.Mutable("schema", form.GetSchema()),
			},
		})
		if err != nil {
			return false, fmt.Errorf("failed to upsert form %s of process %s: %w", form.Id, definitionKey, err)
		}
	}
	return applied, nil
}
