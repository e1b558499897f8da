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

// processInstance writes the instance row for events of the process element and the
// element instance row for every other element except sequence flows.
func (p *projection) processInstance(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.ElementIntent, event.ProcessInstance](event.CategoryProcessInstance, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied := false

	if v.IsRoot() {
		ok, err := s.Upsert(ctx, store.Upsert{
			Table: "process_instance",
			Columns: []store.Column{
				store.Fixed("key", e.Key.String()),
				store.Fixed("processDefinition", v.ProcessDefinitionKey.String()),
				store.Fixed("parentProcessInstance", v.ParentProcessInstanceKey.NullString()),
				store.Fixed("parentElementInstance", v.ParentElementInstanceKey.NullString()),
				store.Mutable("state", string(e.Intent)),
				store.Fixed("created", e.Timestamp.String()),
				store.Mutable("updated", e.Timestamp.String()),
				store.Sticky("completed", e.CompletedAt(e.Intent == event.ElementCompleted)),
			},
			Version: "updated",
		})
		if err != nil {
			return false, fmt.Errorf("failed to upsert process instance %d: %w", e.Key, err)
		}
		applied = ok
	}

	if !v.HasElementInstance() {
		return applied, nil
	}
	flowScope := v.FlowScopeKey
	if !flowScope.Valid() {
		flowScope = e.Key
	}
	ok, err := s.Upsert(ctx, store.Upsert{
		Table: "element_instance",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Fixed("processInstance", v.ProcessInstanceKey.String()),
			store.Fixed("elementId", v.ElementId),
			store.Fixed("elementName", ""),
			store.Fixed("bpmnElementType", v.BpmnElementType),
			store.Mutable("flowScopeKey", flowScope.String()),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
			store.Sticky("completed", e.CompletedAt(e.Intent == event.ElementCompleted || e.Intent == event.SequenceFlowTaken)),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert element instance %d: %w", e.Key, err)
	}
	applied = applied || ok

	definitions := p.resolver.Resolve(ctx, s, v.ProcessDefinitionKey.String())
	if definitions == nil {
		return applied, nil
	}
	if name, found := definitions.ElementName(v.ElementId); found {
		if _, err := s.Exec(ctx, "UPDATE element_instance SET elementName = ? WHERE key = ?", name, e.Key.String()); err != nil {
			return false, fmt.Errorf("failed to update name of element instance %d: %w", e.Key, err)
		}
	}
	return applied, nil
}
