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

func (p *projection) incident(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.IncidentIntent, event.Incident](event.CategoryIncident, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "incident",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Fixed("job", v.JobKey.NullString()),
			store.Fixed("processInstance", v.ProcessInstanceKey.String()),
			store.Fixed("processDefinition", v.ProcessDefinitionKey.String()),
			store.Fixed("elementInstance", v.ElementInstance()),
			store.Fixed("elementId", v.ElementId),
			store.Mutable("errorMessage", v.ErrorMessage),
			store.Mutable("errorType", v.ErrorType),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
			store.Sticky("completed", e.CompletedAt(e.Intent == event.IncidentResolved)),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert incident %d: %w", e.Key, err)
	}
	return applied, nil
}
