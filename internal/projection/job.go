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

func (p *projection) job(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.JobIntent, event.Job](event.CategoryJob, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "job",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Fixed("type", v.Type),
			store.Fixed("processInstance", v.ProcessInstanceKey.String()),
			store.Fixed("processDefinition", v.ProcessDefinitionKey.String()),
			store.Fixed("elementInstance", v.ElementInstance()),
			store.Fixed("customHeaders", v.CustomHeadersText()),
			store.Mutable("variables", v.Variables.String()),
			store.Fixed("form", v.Form()),
			store.Mutable("worker", v.Worker),
			store.Mutable("errorCode", v.ErrorCode),
			store.Mutable("errorMessage", v.ErrorMessage),
			store.Mutable("state", string(e.Intent)),
			store.Mutable("retryBackoff", v.RetryBackoff),
			store.Mutable("recurringTime", v.RecurringTime),
			store.Mutable("retries", v.Retries),
			store.Mutable("deadline", v.Deadline),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
			store.Sticky("completed", e.CompletedAt(e.Intent == event.JobCompleted)),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert job %d: %w", e.Key, err)
	}
	return applied, nil
}
