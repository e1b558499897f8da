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

func (p *projection) decisionRequirements(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.DecisionRequirementsIntent, event.DecisionRequirements](event.CategoryDecisionRequirements, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "decision_requirements",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Mutable("decisionRequirementsId", v.DecisionRequirementsId),
			store.Mutable("decisionRequirementsName", v.DecisionRequirementsName),
			store.Mutable("version", v.DecisionRequirementsVersion),
			store.Mutable("resource", v.Resource),
			store.Mutable("resourceName", v.ResourceName),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert decision requirements %d: %w", e.Key, err)
	}
	return applied, nil
}

func (p *projection) decision(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.DecisionIntent, event.Decision](event.CategoryDecision, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "decision",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Mutable("decisionId", v.DecisionId),
			store.Mutable("decisionName", v.DecisionName),
			store.Mutable("decisionRequirements", v.DecisionRequirementsKey.String()),
			store.Mutable("version", v.Version),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert decision %d: %w", e.Key, err)
	}
	return applied, nil
}

// decisionEvaluation leaves the process references NULL for evaluations that were not
// triggered by a business rule task.
func (p *projection) decisionEvaluation(ctx context.Context, s *store.Session, rec event.Record) (bool, error) {
	e, err := event.Decode[event.DecisionEvaluationIntent, event.DecisionEvaluation](event.CategoryDecisionEvaluation, rec)
	if err != nil {
		return false, err
	}
	v := e.Value
	applied, err := s.Upsert(ctx, store.Upsert{
		Table: "decision_evaluation",
		Columns: []store.Column{
			store.Fixed("key", e.Key.String()),
			store.Fixed("processInstance", v.ProcessInstanceKey.NullString()),
			store.Fixed("processDefinition", v.ProcessDefinitionKey.NullString()),
			store.Fixed("elementInstance", v.ElementInstanceKey.NullString()),
			store.Fixed("decisionRequirements", v.DecisionRequirementsKey.String()),
			store.Fixed("decision", v.DecisionKey.String()),
			store.Mutable("decisionOutput", v.DecisionOutput.String()),
			store.Mutable("evaluatedDecisions", v.EvaluatedDecisions.String()),
			store.Mutable("state", string(e.Intent)),
			store.Fixed("created", e.Timestamp.String()),
			store.Mutable("updated", e.Timestamp.String()),
			store.Sticky("completed", e.CompletedAt(e.Intent == event.DecisionEvaluated)),
		},
		Version: "updated",
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert decision evaluation %d: %w", e.Key, err)
	}
	return applied, nil
}
