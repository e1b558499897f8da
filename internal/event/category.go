// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package event

import "strings"

// Category is the entity kind of a record, it selects the projection handler.
type Category string

const (
	CategoryProcess              Category = "process"
	CategoryProcessInstance      Category = "process_instance"
	CategoryJob                  Category = "job"
	CategoryDecisionRequirements Category = "decision_requirements"
	CategoryDecision             Category = "decision"
	CategoryDecisionEvaluation   Category = "decision_evaluation"
	CategoryVariable             Category = "variable"
	CategoryIncident             Category = "incident"
)

// Categories in the order their streams are read. Parents come before children so that a
// single read applies a deployment before the instances that reference it.
var Categories = []Category{
	CategoryProcess,
	CategoryProcessInstance,
	CategoryJob,
	CategoryDecisionRequirements,
	CategoryDecision,
	CategoryDecisionEvaluation,
	CategoryVariable,
	CategoryIncident,
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(s))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// ValueType is the upper case name the exporter uses, e.g. PROCESS_INSTANCE.
func (c Category) ValueType() string {
	return strings.ToUpper(string(c))
}

func (c Category) String() string {
	return string(c)
}
