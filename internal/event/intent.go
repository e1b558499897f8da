// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package event

import "slices"

// Intent is the closed set of transitions of one category.
type Intent interface {
	~string
	Valid() bool
}

type ProcessIntent string

const (
	ProcessCreated  ProcessIntent = "CREATED"
	ProcessDeleting ProcessIntent = "DELETING"
	ProcessDeleted  ProcessIntent = "DELETED"
)

func (i ProcessIntent) Valid() bool {
	return slices.Contains([]ProcessIntent{ProcessCreated, ProcessDeleting, ProcessDeleted}, i)
}

type ElementIntent string

const (
	ElementActivating   ElementIntent = "ELEMENT_ACTIVATING"
	ElementActivated    ElementIntent = "ELEMENT_ACTIVATED"
	ElementCompleting   ElementIntent = "ELEMENT_COMPLETING"
	ElementCompleted    ElementIntent = "ELEMENT_COMPLETED"
	ElementTerminating  ElementIntent = "ELEMENT_TERMINATING"
	ElementTerminated   ElementIntent = "ELEMENT_TERMINATED"
	SequenceFlowTaken   ElementIntent = "SEQUENCE_FLOW_TAKEN"
	SequenceFlowDeleted ElementIntent = "SEQUENCE_FLOW_DELETED" // emitted by migrations
	ElementMigrated     ElementIntent = "ELEMENT_MIGRATED"
	AncestorMigrated    ElementIntent = "ANCESTOR_MIGRATED"
)

func (i ElementIntent) Valid() bool {
	return slices.Contains([]ElementIntent{
		ElementActivating, ElementActivated, ElementCompleting, ElementCompleted,
		ElementTerminating, ElementTerminated, SequenceFlowTaken, SequenceFlowDeleted,
		ElementMigrated, AncestorMigrated,
	}, i)
}

type JobIntent string

const (
	JobCreated              JobIntent = "CREATED"
	JobCompleted            JobIntent = "COMPLETED"
	JobTimedOut             JobIntent = "TIMED_OUT"
	JobFailed               JobIntent = "FAILED"
	JobRetriesUpdated       JobIntent = "RETRIES_UPDATED"
	JobCanceled             JobIntent = "CANCELED"
	JobErrorThrown          JobIntent = "ERROR_THROWN"
	JobRecurredAfterBackoff JobIntent = "RECURRED_AFTER_BACKOFF"
	JobYielded              JobIntent = "YIELDED"
	JobTimeoutUpdated       JobIntent = "TIMEOUT_UPDATED"
	JobMigrated             JobIntent = "MIGRATED"
	JobUpdated              JobIntent = "UPDATED"
)

func (i JobIntent) Valid() bool {
	return slices.Contains([]JobIntent{
		JobCreated, JobCompleted, JobTimedOut, JobFailed, JobRetriesUpdated, JobCanceled,
		JobErrorThrown, JobRecurredAfterBackoff, JobYielded, JobTimeoutUpdated, JobMigrated, JobUpdated,
	}, i)
}

type DecisionRequirementsIntent string

const (
	DecisionRequirementsCreated DecisionRequirementsIntent = "CREATED"
	DecisionRequirementsDeleted DecisionRequirementsIntent = "DELETED"
)

func (i DecisionRequirementsIntent) Valid() bool {
	return i == DecisionRequirementsCreated || i == DecisionRequirementsDeleted
}

type DecisionIntent string

const (
	DecisionCreated DecisionIntent = "CREATED"
	DecisionDeleted DecisionIntent = "DELETED"
)

func (i DecisionIntent) Valid() bool {
	return i == DecisionCreated || i == DecisionDeleted
}

type DecisionEvaluationIntent string

const (
	DecisionEvaluated        DecisionEvaluationIntent = "EVALUATED"
	DecisionEvaluationFailed DecisionEvaluationIntent = "FAILED"
)

func (i DecisionEvaluationIntent) Valid() bool {
	return i == DecisionEvaluated || i == DecisionEvaluationFailed
}

type VariableIntent string

const (
	VariableCreated  VariableIntent = "CREATED"
	VariableUpdated  VariableIntent = "UPDATED"
	VariableMigrated VariableIntent = "MIGRATED"
)

func (i VariableIntent) Valid() bool {
	return i == VariableCreated || i == VariableUpdated || i == VariableMigrated
}

type IncidentIntent string

const (
	IncidentCreated  IncidentIntent = "CREATED"
	IncidentResolved IncidentIntent = "RESOLVED"
	IncidentMigrated IncidentIntent = "MIGRATED"
)

func (i IncidentIntent) Valid() bool {
	return i == IncidentCreated || i == IncidentResolved || i == IncidentMigrated
}
