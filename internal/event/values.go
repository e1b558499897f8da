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
	"strings"
)

// Event is a validated record of one category.
type Event[I Intent, V any] struct {
	Key       Key
	Intent    I
	Timestamp Timestamp
	Value     V
}

// Decode validates the intent and the value of rec against the category's structured value.
func Decode[I Intent, V any](category Category, rec Record) (Event[I, V], error) {
	intent := I(rec.Intent)
	if !intent.Valid() {
		return Event[I, V]{}, &ValidationFault{
			Category: category,
			Fields:   []string{"intent"},
			Cause:    fmt.Errorf("unknown intent %q", rec.Intent),
		}
	}
	value, err := decodeValue[V](category, rec.Value)
	if err != nil {
		return Event[I, V]{}, err
	}
	return Event[I, V]{
		Key:       rec.Key,
		Intent:    intent,
		Timestamp: rec.Timestamp,
		Value:     value,
	}, nil
}

// CompletedAt is the event timestamp when done holds, NULL otherwise.
func (e Event[I, V]) CompletedAt(done bool) sql.NullString {
	if !done {
		return sql.NullString{}
	}
	return sql.NullString{String: e.Timestamp.String(), Valid: true}
}

// JSONText is an opaque structured payload persisted as compact JSON text.
type JSONText json.RawMessage

func (j *JSONText) UnmarshalJSON(data []byte) error {
	var b bytes.Buffer
	if err := json.Compact(&b, data); err != nil {
		return err
	}
	*j = JSONText(b.Bytes())
	return nil
}

func (j JSONText) String() string {
	return string(j)
}

type Process struct {
	BpmnProcessId        string `json:"bpmnProcessId" required:"true"`
	Version              int64  `json:"version" required:"true"`
	ProcessDefinitionKey Key    `json:"processDefinitionKey" required:"true"`
	ResourceName         string `json:"resourceName" required:"true"`
	Resource             string `json:"resource" required:"true"`
	Checksum             string `json:"checksum"`
	TenantId             string `json:"tenantId"`
}

const (
	ElementTypeProcess      = "PROCESS"
	ElementTypeSequenceFlow = "SEQUENCE_FLOW"
)

type ProcessInstance struct {
	BpmnProcessId            string `json:"bpmnProcessId" required:"true"`
	Version                  int64  `json:"version"`
	ProcessDefinitionKey     Key    `json:"processDefinitionKey" required:"true"`
	ProcessInstanceKey       Key    `json:"processInstanceKey" required:"true"`
	ElementId                string `json:"elementId" required:"true"`
	BpmnElementType          string `json:"bpmnElementType" required:"true"`
	FlowScopeKey             Key    `json:"flowScopeKey" required:"true"`
	ParentProcessInstanceKey Key    `json:"parentProcessInstanceKey" required:"true"`
	ParentElementInstanceKey Key    `json:"parentElementInstanceKey" required:"true"`
	TenantId                 string `json:"tenantId"`
}

// IsRoot reports whether the record describes the process element of its own instance.
func (p ProcessInstance) IsRoot() bool {
	return p.ElementId == p.BpmnProcessId
}

// HasElementInstance is false for sequence flows and the process element itself.
func (p ProcessInstance) HasElementInstance() bool {
	return p.BpmnElementType != ElementTypeSequenceFlow && p.BpmnElementType != ElementTypeProcess
}

// FormKeyHeader is the custom header linking a user task job to its embedded form.
const FormKeyHeader = "io.camunda.zeebe:formKey"

type Job struct {
	Type                 string            `json:"type" required:"true"`
	ProcessInstanceKey   Key               `json:"processInstanceKey" required:"true"`
	ProcessDefinitionKey Key               `json:"processDefinitionKey" required:"true"`
	ElementInstanceKey   Key               `json:"elementInstanceKey" required:"true"`
	ElementId            string            `json:"elementId"`
	BpmnProcessId        string            `json:"bpmnProcessId"`
	CustomHeaders        map[string]string `json:"customHeaders" required:"true"`
	Variables            JSONText          `json:"variables" required:"true"`
	Worker               *string           `json:"worker" required:"present"`
	ErrorCode            *string           `json:"errorCode" required:"present"`
	ErrorMessage         *string           `json:"errorMessage" required:"present"`
	RetryBackoff         int64             `json:"retryBackoff" required:"true"`
	RecurringTime        int64             `json:"recurringTime" required:"true"`
	Retries              int64             `json:"retries" required:"true"`
	Deadline             int64             `json:"deadline" required:"true"`
}

// ElementInstance is NULL for process level jobs, the process instance has no element instance row.
func (j Job) ElementInstance() sql.NullString {
	return elementInstance(j.ElementInstanceKey, j.ProcessInstanceKey)
}

// Form is the last colon separated segment of the form key header, e.g.
// camunda-forms:bpmn:userTaskForm_1 refers to userTaskForm_1. NULL when the header is missing or empty.
func (j Job) Form() sql.NullString {
	formKey := j.CustomHeaders[FormKeyHeader]
	if i := strings.LastIndex(formKey, ":"); i >= 0 {
		formKey = formKey[i+1:]
	}
	return sql.NullString{String: formKey, Valid: formKey != ""}
}

// CustomHeadersText renders the headers as JSON text, keys sorted.
func (j Job) CustomHeadersText() string {
	if j.CustomHeaders == nil {
		return "{}"
	}
	data, _ := json.Marshal(j.CustomHeaders)
	return string(data)
}

type DecisionRequirements struct {
	DecisionRequirementsId      string `json:"decisionRequirementsId" required:"true"`
	DecisionRequirementsName    string `json:"decisionRequirementsName" required:"true"`
	DecisionRequirementsVersion int64  `json:"decisionRequirementsVersion" required:"true"`
	ResourceName                string `json:"resourceName" required:"true"`
	Resource                    string `json:"resource" required:"true"`
}

type Decision struct {
	DecisionId              string `json:"decisionId" required:"true"`
	DecisionName            string `json:"decisionName" required:"true"`
	Version                 int64  `json:"version" required:"true"`
	DecisionRequirementsKey Key    `json:"decisionRequirementsKey" required:"true"`
	DecisionRequirementsId  string `json:"decisionRequirementsId"`
}

type DecisionEvaluation struct {
	ProcessInstanceKey       Key      `json:"processInstanceKey" required:"true"`
	ProcessDefinitionKey     Key      `json:"processDefinitionKey" required:"true"`
	ElementInstanceKey       Key      `json:"elementInstanceKey" required:"true"`
	DecisionRequirementsKey  Key      `json:"decisionRequirementsKey" required:"true"`
	DecisionKey              Key      `json:"decisionKey" required:"true"`
	DecisionOutput           JSONText `json:"decisionOutput" required:"true"`
	EvaluatedDecisions       JSONText `json:"evaluatedDecisions" required:"true"`
	EvaluationFailureMessage string   `json:"evaluationFailureMessage"`
}

type Variable struct {
	Name                 string  `json:"name" required:"true"`
	Value                *string `json:"value" required:"present"`
	ProcessInstanceKey   Key     `json:"processInstanceKey" required:"true"`
	ProcessDefinitionKey Key     `json:"processDefinitionKey" required:"true"`
	ScopeKey             Key     `json:"scopeKey" required:"true"`
}

// FlowScope is NULL for instance level variables and the scope key for nested scopes.
func (v Variable) FlowScope() sql.NullString {
	if v.ScopeKey == v.ProcessInstanceKey {
		return sql.NullString{}
	}
	return v.ScopeKey.NullString()
}

type Incident struct {
	JobKey               Key     `json:"jobKey" required:"true"`
	ProcessInstanceKey   Key     `json:"processInstanceKey" required:"true"`
	ProcessDefinitionKey Key     `json:"processDefinitionKey" required:"true"`
	ElementInstanceKey   Key     `json:"elementInstanceKey" required:"true"`
	ElementId            string  `json:"elementId" required:"true"`
	ErrorType            string  `json:"errorType" required:"true"`
	ErrorMessage         *string `json:"errorMessage" required:"present"`
}

// ElementInstance is NULL for incidents raised on the process instance itself.
func (i Incident) ElementInstance() sql.NullString {
	return elementInstance(i.ElementInstanceKey, i.ProcessInstanceKey)
}

func elementInstance(element Key, instance Key) sql.NullString {
	if element == instance {
		return sql.NullString{}
	}
	return element.NullString()
}
