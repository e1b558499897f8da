package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elementActivated = `{
  "key": 2251799813685251,
  "intent": "ELEMENT_ACTIVATED",
  "timestamp": 1700000000123,
  "recordType": "EVENT",
  "valueType": "PROCESS_INSTANCE",
  "position": 12,
  "value": {
    "bpmnProcessId": "order-review",
    "version": 1,
    "processDefinitionKey": 2251799813685249,
    "processInstanceKey": 2251799813685250,
    "elementId": "review",
    "bpmnElementType": "USER_TASK",
    "flowScopeKey": 2251799813685250,
    "parentProcessInstanceKey": -1,
    "parentElementInstanceKey": -1
  }
}`

func TestDecodeProcessInstanceEvent(t *testing.T) {
	// given
	rec, err := DecodeRecord(CategoryProcessInstance, []byte(elementActivated))
	require.NoError(t, err)
	require.True(t, rec.IsEvent())

	// when
	e, err := Decode[ElementIntent, ProcessInstance](CategoryProcessInstance, rec)

	// then
	require.NoError(t, err)
	assert.Equal(t, Key(2251799813685251), e.Key)
	assert.Equal(t, ElementActivated, e.Intent)
	assert.Equal(t, "1700000000123", e.Timestamp.String())
	assert.Equal(t, "2251799813685250", e.Value.FlowScopeKey.String())
	assert.False(t, e.Value.ParentProcessInstanceKey.Valid())
	assert.False(t, e.Value.ParentElementInstanceKey.NullString().Valid)
	assert.False(t, e.Value.IsRoot())
	assert.True(t, e.Value.HasElementInstance())
}

func TestDecodeRecordSkipsValidationOfNonEvents(t *testing.T) {
	for _, data := range []string{
		`{"recordType": "COMMAND", "intent": "CREATE"}`,
		`{"recordType": "COMMAND_REJECTION"}`,
		`{"key": 1, "intent": "CREATED", "timestamp": 1}`,
	} {
		rec, err := DecodeRecord(CategoryJob, []byte(data))
		require.NoError(t, err)
		assert.False(t, rec.IsEvent())
	}
}

func TestDecodeRecordMissingEnvelopeFields(t *testing.T) {
	_, err := DecodeRecord(CategoryJob, []byte(`{"recordType": "EVENT", "key": 1, "value": {}}`))

	require.Error(t, err)
	var fault *ValidationFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, CategoryJob, fault.Category)
	assert.Equal(t, []string{"intent", "timestamp"}, fault.Fields)
}

func TestDecodeRecordMalformed(t *testing.T) {
	_, err := DecodeRecord(CategoryJob, []byte(`{"recordType": `))
	assert.True(t, IsValidationFault(err))

	_, err = DecodeRecord(CategoryJob, []byte(`{"recordType": "EVENT", "key": 1, "intent": "CREATED", "timestamp": "soon", "value": {}}`))
	assert.True(t, IsValidationFault(err))
}

func TestKeyAcceptsNumericStrings(t *testing.T) {
	rec, err := DecodeRecord(CategoryProcess, []byte(`{"recordType": "EVENT", "key": "42", "intent": "CREATED", "timestamp": "7", "value": {}}`))
	require.NoError(t, err)
	assert.Equal(t, Key(42), rec.Key)
	assert.Equal(t, Timestamp("7"), rec.Timestamp)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("PROCESS_INSTANCE")
	assert.True(t, ok)
	assert.Equal(t, CategoryProcessInstance, c)
	assert.Equal(t, "PROCESS_INSTANCE", c.ValueType())

	_, ok = ParseCategory("message_subscription")
	assert.False(t, ok)
}
