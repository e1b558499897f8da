package bpmn20

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefinitions(t *testing.T, name string) *TDefinitions {
	data, err := os.ReadFile("./test-cases/" + name)
	require.NoError(t, err)
	definitions, err := Parse(data)
	require.NoError(t, err)
	return definitions
}

func TestParseCollectsProcessesAndForms(t *testing.T) {
	definitions := loadDefinitions(t, "order-review.bpmn")

	assert.Equal(t, "Definitions_order", definitions.Id)
	require.Len(t, definitions.Processes, 1)
	assert.Equal(t, "order-review", definitions.Processes[0].Id)
	assert.True(t, definitions.Processes[0].IsExecutable)

	require.Len(t, definitions.UserTaskForms, 1)
	assert.Equal(t, "userTaskForm_review", definitions.UserTaskForms[0].Id)
	assert.Equal(t, `{"components":[{"key":"approved","type":"checkbox"}]}`, definitions.UserTaskForms[0].GetSchema())
}

func TestProcessName(t *testing.T) {
	definitions := loadDefinitions(t, "order-review.bpmn")

	name, ok := definitions.ProcessName("order-review")
	assert.True(t, ok)
	assert.Equal(t, "Order review", name)

	// unknown id falls back to the first process
	name, ok = definitions.ProcessName("something-else")
	assert.True(t, ok)
	assert.Equal(t, "Order review", name)

	_, ok = (&TDefinitions{}).ProcessName("order-review")
	assert.False(t, ok)
}

func TestElementName(t *testing.T) {
	definitions := loadDefinitions(t, "order-review.bpmn")

	name, ok := definitions.ElementName("review")
	assert.True(t, ok)
	assert.Equal(t, "Review order", name)

	// element without a name
	_, ok = definitions.ElementName("end")
	assert.False(t, ok)

	_, ok = definitions.ElementName("missing")
	assert.False(t, ok)

	element, ok := definitions.FindBaseElementById("review_di")
	assert.True(t, ok)
	assert.Equal(t, "review_di", element.GetId())
}

func TestParseRejectsMalformedDocument(t *testing.T) {
	_, err := Parse([]byte("<bpmn:definitions"))
	assert.Error(t, err)
}
