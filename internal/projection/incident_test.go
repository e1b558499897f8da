package projection

import (
	"strconv"
	"testing"

	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentRecord(key int64, intent string, timestamp int64, j jobFixture, jobKey int64) event.Record {
	return record(key, intent, timestamp, map[string]any{
		"jobKey":               jobKey,
		"processInstanceKey":   j.instance,
		"processDefinitionKey": j.definition,
		"elementInstanceKey":   j.element,
		"elementId":            "review",
		"errorType":            "JOB_NO_RETRIES",
		"errorMessage":         "worker gave up",
	})
}

func TestIncidentLifecycle(t *testing.T) {
	// given
	f := newFixture(t)
	j := f.startUserTask()
	job := f.key()
	f.mustApply(event.CategoryJob, jobRecord(j, job, "FAILED", 1200, map[string]string{}))
	key := f.key()

	// when
	f.mustApply(event.CategoryIncident, incidentRecord(key, "CREATED", 1300, j, job))
	f.mustApply(event.CategoryIncident, incidentRecord(key, "RESOLVED", 1400, j, job))

	// then
	incidents := f.records("incident")
	require.Len(t, incidents, 1)
	assert.Equal(t, strconv.FormatInt(job, 10), incidents[0]["job"])
	assert.Equal(t, "RESOLVED", incidents[0]["state"])
	assert.Equal(t, "1400", incidents[0]["completed"])
	assert.Equal(t, "worker gave up", incidents[0]["errorMessage"])
}

func TestIncidentWithoutJob(t *testing.T) {
	f := newFixture(t)
	j := f.startUserTask()

	f.mustApply(event.CategoryIncident, incidentRecord(f.key(), "CREATED", 1300, j, -1))

	incidents := f.records("incident")
	require.Len(t, incidents, 1)
	assert.Nil(t, incidents[0]["job"])
	assert.Nil(t, incidents[0]["completed"])
}

func TestProcessLevelIncidentHasNoElementInstance(t *testing.T) {
	// given an incident raised on the process instance itself
	f := newFixture(t)
	definition, instance := f.deployAndStart()
	processLevel := jobFixture{definition: definition, instance: instance, element: instance}

	// when
	err := f.apply(event.CategoryIncident, incidentRecord(f.key(), "CREATED", 1300, processLevel, -1))

	// then
	require.NoError(t, err)
	incidents := f.records("incident")
	require.Len(t, incidents, 1)
	assert.Nil(t, incidents[0]["elementInstance"])
	assert.Equal(t, strconv.FormatInt(instance, 10), incidents[0]["processInstance"])
}
