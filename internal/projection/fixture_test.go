package projection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/pbinitiative/zenbpm-importer/internal/event"
	"github.com/pbinitiative/zenbpm-importer/internal/resolver"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t      *testing.T
	store  *store.Store
	router *Router
	gen    *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(config.Store{Path: filepath.Join(t.TempDir(), "db.sqlite")}, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	res, err := resolver.New(config.DefaultCacheSize, hclog.NewNullLogger(), nil)
	require.NoError(t, err)
	gen, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return &fixture{
		t:      t,
		store:  st,
		router: NewRouter(st, res, hclog.NewNullLogger(), nil),
		gen:    gen,
	}
}

func (f *fixture) key() int64 {
	return f.gen.Generate().Int64()
}

func record(key int64, intent string, timestamp int64, value map[string]any) event.Record {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return event.Record{
		Key:        event.Key(key),
		Intent:     intent,
		Timestamp:  event.Timestamp(strconv.FormatInt(timestamp, 10)),
		RecordType: event.RecordTypeEvent,
		Value:      data,
	}
}

func (f *fixture) apply(category event.Category, rec event.Record) error {
	return f.router.Route(context.Background(), string(category), rec)
}

func (f *fixture) mustApply(category event.Category, rec event.Record) {
	f.t.Helper()
	require.NoError(f.t, f.apply(category, rec))
}

func (f *fixture) records(table string) []store.Record {
	f.t.Helper()
	session := f.store.Acquire(context.Background(), "test")
	defer session.Release()
	records, err := session.Records(context.Background(), table)
	require.NoError(f.t, err)
	return records
}

func (f *fixture) snapshot() map[string][]store.Record {
	f.t.Helper()
	session := f.store.Acquire(context.Background(), "test")
	defer session.Release()
	snapshot, err := session.Snapshot(context.Background())
	require.NoError(f.t, err)
	return snapshot
}

func orderReviewResource(t *testing.T) string {
	data, err := os.ReadFile("../../pkg/bpmn/model/bpmn20/test-cases/order-review.bpmn")
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func processRecord(t *testing.T, key int64, timestamp int64) event.Record {
	return record(key, "CREATED", timestamp, map[string]any{
		"bpmnProcessId":        "order-review",
		"version":              1,
		"processDefinitionKey": key,
		"resourceName":         "order-review.bpmn",
		"resource":             orderReviewResource(t),
		"checksum":             "abc",
	})
}

type element struct {
	key         int64
	instance    int64
	definition  int64
	elementId   string
	elementType string
	flowScope   int64
	intent      string
	timestamp   int64
	bpmnProcess string
}

func (e element) record() event.Record {
	bpmnProcess := e.bpmnProcess
	if bpmnProcess == "" {
		bpmnProcess = "order-review"
	}
	return record(e.key, e.intent, e.timestamp, map[string]any{
		"bpmnProcessId":            bpmnProcess,
		"version":                  1,
		"processDefinitionKey":     e.definition,
		"processInstanceKey":       e.instance,
		"elementId":                e.elementId,
		"bpmnElementType":          e.elementType,
		"flowScopeKey":             e.flowScope,
		"parentProcessInstanceKey": -1,
		"parentElementInstanceKey": -1,
	})
}

// deployAndStart imports a deployment and activates the root element of one instance.
func (f *fixture) deployAndStart() (definition int64, instance int64) {
	definition = f.key()
	instance = f.key()
	f.mustApply(event.CategoryProcess, processRecord(f.t, definition, 1000))
	f.mustApply(event.CategoryProcessInstance, element{
		key: instance, instance: instance, definition: definition,
		elementId: "order-review", elementType: "PROCESS", flowScope: -1,
		intent: "ELEMENT_ACTIVATING", timestamp: 1001,
	}.record())
	return definition, instance
}
