package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStatementSpansAreChildrenOfSession(t *testing.T) {
	// given
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	s, err := Open(config.Store{Path: filepath.Join(t.TempDir(), "db.sqlite")}, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	// when
	session := s.Acquire(context.Background(), "process")
	_, err = session.Upsert(context.Background(), processUpsert("1", "CREATED", "1000"))
	require.NoError(t, err)
	_, err = session.ProcessResource(context.Background(), "1")
	require.NoError(t, err)
	session.Release()

	// then
	spans := recorder.Ended()
	var sessionSpan sdktrace.ReadOnlySpan
	for _, span := range spans {
		if span.Name() == "session-process" {
			sessionSpan = span
		}
	}
	require.NotNil(t, sessionSpan)
	var children []string
	for _, span := range spans {
		if span.Parent().SpanID() == sessionSpan.SpanContext().SpanID() {
			children = append(children, span.Name())
		}
	}
	assert.Equal(t, []string{"rqlite-exec", "rqlite-query"}, children)
}
