package resolver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	resources map[string]string
	reads     map[string]int
}

func newFakeReader() *fakeReader {
	return &fakeReader{resources: map[string]string{}, reads: map[string]int{}}
}

func (f *fakeReader) ProcessResource(_ context.Context, key string) (string, error) {
	f.reads[key]++
	resource, ok := f.resources[key]
	if !ok {
		return "", errors.New("no result row")
	}
	return resource, nil
}

func orderReview(t *testing.T) string {
	data, err := os.ReadFile("../../pkg/bpmn/model/bpmn20/test-cases/order-review.bpmn")
	require.NoError(t, err)
	return string(data)
}

func newResolver(t *testing.T, size int) *Resolver {
	r, err := New(size, hclog.NewNullLogger(), nil)
	require.NoError(t, err)
	return r
}

func TestResolveBase64Resource(t *testing.T) {
	// given
	reader := newFakeReader()
	reader.resources["1"] = base64.StdEncoding.EncodeToString([]byte(orderReview(t)))
	r := newResolver(t, 128)

	// when
	definitions := r.Resolve(context.Background(), reader, "1")

	// then
	require.NotNil(t, definitions)
	name, ok := definitions.ProcessName("order-review")
	assert.True(t, ok)
	assert.Equal(t, "Order review", name)
}

func TestResolvePlainResource(t *testing.T) {
	reader := newFakeReader()
	reader.resources["1"] = orderReview(t)
	r := newResolver(t, 128)

	definitions := r.Resolve(context.Background(), reader, "1")

	require.NotNil(t, definitions)
	assert.Len(t, definitions.UserTaskForms, 1)
}

func TestResolveHitsCache(t *testing.T) {
	reader := newFakeReader()
	reader.resources["1"] = orderReview(t)
	r := newResolver(t, 128)

	first := r.Resolve(context.Background(), reader, "1")
	second := r.Resolve(context.Background(), reader, "1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, reader.reads["1"])
}

func TestResolveFailuresAreNotCached(t *testing.T) {
	reader := newFakeReader()
	r := newResolver(t, 128)

	// missing row
	assert.Nil(t, r.Resolve(context.Background(), reader, "1"))
	assert.False(t, r.Contains("1"))

	// unparseable document
	reader.resources["1"] = base64.StdEncoding.EncodeToString([]byte("<definitions"))
	assert.Nil(t, r.Resolve(context.Background(), reader, "1"))
	assert.False(t, r.Contains("1"))

	// the definition becomes readable later
	reader.resources["1"] = orderReview(t)
	assert.NotNil(t, r.Resolve(context.Background(), reader, "1"))
	assert.Equal(t, 3, reader.reads["1"])
}

func TestResolveEvictsLeastRecentlyUsed(t *testing.T) {
	// given
	reader := newFakeReader()
	document := orderReview(t)
	for i := range 129 {
		reader.resources[fmt.Sprintf("%d", i)] = document
	}
	r := newResolver(t, 128)

	// when
	for i := range 129 {
		require.NotNil(t, r.Resolve(context.Background(), reader, fmt.Sprintf("%d", i)))
	}

	// then
	assert.Equal(t, 128, r.Len())
	assert.False(t, r.Contains("0"))
	assert.True(t, r.Contains("128"))

	// re-resolving the evicted key parses it again
	r.Resolve(context.Background(), reader, "0")
	assert.Equal(t, 2, reader.reads["0"])
}

func TestDecodeResource(t *testing.T) {
	assert.Equal(t, []byte("<a/>"), decodeResource(base64.StdEncoding.EncodeToString([]byte("<a/>"))))
	assert.Equal(t, []byte("<a/>"), decodeResource(" <a/>\n"))
	assert.Equal(t, []byte("not base64!"), decodeResource("not base64!"))
}
