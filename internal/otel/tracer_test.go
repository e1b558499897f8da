package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorEndpoint(t *testing.T) {
	endpoint, insecure := collectorEndpoint("http://collector:4318/")
	assert.Equal(t, "collector:4318", endpoint)
	assert.True(t, insecure)

	endpoint, insecure = collectorEndpoint("https://collector.example.com")
	assert.Equal(t, "collector.example.com", endpoint)
	assert.False(t, insecure)

	endpoint, insecure = collectorEndpoint("localhost:4318")
	assert.Equal(t, "localhost:4318", endpoint)
	assert.True(t, insecure)
}
