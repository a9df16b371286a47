package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutBrokersIsNoop(t *testing.T) {
	t.Parallel()

	p, err := New(nil)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicAuthEvents, "k", map[string]any{"type": "login"}))
	assert.NoError(t, p.Close())
}

func TestNew_WithBrokers(t *testing.T) {
	t.Parallel()

	p, err := New([]string{"localhost:9092"})
	require.NoError(t, err)
	assert.IsType(t, &Producer{}, p)
	assert.NoError(t, p.Close())
}

func TestProducer_RejectsUnmarshalableEvent(t *testing.T) {
	t.Parallel()

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.PublishEvent(context.Background(), TopicUserEvents, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestNewProducer_NoBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	assert.Error(t, err)
}
