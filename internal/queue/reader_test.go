package queue

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callqueue/internal/models"
	"callqueue/internal/store"
)

func newTestReader(t *testing.T) (*Reader, *Engine) {
	t.Helper()
	st := store.NewMemory()
	engine, err := NewEngine(Config{Store: st, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return NewReader(st, nil), engine
}

func TestStatusForWaitingCaller(t *testing.T) {
	reader, engine := newTestReader(t)
	ctx := context.Background()

	_, err := engine.Join(ctx, "555-1111", "Sales")
	require.NoError(t, err)
	_, err = engine.Join(ctx, "555-2222", "Sales")
	require.NoError(t, err)

	status, err := reader.Status(ctx, "555-2222", "Sales")
	require.NoError(t, err)
	assert.Equal(t, "555-2222", status.PhoneNumber)
	assert.Equal(t, "Sales", status.QueueName)
	assert.True(t, status.InQueue)
	require.NotNil(t, status.Position)
	assert.Equal(t, 2, *status.Position)
}

func TestStatusForAbsentCaller(t *testing.T) {
	reader, _ := newTestReader(t)

	status, err := reader.Status(context.Background(), "555-9999", "Sales")
	require.NoError(t, err)
	assert.False(t, status.InQueue)
	assert.Nil(t, status.Position, "absent callers have no position at all")
}

func TestStatusValidatesInput(t *testing.T) {
	reader, _ := newTestReader(t)

	_, err := reader.Status(context.Background(), "", "Sales")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
	_, err = reader.Status(context.Background(), "555-1111", "")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestCountUnknownQueueIsZero(t *testing.T) {
	reader, _ := newTestReader(t)

	count, err := reader.Count(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = reader.Count(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestSummaryListsOnlyOccupiedQueues(t *testing.T) {
	reader, engine := newTestReader(t)
	ctx := context.Background()

	_, err := engine.Join(ctx, "555-1111", "Sales")
	require.NoError(t, err)
	_, err = engine.Join(ctx, "555-2222", "Sales")
	require.NoError(t, err)
	_, err = engine.Join(ctx, "555-3333", "Support")
	require.NoError(t, err)
	_, _, err = engine.Leave(ctx, "555-3333", "Support")
	require.NoError(t, err)

	summary, err := reader.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.QueueCount{{QueueName: "Sales", Count: 2}}, summary)
}
