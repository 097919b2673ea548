package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/tyto/internal/core"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, core.ErrQueueCapacity)

	_, err = New(-1)
	assert.ErrorIs(t, err, core.ErrQueueCapacity)
}

func TestFIFOOrderPreserved(t *testing.T) {
	q, err := New(8)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		require.True(t, q.TryPush(core.OctetEvent{Data: byte(i), Valid: true}))
	}
	for i := 0; i < 8; i++ {
		ev, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, byte(i), ev.Data, "event %d out of order", i)
	}
}

func TestTryPushRefusedWhenFull(t *testing.T) {
	q, err := New(2)
	require.NoError(t, err)

	assert.True(t, q.TryPush(core.OctetEvent{SOF: true}))
	assert.True(t, q.TryPush(core.OctetEvent{Valid: true}))
	assert.True(t, q.Full())
	assert.False(t, q.TryPush(core.OctetEvent{EOF: true}), "push into full queue must be refused")

	// Draining one slot re-admits exactly one event; the refused event
	// was never enqueued.
	ev, ok := q.TryPop()
	require.True(t, ok)
	assert.True(t, ev.SOF)
	assert.True(t, q.TryPush(core.OctetEvent{EOF: true}))
}

func TestPopBlocksUntilPush(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.TryPush(core.OctetEvent{Data: 0x42, Valid: true})
	}()

	ev, ok := q.Pop(context.Background())
	require.True(t, ok)
	assert.Equal(t, byte(0x42), ev.Data)
}

func TestPopReturnsOnContextCancel(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, ok := q.Pop(ctx)
	assert.False(t, ok)
}

func TestCloseDrainsThenSignals(t *testing.T) {
	q, err := New(4)
	require.NoError(t, err)

	require.True(t, q.TryPush(core.OctetEvent{Data: 1, Valid: true}))
	require.True(t, q.TryPush(core.OctetEvent{Data: 2, Valid: true}))
	q.Close()

	ev, ok := q.Pop(context.Background())
	require.True(t, ok)
	assert.Equal(t, byte(1), ev.Data)

	ev, ok = q.Pop(context.Background())
	require.True(t, ok)
	assert.Equal(t, byte(2), ev.Data)

	_, ok = q.Pop(context.Background())
	assert.False(t, ok, "closed and drained queue must signal end")
}
