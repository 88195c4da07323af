package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mohammad-safakhou/webqa/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDistinctEmptySessions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(0)

	a, err := store.Create(ctx)
	require.NoError(t, err)
	b, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	for _, id := range []string{a, b} {
		history, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, history)
	}
	assert.Equal(t, 2, store.Len())
}

func TestAppendAndUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(0)
	id, err := store.Create(ctx)
	require.NoError(t, err)

	history, err := store.Append(ctx, id, "Q: one", "A: 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q: one", "A: 1"}, history)

	history[0] = "mutated"
	stored, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Q: one", stored[0])

	_, err = store.Append(ctx, "missing", "Q: x")
	assert.True(t, errors.Is(err, session.ErrNotFound))
	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestAppendTrimsToMaxHistory(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(4)
	id, _ := store.Create(ctx)
	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, id, fmt.Sprintf("Q: %d", i), fmt.Sprintf("A: %d", i))
		require.NoError(t, err)
	}
	history, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q: 1", "A: 1", "Q: 2", "A: 2"}, history)
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionStore(0)
	id, _ := store.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Append(ctx, id, fmt.Sprintf("Q: %d", i), fmt.Sprintf("A: %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 100)
}
