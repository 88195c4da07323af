// Package inmemory keeps chat sessions in a mutex-guarded map.
package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/webqa/session"
)

// Store keeps sessions in process memory. All history is lost on restart.
type Store struct {
	sessions   map[string][]string
	maxHistory int
	mu         sync.RWMutex
}

// NewInMemorySessionStore returns a store trimming each history to
// maxHistory entries (0 keeps everything).
func NewInMemorySessionStore(maxHistory int) *Store {
	return &Store{sessions: make(map[string][]string), maxHistory: maxHistory}
}

func (store *Store) Create(_ context.Context) (string, error) {
	id := uuid.NewString()
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[id] = []string{}
	return id, nil
}

func (store *Store) Get(_ context.Context, id string) ([]string, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	history, ok := store.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return append([]string(nil), history...), nil
}

func (store *Store) Append(_ context.Context, id string, entries ...string) ([]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	history, ok := store.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	history = append(history, entries...)
	if store.maxHistory > 0 && len(history) > store.maxHistory {
		history = append([]string(nil), history[len(history)-store.maxHistory:]...)
	}
	store.sessions[id] = history
	return append([]string(nil), history...), nil
}

// Len reports the number of live sessions.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}

func (store *Store) Close() error { return nil }
