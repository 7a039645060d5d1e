package state

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	states map[ConversationID]State
}

// NewMemoryStore constructs an in-memory Store for tests and development.
// States do not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{
		states: make(map[ConversationID]State),
	}
}

// Get returns the stored state or StateNone.
func (m *memoryStore) Get(_ context.Context, id ConversationID) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if st, ok := m.states[id]; ok {
		return st, nil
	}
	return StateNone, nil
}

// Set overwrites the state for id.
func (m *memoryStore) Set(ctx context.Context, id ConversationID, st State) error {
	if st == StateNone {
		return m.Reset(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[id] = st
	return nil
}

// Reset forgets the state for id.
func (m *memoryStore) Reset(_ context.Context, id ConversationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, id)
	return nil
}
