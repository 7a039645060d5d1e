package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/state"
	"github.com/m3rciful/quizbot/core/telegram"
)

// countingStore wraps a memory store, counts calls and can inject failures.
type countingStore struct {
	inner state.Store

	mu                  sync.Mutex
	gets, sets, resets  int
	lastSet             state.State
	failRead, failWrite bool
}

func newCountingStore() *countingStore {
	return &countingStore{inner: state.NewMemoryStore()}
}

func (s *countingStore) Get(ctx context.Context, id state.ConversationID) (state.State, error) {
	s.mu.Lock()
	s.gets++
	fail := s.failRead
	s.mu.Unlock()
	if fail {
		return state.StateNone, boterr.Store("FSM store is not available", errors.New("read refused"))
	}
	return s.inner.Get(ctx, id)
}

func (s *countingStore) Set(ctx context.Context, id state.ConversationID, st state.State) error {
	s.mu.Lock()
	s.sets++
	s.lastSet = st
	fail := s.failWrite
	s.mu.Unlock()
	if fail {
		return boterr.Store("FSM store is not available", errors.New("write refused"))
	}
	return s.inner.Set(ctx, id, st)
}

func (s *countingStore) Reset(ctx context.Context, id state.ConversationID) error {
	s.mu.Lock()
	s.resets++
	fail := s.failWrite
	s.mu.Unlock()
	if fail {
		return boterr.Store("FSM store is not available", errors.New("write refused"))
	}
	return s.inner.Reset(ctx, id)
}

func (s *countingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets + s.resets
}

// recordingGateway records sent messages and can fail on demand.
type recordingGateway struct {
	mu   sync.Mutex
	sent []telegram.Message
	fail bool
}

func (g *recordingGateway) Send(_ context.Context, msg telegram.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, msg)
	if g.fail {
		return boterr.Delivery("Failed to send a response to the user", errors.New("503"))
	}
	return nil
}

func (g *recordingGateway) Sent() []telegram.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]telegram.Message(nil), g.sent...)
}
