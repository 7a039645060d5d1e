package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/redisstore"
	"github.com/m3rciful/quizbot/core/state"
	"github.com/m3rciful/quizbot/core/state/statetest"
)

func newStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.NewFromClient(client, "quiz-fsm", redisstore.WithPrefix("test:")), mr
}

func TestRedisStoreContract(t *testing.T) {
	statetest.RunStoreContract(t, func(t *testing.T) state.Store {
		s, _ := newStore(t)
		return s
	})
}

func TestRedisStoreKeyLayout(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)

	require.NoError(t, s.Set(ctx, -1001, state.StatePlaying))
	got, err := mr.Get("test:quiz-fsm:-1001")
	require.NoError(t, err)
	assert.Equal(t, "playing", got)
	assert.Zero(t, mr.TTL("test:quiz-fsm:-1001"))

	require.NoError(t, s.Reset(ctx, -1001))
	assert.False(t, mr.Exists("test:quiz-fsm:-1001"))
}

func TestRedisStoreUnknownLabelIsNone(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set("test:quiz-fsm:3", "answering"))

	st, err := s.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, st)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t)
	mr.Close()

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, boterr.ErrStore)
	assert.ErrorIs(t, s.Set(ctx, 1, state.StatePlaying), boterr.ErrStore)
	assert.ErrorIs(t, s.Reset(ctx, 1), boterr.ErrStore)
}
