// Package statetest holds the behaviour every state.Store backend must share.
package statetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/core/state"
)

// RunStoreContract runs the shared store checks; newStore must return an empty store.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) state.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing returns none", func(t *testing.T) {
		s := newStore(t)
		st, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, state.StateNone, st)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 42, state.StatePlaying))
		st, err := s.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, state.StatePlaying, st)
	})

	t.Run("set is an upsert", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 7, state.StatePlaying))
		require.NoError(t, s.Set(ctx, 7, state.StatePlaying))
		st, err := s.Get(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, state.StatePlaying, st)
	})

	t.Run("reset clears and is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 9, state.StatePlaying))
		require.NoError(t, s.Reset(ctx, 9))
		require.NoError(t, s.Reset(ctx, 9))
		st, err := s.Get(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, state.StateNone, st)
	})

	t.Run("setting none resets", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 5, state.StatePlaying))
		require.NoError(t, s.Set(ctx, 5, state.StateNone))
		st, err := s.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, state.StateNone, st)
	})

	t.Run("conversations are isolated", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(ctx, 100, state.StatePlaying))
		require.NoError(t, s.Reset(ctx, -100))
		st, err := s.Get(ctx, -100)
		require.NoError(t, err)
		assert.Equal(t, state.StateNone, st)
		st, err = s.Get(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, state.StatePlaying, st)
	})
}
