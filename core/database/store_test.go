package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/state"
	"github.com/m3rciful/quizbot/core/state/statetest"
)

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	target := SQLiteTarget(filepath.Join(t.TempDir(), "states.db"))

	require.NoError(t, RunMigrations(ctx, target))
	db, err := Connect(ctx, target)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStoreContract(t *testing.T) {
	statetest.RunStoreContract(t, func(t *testing.T) state.Store {
		return NewStore(openSQLite(t), "quiz-fsm")
	})
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	target := SQLiteTarget(filepath.Join(t.TempDir(), "states.db"))
	require.NoError(t, RunMigrations(context.Background(), target))
	require.NoError(t, RunMigrations(context.Background(), target))
}

func TestStoreNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	a := NewStore(db, "bot-a")
	b := NewStore(db, "bot-b")

	require.NoError(t, a.Set(ctx, 1, state.StatePlaying))

	st, err := b.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, st)

	require.NoError(t, b.Reset(ctx, 1))
	st, err = a.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state.StatePlaying, st)
}

func TestStoreUnknownLabelIsNone(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	_, err := db.Exec(`INSERT INTO conversation_states (namespace, chat_id, state_name) VALUES ('ns', 5, 'answering')`)
	require.NoError(t, err)

	st, err := NewStore(db, "ns").Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, st)
}

func TestStoreFailuresAreStoreErrors(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	s := NewStore(db, "ns")
	require.NoError(t, db.Close())

	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, boterr.ErrStore)
	assert.ErrorIs(t, s.Set(ctx, 1, state.StatePlaying), boterr.ErrStore)
	assert.ErrorIs(t, s.Reset(ctx, 1), boterr.ErrStore)
}

func TestSelectApplied(t *testing.T) {
	files := []string{"0001_a.up.sql", "0002_b.up.sql", "0003_c.up.sql"}
	assert.Equal(t, []string{"0002_b.up.sql", "0003_c.up.sql"}, selectApplied(files, 1, 3))
	assert.Empty(t, selectApplied(files, 3, 3))
	assert.Equal(t, []string{"0001_conversation_states.up.sql"}, listMigrationFiles())
}
