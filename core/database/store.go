package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/state"
)

const storeUnavailable = "FSM store is not available"

const (
	selectStateSQL = `SELECT state_name FROM conversation_states WHERE namespace = ? AND chat_id = ?`
	upsertStateSQL = `INSERT INTO conversation_states (namespace, chat_id, state_name, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (namespace, chat_id) DO UPDATE SET state_name = excluded.state_name, updated_at = excluded.updated_at`
	deleteStateSQL = `DELETE FROM conversation_states WHERE namespace = ? AND chat_id = ?`
)

// Store keeps conversation states in the conversation_states table, scoped by namespace.
type Store struct {
	db        *sqlx.DB
	namespace string

	selectQ string
	upsertQ string
	deleteQ string
}

var _ state.Store = (*Store)(nil)

// NewStore wraps an open connection. The schema must already be migrated.
func NewStore(db *sqlx.DB, namespace string) *Store {
	return &Store{
		db:        db,
		namespace: namespace,
		selectQ:   db.Rebind(selectStateSQL),
		upsertQ:   db.Rebind(upsertStateSQL),
		deleteQ:   db.Rebind(deleteStateSQL),
	}
}

// Get returns the stored state; a missing row or an unknown label is StateNone.
func (s *Store) Get(ctx context.Context, id state.ConversationID) (state.State, error) {
	var label string
	err := s.db.GetContext(ctx, &label, s.selectQ, s.namespace, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return state.StateNone, nil
	}
	if err != nil {
		s.logFailure(ctx, "state.get", err)
		return state.StateNone, boterr.Store(storeUnavailable, err)
	}
	st, ok := state.FromLabel(label)
	if !ok {
		logger.Warn(ctx, logger.CompStore, "state.unknown_label",
			slog.String("backend", s.db.DriverName()),
			slog.String("namespace", s.namespace),
			slog.String("label", logger.SanitizeLimit(label, 64)),
		)
	}
	return st, nil
}

// Set upserts the state; StateNone deletes the row.
func (s *Store) Set(ctx context.Context, id state.ConversationID, st state.State) error {
	if st == state.StateNone {
		return s.Reset(ctx, id)
	}
	if _, err := s.db.ExecContext(ctx, s.upsertQ, s.namespace, int64(id), st.Label()); err != nil {
		s.logFailure(ctx, "state.set", err)
		return boterr.Store(storeUnavailable, err)
	}
	return nil
}

// Reset deletes the row if present.
func (s *Store) Reset(ctx context.Context, id state.ConversationID) error {
	if _, err := s.db.ExecContext(ctx, s.deleteQ, s.namespace, int64(id)); err != nil {
		s.logFailure(ctx, "state.reset", err)
		return boterr.Store(storeUnavailable, err)
	}
	return nil
}

func (s *Store) logFailure(ctx context.Context, event string, err error) {
	logger.Error(ctx, logger.CompStore, event,
		slog.String("status", "fail"),
		slog.String("backend", s.db.DriverName()),
		slog.String("namespace", s.namespace),
		slog.String("err", err.Error()),
	)
}
