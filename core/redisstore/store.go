// Package redisstore keeps conversation states in Redis as plain string keys.
package redisstore

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	backend "github.com/redis/go-redis/v9"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/state"
)

const (
	defaultPrefix    = "quizbot:fsm:"
	storeUnavailable = "FSM store is not available"
)

// Store implements state.Store on Redis. Keys never expire.
type Store struct {
	client    *backend.Client
	prefix    string
	namespace string
}

var _ state.Store = (*Store)(nil)

// Option customises a Store.
type Option func(*Store)

// WithPrefix sets the key prefix placed before the namespace.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New dials Redis lazily and returns a store for namespace.
func New(addr, password string, db int, namespace string, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, namespace, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, namespace string, opts ...Option) *Store {
	s := &Store{
		client:    client,
		prefix:    defaultPrefix,
		namespace: namespace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id state.ConversationID) string {
	return s.prefix + s.namespace + ":" + strconv.FormatInt(int64(id), 10)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the stored state; a missing key or unknown label is StateNone.
func (s *Store) Get(ctx context.Context, id state.ConversationID) (state.State, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if errors.Is(err, backend.Nil) {
		return state.StateNone, nil
	}
	if err != nil {
		s.logFailure(ctx, "state.get", err)
		return state.StateNone, boterr.Store(storeUnavailable, err)
	}
	st, ok := state.FromLabel(val)
	if !ok {
		logger.Warn(ctx, logger.CompStore, "state.unknown_label",
			slog.String("backend", "redis"),
			slog.String("namespace", s.namespace),
			slog.String("label", logger.SanitizeLimit(val, 64)),
		)
	}
	return st, nil
}

// Set writes the label without expiry; StateNone deletes the key.
func (s *Store) Set(ctx context.Context, id state.ConversationID, st state.State) error {
	if st == state.StateNone {
		return s.Reset(ctx, id)
	}
	if err := s.client.Set(ctx, s.key(id), st.Label(), 0).Err(); err != nil {
		s.logFailure(ctx, "state.set", err)
		return boterr.Store(storeUnavailable, err)
	}
	return nil
}

// Reset deletes the key.
func (s *Store) Reset(ctx context.Context, id state.ConversationID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		s.logFailure(ctx, "state.reset", err)
		return boterr.Store(storeUnavailable, err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) logFailure(ctx context.Context, event string, err error) {
	logger.Error(ctx, logger.CompStore, event,
		slog.String("status", "fail"),
		slog.String("backend", "redis"),
		slog.String("namespace", s.namespace),
		slog.String("err", err.Error()),
	)
}
