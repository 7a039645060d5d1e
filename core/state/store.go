package state

import "context"

// Store persists at most one State per conversation within a namespace.
//
// Get returns StateNone when nothing (or an unknown label) is stored. Set is an
// unconditional upsert; setting StateNone removes the record. Reset is an
// idempotent delete. Backend failures are reported as boterr store errors.
type Store interface {
	Get(ctx context.Context, id ConversationID) (State, error)
	Set(ctx context.Context, id ConversationID, st State) error
	Reset(ctx context.Context, id ConversationID) error
}
