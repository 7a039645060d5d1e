package state

import "strings"

// ConversationID identifies one chat; it is the platform's chat id.
type ConversationID int64

// State is the stored step of a conversation. The zero value is StateNone.
type State string

const (
	// StateNone means no state is stored for the conversation.
	StateNone State = ""
	// StatePlaying indicates an active quiz session.
	StatePlaying State = "playing"
)

// Label returns the persisted representation. StateNone has no label.
func (s State) Label() string {
	return string(s)
}

// String implements fmt.Stringer for log output.
func (s State) String() string {
	if s == StateNone {
		return "none"
	}
	return string(s)
}

// FromLabel resolves a stored label. Unknown labels resolve to StateNone with ok=false.
func FromLabel(label string) (State, bool) {
	switch State(strings.TrimSpace(label)) {
	case StatePlaying:
		return StatePlaying, true
	case StateNone:
		return StateNone, true
	}
	return StateNone, false
}
