package webhook

import (
	"bytes"
	"encoding/json"

	"github.com/m3rciful/quizbot/core/boterr"
)

const (
	errIncorrectUpdate = "Incorrect update message from the Telegram API"
	errMissingFields   = "Some update message fields are empty or have wrong format"
)

// Update is the decoded inbound envelope. Only text messages are accepted.
type Update struct {
	UpdateID int64
	Message  UpdateMessage
}

// UpdateMessage carries the fields the bot reads from a message.
type UpdateMessage struct {
	MessageID int64
	Text      string
	ChatID    int64
}

// Pointer fields tell a missing key apart from a zero value.
type rawUpdate struct {
	UpdateID *int64      `json:"update_id"`
	Message  *rawMessage `json:"message"`
}

type rawMessage struct {
	MessageID *int64   `json:"message_id"`
	Text      *string  `json:"text"`
	Chat      *rawChat `json:"chat"`
}

type rawChat struct {
	ID *int64 `json:"id"`
}

// DecodeUpdate parses exactly one update. An absent body is reported as
// missing fields; any JSON that does not fit the shape (invalid syntax, wrong
// types, null or missing required fields) is reported as an incorrect update.
func DecodeUpdate(body []byte) (Update, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Update{}, boterr.Parsing(errMissingFields, nil)
	}

	var raw rawUpdate
	if err := json.Unmarshal(body, &raw); err != nil {
		return Update{}, boterr.Parsing(errIncorrectUpdate, err)
	}

	msg := raw.Message
	if raw.UpdateID == nil || msg == nil || msg.MessageID == nil || msg.Text == nil ||
		msg.Chat == nil || msg.Chat.ID == nil {
		return Update{}, boterr.Parsing(errIncorrectUpdate, nil)
	}

	return Update{
		UpdateID: *raw.UpdateID,
		Message: UpdateMessage{
			MessageID: *msg.MessageID,
			Text:      *msg.Text,
			ChatID:    *msg.Chat.ID,
		},
	}, nil
}
