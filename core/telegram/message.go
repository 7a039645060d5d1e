package telegram

import "strings"

// ParseMode selects how the platform renders message text.
type ParseMode int

const (
	// ParseModeMarkdown is the legacy Markdown mode and the default.
	ParseModeMarkdown ParseMode = iota
	// ParseModeHTML renders a subset of HTML tags.
	ParseModeHTML
)

// Wire returns the Bot API value for parse_mode.
func (p ParseMode) Wire() string {
	if p == ParseModeHTML {
		return "HTML"
	}
	return "Markdown"
}

// ParseModeFrom maps a config value ("markdown", "html") to a ParseMode.
func ParseModeFrom(s string) ParseMode {
	if strings.EqualFold(strings.TrimSpace(s), "html") {
		return ParseModeHTML
	}
	return ParseModeMarkdown
}

// Message is one outbound text message. The zero value of every optional
// field is the platform default: Markdown, previews shown, notification on,
// not a reply.
type Message struct {
	ChatID                int64
	Text                  string
	ParseMode             ParseMode
	DisableWebPagePreview bool
	DisableNotification   bool
	// ReplyTo is the message id to reply to; 0 means not a reply.
	ReplyTo int64
}

// NewMessage builds a message with default formatting.
func NewMessage(chatID int64, text string) Message {
	return Message{ChatID: chatID, Text: text}
}

// sendMessageRequest is the JSON body of the sendMessage call.
type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	DisableNotification   bool   `json:"disable_notification"`
	ReplyToMessageID      *int64 `json:"reply_to_message_id"`
}

func newSendMessageRequest(m Message) sendMessageRequest {
	req := sendMessageRequest{
		ChatID:                m.ChatID,
		Text:                  m.Text,
		ParseMode:             m.ParseMode.Wire(),
		DisableWebPagePreview: m.DisableWebPagePreview,
		DisableNotification:   m.DisableNotification,
	}
	if m.ReplyTo != 0 {
		id := m.ReplyTo
		req.ReplyToMessageID = &id
	}
	return req
}
