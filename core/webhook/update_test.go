package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/core/boterr"
)

func TestDecodeUpdate(t *testing.T) {
	upd, err := DecodeUpdate([]byte(`{"update_id":1,"message":{"message_id":5,"text":"/start","chat":{"id":42,"type":"private"},"date":1700000000}}`))
	require.NoError(t, err)
	assert.Equal(t, Update{UpdateID: 1, Message: UpdateMessage{MessageID: 5, Text: "/start", ChatID: 42}}, upd)
}

func TestDecodeUpdateKeepsEmptyText(t *testing.T) {
	upd, err := DecodeUpdate([]byte(`{"update_id":0,"message":{"message_id":0,"text":"","chat":{"id":-100}}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(-100), upd.Message.ChatID)
	assert.Empty(t, upd.Message.Text)
}

func TestDecodeUpdateKeepsLargeMessageID(t *testing.T) {
	upd, err := DecodeUpdate([]byte(`{"update_id":1,"message":{"message_id":4294967301,"text":"hi","chat":{"id":1}}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(4294967301), upd.Message.MessageID)
}

func TestDecodeUpdateRejectsMalformed(t *testing.T) {
	incorrect := "Error while parsing structure: 'Incorrect update message from the Telegram API'."
	missing := "Error while parsing structure: 'Some update message fields are empty or have wrong format'."

	cases := map[string]struct {
		body string
		want string
	}{
		"empty":            {"", missing},
		"whitespace":       {"  \n", missing},
		"null":             {"null", incorrect},
		"not json":         {"update", incorrect},
		"trailing garbage": {`{"update_id":1}}`, incorrect},
		"wrong type":       {`{"update_id":"1","message":{"message_id":5,"text":"hi","chat":{"id":1}}}`, incorrect},
		"chat id string":   {`{"update_id":1,"message":{"message_id":5,"text":"hi","chat":{"id":"42"}}}`, incorrect},
		"null text":        {`{"update_id":1,"message":{"message_id":5,"text":null,"chat":{"id":1}}}`, incorrect},
		"no update_id":     {`{"message":{"message_id":5,"text":"hi","chat":{"id":1}}}`, incorrect},
		"no message":       {`{"update_id":1,"edited_message":{"message_id":5,"text":"hi","chat":{"id":1}}}`, incorrect},
		"no message_id":    {`{"update_id":1,"message":{"text":"hi","chat":{"id":1}}}`, incorrect},
		"no text":          {`{"update_id":1,"message":{"message_id":5,"photo":[],"chat":{"id":1}}}`, incorrect},
		"no chat":          {`{"update_id":1,"message":{"message_id":5,"text":"hi"}}`, incorrect},
		"no chat id":       {`{"update_id":1,"message":{"message_id":5,"text":"/start","chat":{}}}`, incorrect},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeUpdate([]byte(tc.body))
			require.ErrorIs(t, err, boterr.ErrParsing)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}
