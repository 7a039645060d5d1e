package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/config"
)

const testToken = "123456:TEST-token_value"

// fakeAPI records Bot API calls and answers with a canned response.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []recordedCall
	status int
	body   string
}

type recordedCall struct {
	Method  string
	Payload map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method:  r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:],
		Payload: payload,
	})
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" {
		body = `{"ok":true,"result":{"message_id":1}}`
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeAPI) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func newTestGateway(t *testing.T, api *fakeAPI) *BotGateway {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := NewBot(config.TelegramConfig{Token: testToken, APIURL: srv.URL})
	require.NoError(t, err)
	return NewBotGateway(bot)
}

func TestSendDefaultsPayload(t *testing.T) {
	api := &fakeAPI{}
	gw := newTestGateway(t, api)

	require.NoError(t, gw.Send(context.Background(), NewMessage(42, "hello *world*")))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sendMessage", calls[0].Method)
	p := calls[0].Payload
	assert.EqualValues(t, 42, p["chat_id"])
	assert.Equal(t, "hello *world*", p["text"])
	assert.Equal(t, "Markdown", p["parse_mode"])
	assert.Equal(t, false, p["disable_web_page_preview"])
	assert.Equal(t, false, p["disable_notification"])
	v, ok := p["reply_to_message_id"]
	assert.True(t, ok, "reply_to_message_id must be present")
	assert.Nil(t, v)
}

func TestSendCustomOptions(t *testing.T) {
	api := &fakeAPI{}
	gw := newTestGateway(t, api)

	msg := Message{
		ChatID:                -100,
		Text:                  "<b>hi</b>",
		ParseMode:             ParseModeHTML,
		DisableWebPagePreview: true,
		DisableNotification:   true,
		ReplyTo:               17,
	}
	require.NoError(t, gw.Send(context.Background(), msg))

	p := api.Calls()[0].Payload
	assert.EqualValues(t, -100, p["chat_id"])
	assert.Equal(t, "HTML", p["parse_mode"])
	assert.Equal(t, true, p["disable_web_page_preview"])
	assert.Equal(t, true, p["disable_notification"])
	assert.EqualValues(t, 17, p["reply_to_message_id"])
}

func TestSendFailuresAreDeliveryErrors(t *testing.T) {
	cases := map[string]*fakeAPI{
		"server error":    {status: http.StatusInternalServerError, body: "<html>oops</html>"},
		"api rejection":   {status: http.StatusBadRequest, body: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`},
		"ok false on 200": {body: `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`},
	}
	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			gw := newTestGateway(t, api)
			err := gw.Send(context.Background(), NewMessage(1, "x"))
			require.Error(t, err)
			assert.ErrorIs(t, err, boterr.ErrDelivery)
			assert.Equal(t, "Error while sending a network message: 'Failed to send a response to the user'.", err.Error())
			assert.Len(t, api.Calls(), 1, "exactly one attempt")
		})
	}
}

func TestSendUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	bot, err := NewBot(config.TelegramConfig{Token: testToken, APIURL: url})
	require.NoError(t, err)
	err = NewBotGateway(bot).Send(context.Background(), NewMessage(1, "x"))
	assert.ErrorIs(t, err, boterr.ErrDelivery)
}

func TestSendCanceledContext(t *testing.T) {
	api := &fakeAPI{}
	gw := newTestGateway(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, gw.Send(ctx, NewMessage(1, "x")), boterr.ErrDelivery)
	assert.Empty(t, api.Calls())
}

func TestRedactError(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:TEST-token_value/sendMessage": dial tcp: refused`)
	got := RedactError(err)
	assert.NotContains(t, got, "TEST-token_value")
	assert.Contains(t, got, "bot<redacted>/sendMessage")
	assert.Empty(t, RedactError(nil))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "http_5xx", ClassifyError(&StatusError{Code: 502}))
	assert.Equal(t, "http_4xx", ClassifyError(&StatusError{Code: 403}))
	assert.Equal(t, "flood", ClassifyError(&StatusError{Code: 429}))
	assert.Equal(t, "http_4xx", ClassifyError(errors.New("telegram: Forbidden: bot was blocked by the user (403)")))
	assert.Equal(t, "timeout", ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, "unknown", ClassifyError(errors.New("boom")))
	assert.Empty(t, ClassifyError(nil))
}

func TestStatusErrorMessage(t *testing.T) {
	assert.Equal(t, "telegram: Bad Gateway (502)", (&StatusError{Code: 502}).Error())
	assert.Equal(t, "telegram: chat not found (400)", (&StatusError{Code: 400, Description: "chat not found"}).Error())
}

func TestParseModeFrom(t *testing.T) {
	assert.Equal(t, ParseModeHTML, ParseModeFrom("HTML"))
	assert.Equal(t, ParseModeMarkdown, ParseModeFrom("markdown"))
	assert.Equal(t, ParseModeMarkdown, ParseModeFrom(""))
}
