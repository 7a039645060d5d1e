// Package webhook adapts inbound HTTP webhook calls to the dispatcher and
// encodes the outcome as a status code with a JSON message.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/m3rciful/quizbot/core/boterr"
	"github.com/m3rciful/quizbot/core/dispatch"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/state"
)

const (
	successMessage = "Response sent successfully."
	maxBodyBytes   = 1 << 20
)

// Dispatcher runs one inbound message through the state machine.
type Dispatcher interface {
	Dispatch(ctx context.Context, in dispatch.Inbound) (dispatch.Transition, error)
}

// Requirement reports missing process configuration before any I/O happens.
type Requirement func() error

// Response is the encoded outcome of one webhook call.
type Response struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// Handler turns one webhook body into one dispatch.
type Handler struct {
	require    Requirement
	dispatcher Dispatcher
	metrics    *Metrics
}

// NewHandler builds a handler. require may be nil; a nil dispatcher is
// reported per request as an environment error.
func NewHandler(require Requirement, d Dispatcher, m *Metrics) *Handler {
	return &Handler{require: require, dispatcher: d, metrics: m}
}

// Handle validates configuration, decodes the update, dispatches it and
// encodes the result: 200 on success, 400 with the error description otherwise.
func (h *Handler) Handle(ctx context.Context, body []byte) Response {
	start := time.Now()
	tr, err := h.handle(ctx, body)
	h.metrics.observe(err, tr, time.Since(start))
	if err != nil {
		return Response{Status: http.StatusBadRequest, Message: err.Error()}
	}
	return Response{Status: http.StatusOK, Message: successMessage}
}

func (h *Handler) handle(ctx context.Context, body []byte) (*dispatch.Transition, error) {
	if h.require != nil {
		if err := h.require(); err != nil {
			logger.Error(ctx, logger.CompWebhook, "config.missing",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
			return nil, err
		}
	}
	if h.dispatcher == nil {
		return nil, boterr.Environment("Update dispatcher is not configured")
	}

	upd, err := DecodeUpdate(body)
	if err != nil {
		logger.Warn(ctx, logger.CompWebhook, "update.decode",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.Int("bytes", len(body)),
		)
		return nil, err
	}

	ctx = logger.WithUpdateMeta(ctx, upd.UpdateID, upd.Message.ChatID)
	if logger.RIDFrom(ctx) == "" {
		ctx = logger.WithRID(ctx, logger.BuildRID(upd.UpdateID, upd.Message.ChatID))
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, logger.CompWebhook, "update.received",
			slog.String("status", "ok"),
			slog.String("payload", logger.SanitizeLimit(upd.Message.Text, 256)),
		)
	}

	tr, err := h.dispatcher.Dispatch(ctx, dispatch.Inbound{
		ConversationID: state.ConversationID(upd.Message.ChatID),
		MessageID:      upd.Message.MessageID,
		Text:           upd.Message.Text,
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// ServeHTTP reads the request body and writes the JSON response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var resp Response
	if err != nil {
		perr := boterr.Parsing(errIncorrectUpdate, err)
		h.metrics.observe(perr, nil, 0)
		resp = Response{Status: http.StatusBadRequest, Message: perr.Error()}
	} else {
		resp = h.Handle(r.Context(), body)
	}
	writeJSON(r.Context(), w, resp.Status, resp)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(ctx, logger.CompHTTP, "response.encode",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}
