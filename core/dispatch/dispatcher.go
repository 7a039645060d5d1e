// Package dispatch runs the conversation state machine: it classifies the
// inbound text, reads the conversation state, persists the transition and
// sends exactly one reply.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/state"
	"github.com/m3rciful/quizbot/core/telegram"
)

// Inbound is the part of an update the dispatcher needs.
type Inbound struct {
	ConversationID state.ConversationID
	MessageID      int64
	Text           string
}

// WriteOp is the store mutation a transition requires.
type WriteOp int

const (
	WriteNone WriteOp = iota
	WriteSet
	WriteReset
)

func (w WriteOp) String() string {
	switch w {
	case WriteSet:
		return "set"
	case WriteReset:
		return "reset"
	}
	return "none"
}

// Transition describes what one dispatch did.
type Transition struct {
	Command CommandKind
	From    state.State
	To      state.State
	Write   WriteOp
	Reply   string
}

// Options configures reply formatting and quiz content.
type Options struct {
	Quiz                  Quiz
	ParseMode             telegram.ParseMode
	DisableWebPagePreview bool
	DisableNotification   bool
}

// Dispatcher maps (state, command) to a reply and the next state.
type Dispatcher struct {
	store   state.Store
	gateway telegram.Gateway
	opts    Options
}

// New builds a dispatcher. A nil Quiz falls back to PlaceholderQuiz.
func New(store state.Store, gateway telegram.Gateway, opts Options) *Dispatcher {
	if opts.Quiz == nil {
		opts.Quiz = PlaceholderQuiz{}
	}
	return &Dispatcher{store: store, gateway: gateway, opts: opts}
}

// Plan computes the transition for cmd in state current without side effects.
// Commands take precedence over the current state.
func (d *Dispatcher) Plan(ctx context.Context, id state.ConversationID, cmd Command, current state.State) Transition {
	t := Transition{Command: cmd.Kind, From: current, To: current}
	quiz := d.opts.Quiz

	switch cmd.Kind {
	case CommandStart:
		t.Reply = withPrompt(welcomeText, quiz.FirstPrompt(ctx, id))
		t.To, t.Write = state.StatePlaying, WriteSet
	case CommandRestart:
		t.Reply = withPrompt(restartText, quiz.FirstPrompt(ctx, id))
		t.To, t.Write = state.StatePlaying, WriteSet
	case CommandScore:
		t.Reply = quiz.Score(ctx, id)
	case CommandClear:
		t.Reply = clearedText
		t.To, t.Write = state.StateNone, WriteReset
	default:
		switch current {
		case state.StatePlaying:
			t.Reply = quiz.Turn(ctx, id, cmd.Text)
		default:
			t.Reply = notRecognizedText(cmd.Text)
		}
	}
	return t
}

// Dispatch handles one inbound message: at most one store read, at most one
// store write, then exactly one send, in that order. A failed read or write
// aborts before the send. A failed send does not undo the write.
func (d *Dispatcher) Dispatch(ctx context.Context, in Inbound) (Transition, error) {
	start := time.Now()
	cmd := Classify(in.Text)
	ctx = logger.WithHandler(ctx, cmd.Kind.String())

	current, err := d.store.Get(ctx, in.ConversationID)
	if err != nil {
		d.logFailure(ctx, "state.read", start, err)
		return Transition{Command: cmd.Kind}, err
	}

	t := d.Plan(ctx, in.ConversationID, cmd, current)

	switch t.Write {
	case WriteSet:
		err = d.store.Set(ctx, in.ConversationID, t.To)
	case WriteReset:
		err = d.store.Reset(ctx, in.ConversationID)
	}
	if err != nil {
		d.logFailure(ctx, "state.write", start, err)
		return t, err
	}

	msg := telegram.NewMessage(int64(in.ConversationID), t.Reply)
	msg.ParseMode = d.opts.ParseMode
	msg.DisableWebPagePreview = d.opts.DisableWebPagePreview
	msg.DisableNotification = d.opts.DisableNotification
	if err := d.gateway.Send(ctx, msg); err != nil {
		d.logFailure(ctx, "reply.send", start, err)
		return t, err
	}

	logger.Info(ctx, logger.CompDispatch, "update.handled",
		slog.String("status", "ok"),
		slog.String("command", cmd.Kind.String()),
		slog.String("state_from", t.From.String()),
		slog.String("state_to", t.To.String()),
		slog.String("write", t.Write.String()),
		slog.Duration("duration", logger.Took(start)),
	)
	return t, nil
}

func (d *Dispatcher) logFailure(ctx context.Context, stage string, start time.Time, err error) {
	logger.Warn(ctx, logger.CompDispatch, "update.failed",
		slog.String("status", "fail"),
		slog.String("stage", stage),
		slog.Duration("duration", logger.Took(start)),
		slog.String("err", err.Error()),
	)
}
