package bootstrap

import (
	"context"

	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/dispatch"
)

// QuizProvider builds the quiz content plugged into the dispatcher.
type QuizProvider interface {
	Provide(ctx context.Context, cfg *config.Config) (dispatch.Quiz, error)
}

// QuizProviderFunc adapts a bare function to the QuizProvider interface.
type QuizProviderFunc func(ctx context.Context, cfg *config.Config) (dispatch.Quiz, error)

// Provide executes the underlying function.
func (f QuizProviderFunc) Provide(ctx context.Context, cfg *config.Config) (dispatch.Quiz, error) {
	return f(ctx, cfg)
}

// Modules groups optional hooks that extend the default wiring.
type Modules struct {
	// Quiz supplies quiz content; nil keeps dispatch.PlaceholderQuiz.
	Quiz QuizProvider
}

func (m Modules) quiz(ctx context.Context, cfg *config.Config) (dispatch.Quiz, error) {
	if m.Quiz == nil {
		return dispatch.PlaceholderQuiz{}, nil
	}
	return m.Quiz.Provide(ctx, cfg)
}
