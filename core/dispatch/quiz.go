package dispatch

import (
	"context"

	"github.com/m3rciful/quizbot/core/state"
)

// Quiz produces the quiz content the dispatcher sends. Implementations must
// not touch the conversation store; state transitions belong to the dispatcher.
type Quiz interface {
	// FirstPrompt is appended to the welcome and restart replies.
	FirstPrompt(ctx context.Context, id state.ConversationID) string
	// Turn answers a non-command message during an active game.
	Turn(ctx context.Context, id state.ConversationID, text string) string
	// Score summarises the conversation's results.
	Score(ctx context.Context, id state.ConversationID) string
}

// PlaceholderQuiz returns fixed texts until a question bank is plugged in.
type PlaceholderQuiz struct{}

var _ Quiz = PlaceholderQuiz{}

func (PlaceholderQuiz) FirstPrompt(context.Context, state.ConversationID) string {
	return "❓ Questions are on their way. Stay tuned!"
}

func (PlaceholderQuiz) Turn(context.Context, state.ConversationID, string) string {
	return "🧩 Quiz turns are not available yet. Use /restart to start over or /clear to leave the game."
}

func (PlaceholderQuiz) Score(context.Context, state.ConversationID) string {
	return "🌟 Your scoreboard is a blank canvas waiting to be filled with your achievements! Dive into some games and start racking up those scores. Each game you play adds a new high score to your list. How high can you go? Let the games begin! 🚀"
}
