package dispatch

import "github.com/m3rciful/quizbot/core/telegram/commands"

// CommandKind enumerates the commands the bot understands.
type CommandKind int

const (
	// CommandUnrecognized is any text that is not an exact command match.
	CommandUnrecognized CommandKind = iota
	CommandStart
	CommandRestart
	CommandScore
	CommandClear
)

var commandNames = map[string]CommandKind{
	"/start":   CommandStart,
	"/restart": CommandRestart,
	"/score":   CommandScore,
	"/clear":   CommandClear,
}

// String returns the command text, or "unrecognized".
func (k CommandKind) String() string {
	switch k {
	case CommandStart:
		return "/start"
	case CommandRestart:
		return "/restart"
	case CommandScore:
		return "/score"
	case CommandClear:
		return "/clear"
	}
	return "unrecognized"
}

// Command is the classified form of an inbound text. Text keeps the literal
// input so an unrecognized command can be echoed back.
type Command struct {
	Kind CommandKind
	Text string
}

// Classify matches text against the known commands. Matching is exact and
// case-sensitive on the whole text: "/start now" and "/START" are unrecognized.
func Classify(text string) Command {
	if kind, ok := commandNames[text]; ok {
		return Command{Kind: kind, Text: text}
	}
	return Command{Kind: CommandUnrecognized, Text: text}
}

// MenuCommands lists the commands published to the client menu.
func MenuCommands() []commands.Command {
	return []commands.Command{
		{Name: CommandStart.String(), Description: "Start a new quiz"},
		{Name: CommandRestart.String(), Description: "Start your quiz from the very beginning"},
		{Name: CommandScore.String(), Description: "View your top score in quiz"},
		{Name: CommandClear.String(), Description: "Clear your score table"},
	}
}
