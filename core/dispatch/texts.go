package dispatch

import "fmt"

const (
	welcomeText = "🌎 Hi there, I'm Nationguessr! With me, you get to test your knowledge about countries from all over the world by trying to guess them based on random facts about their history, culture, geography, and much more!\n\n" +
		"🔁 To play a quiz from the beginning use /restart command.\n" +
		"🔝 To see your highest score in quiz use /score command.\n" +
		"🆑 To clear all your high score history use /clear command.\n\n" +
		"Here is your first question:"

	restartText = "🔁 Your quiz starts over from the very beginning. Here is your first question:"

	clearedText = "Now your high score board is empty. Use /start command to play a new game!"
)

func notRecognizedText(text string) string {
	return fmt.Sprintf("Your command *%s* is not recognized! See the list of available commands in the *Menu* section.", text)
}

func withPrompt(intro, prompt string) string {
	if prompt == "" {
		return intro
	}
	return intro + "\n\n" + prompt
}
