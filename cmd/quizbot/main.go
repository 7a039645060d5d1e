// Command quizbot serves the quiz bot's Telegram webhook and its admin tasks.
package main

func main() {
	Execute()
}
