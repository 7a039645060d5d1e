// Package commands describes the bot's slash commands as shown in the client menu.
package commands

import (
	"sort"

	tele "gopkg.in/telebot.v4"
)

// Command is one slash command with its menu metadata.
type Command struct {
	// Name includes the leading slash, e.g. "/start".
	Name        string
	Description string
	Hidden      bool
}

// Menu converts visible commands to the Bot API form, sorted by name.
// telebot expects names without the leading slash.
func Menu(cmds []Command) []tele.Command {
	list := make([]tele.Command, 0, len(cmds))
	for _, c := range cmds {
		if c.Hidden || c.Name == "" || c.Description == "" {
			continue
		}
		name := c.Name
		if name[0] == '/' {
			name = name[1:]
		}
		list = append(list, tele.Command{Text: name, Description: c.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}
