package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestMenuFiltersAndSorts(t *testing.T) {
	menu := Menu([]Command{
		{Name: "/start", Description: "Start"},
		{Name: "/clear", Description: "Clear"},
		{Name: "/debug", Description: "Debug", Hidden: true},
		{Name: "/empty"},
	})
	assert.Equal(t, []tele.Command{
		{Text: "clear", Description: "Clear"},
		{Text: "start", Description: "Start"},
	}, menu)
}
