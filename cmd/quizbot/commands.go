package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/dispatch"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Publish the slash command menu to Telegram",
	RunE: func(c *cobra.Command, _ []string) error {
		admin, err := newAdmin()
		if err != nil {
			return err
		}
		menu := dispatch.MenuCommands()
		if err := admin.PublishCommands(c.Context(), menu); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "published %d commands\n", len(menu))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
