package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Annotations: map[string]string{"skip-config": "true"},
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintln(c.OutOrStdout(), buildinfo.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
