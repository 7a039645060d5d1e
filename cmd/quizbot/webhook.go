package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/telegram"
)

var webhookURL string

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Inspect or change the bot's webhook registration",
}

var webhookGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current webhook status",
	RunE: func(c *cobra.Command, _ []string) error {
		admin, err := newAdmin()
		if err != nil {
			return err
		}
		status, err := admin.Webhook(c.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(c.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

var webhookSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Register the webhook URL and drop pending updates",
	RunE: func(c *cobra.Command, _ []string) error {
		url := webhookURL
		if url == "" {
			url = cfg.Telegram.WebhookURL
		}
		admin, err := newAdmin()
		if err != nil {
			return err
		}
		if err := admin.SetWebhook(c.Context(), url); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "webhook set to %s\n", url)
		return nil
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the webhook registration",
	RunE: func(c *cobra.Command, _ []string) error {
		admin, err := newAdmin()
		if err != nil {
			return err
		}
		if err := admin.DeleteWebhook(c.Context()); err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "webhook removed")
		return nil
	},
}

func newAdmin() (*telegram.Admin, error) {
	if err := cfg.Require(); err != nil {
		return nil, err
	}
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		return nil, err
	}
	return telegram.NewAdmin(bot), nil
}

func init() {
	webhookSetCmd.Flags().StringVar(&webhookURL, "url", "", "public HTTPS URL (defaults to telegram.webhook_url)")
	webhookCmd.AddCommand(webhookGetCmd, webhookSetCmd, webhookDeleteCmd)
	rootCmd.AddCommand(webhookCmd)
}
