package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/cmd"
	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/logger"
)

var (
	configFlag  string
	envFileFlag string

	// cfg is loaded once by the root pre-run hook.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "quizbot",
	Short:         "Telegram quiz bot driven by webhook updates",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		if c.Annotations["skip-config"] == "true" {
			return nil
		}
		if err := loadEnvFile(envFileFlag); err != nil {
			return err
		}
		loaded, err := config.Load(cmd.ConfigPath(configFlag, "CONFIG_PATH"))
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.InitLogger(cfg)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if err := logger.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = logger.Shutdown()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "YAML config file (defaults to $CONFIG_PATH, empty means env only)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "dotenv file loaded before reading the environment (defaults to .env when present)")
}

// loadEnvFile loads an explicit dotenv file, or .env when it exists.
// Variables already set in the process win.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
