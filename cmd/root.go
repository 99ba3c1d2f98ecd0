package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Emes13/habittrax/internal/apiclient"
	"github.com/Emes13/habittrax/internal/config"
	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	cfg       config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "habittrax",
	Short: "Track recurring habits, streaks and completion stats",
	Long: `
	habittrax tracks daily, weekly and custom-schedule habits. It runs the API
	server, talks to it from the command line, sends reminder emails and can
	load demo data for a fresh install.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		logCloser, err = logger.Setup(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser == nil {
			return nil
		}
		return logCloser.Close()
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBaseURL, cfg.AuthToken)
}

// dateArg parses a YYYY-MM-DD flag value. Empty means today in the
// configured timezone.
func dateArg(s string) (habit.Date, error) {
	if s == "" {
		loc, err := cfg.Location()
		if err != nil {
			return habit.Date{}, err
		}
		return habit.Today(loc), nil
	}
	return habit.ParseDate(s)
}
