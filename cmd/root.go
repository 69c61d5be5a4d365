package cmd

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriComplete/internal/app"
	"github.com/Rorical/RoriComplete/internal/completion"
	"github.com/Rorical/RoriComplete/internal/config"
	applog "github.com/Rorical/RoriComplete/internal/log"
)

// errAborted marks a startup that already told the user what went wrong.
var errAborted = errors.New("aborted")

var (
	showAlert      = app.Alert
	runApplication = func(cfg *config.Config, token string, logger *slog.Logger) error {
		application := app.NewApplication(cfg, token, logger)
		defer application.Stop()
		return application.Start()
	}
)

var rootCmd = &cobra.Command{
	Use:           "roricomplete",
	Short:         "Terminal text completion",
	Long:          `RoriComplete sends the text you type to a completions API and appends the result in place.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, closer, err := applog.New(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()

		token, err := completion.LoadCredential(cfg.TokenFile)
		if err != nil {
			logger.Error("credential unavailable", slog.String("token_file", cfg.TokenFile), slog.Any("error", err))
			if alertErr := showAlert(completion.MissingCredentialMessage(cfg.TokenFile)); alertErr != nil {
				fmt.Fprintln(os.Stderr, completion.MissingCredentialMessage(cfg.TokenFile))
			}
			return errAborted
		}

		if err := runApplication(cfg, token, logger); err != nil {
			return fmt.Errorf("application error: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAborted) {
			log.Printf("Command execution error: %v", err)
		}
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(configCmd)
}
