package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriComplete/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n", cfg.Path())
		fmt.Fprintf(out, "Model: %s\n", cfg.Model)
		fmt.Fprintf(out, "Base URL: %s\n", cfg.BaseURL)
		fmt.Fprintf(out, "Token file: %s\n", cfg.TokenFile)
		fmt.Fprintf(out, "Timeout: %s\n", cfg.Timeout)
		fmt.Fprintf(out, "Single flight: %t\n", cfg.SingleFlight)
		logFile := cfg.LogFile
		if logFile == "" {
			logFile = "(disabled)"
		}
		fmt.Fprintf(out, "Log: %s (%s)\n", logFile, cfg.LogLevel)

		g := cfg.Generation
		fmt.Fprintf(out, "Generation: temperature=%g max_tokens=%d top_p=%g frequency_penalty=%g presence_penalty=%g\n",
			g.Temperature, g.MaxTokens, g.TopP, g.FrequencyPenalty, g.PresencePenalty)
		return nil
	},
}

func init() {
	configCmd.AddCommand(showConfigCmd)
}
