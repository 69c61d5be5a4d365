package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriComplete/internal/completion"
	"github.com/Rorical/RoriComplete/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API token file",
}

var setTokenCmd = &cobra.Command{
	Use:   "set",
	Short: "Write the API token file",
	Long:  `Prompt for an API token and store it in the configured token file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		prompt := promptui.Prompt{
			Label: "API Key",
			Mask:  '*',
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("token must not be empty")
				}
				return nil
			},
		}
		token, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		if err := completion.SaveCredential(cfg.TokenFile, token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Token written to %s\n", cfg.TokenFile)
		return nil
	},
}

var checkTokenCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the API token file is readable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if _, err := completion.LoadCredential(cfg.TokenFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token file %s: OK\n", cfg.TokenFile)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(setTokenCmd)
	tokenCmd.AddCommand(checkTokenCmd)
}
