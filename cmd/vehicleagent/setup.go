package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vehicleagent/internal/config"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/onboarding"
)

func (a *app) setupCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Choose a language model provider, API keys and enabled handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultPath
			}
			handlers := nlu.BuildCatalog().Agents()

			if !plain && isatty.IsTerminal(os.Stdin.Fd()) {
				return onboarding.RunTUI(a.cfg, path, handlers)
			}

			cfg, err := onboarding.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout(), handlers).Run(a.cfg)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-oriented prompts instead of the setup wizard")
	return cmd
}
