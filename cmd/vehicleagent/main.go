package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vehicleagent/internal/config"
	"vehicleagent/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	configPath string
	logLevel   string
	userID     string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vehicleagent",
		Short: "In-vehicle assistant: intent routing to climate, music, navigation and vehicle handlers",
		Long: `vehicleagent classifies what the driver says, routes it to the matching
vehicle handler and falls back to a language model for everything else.

Run "vehicleagent setup" once to pick a provider and store API keys.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version":
				return nil
			case "setup":
				// setup may be creating the file named by --config.
				if path, err := config.ExpandHome(a.configPath); err == nil && path != "" {
					if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
						a.cfg = config.Default()
						return nil
					}
				}
			}
			return a.loadConfig()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ./config.yaml or ~/.vehicleagent/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.userID, "user", "u", "driver", "user id the conversation is recorded under")

	root.AddCommand(
		a.chatCmd(),
		a.askCmd(),
		a.classifyCmd(),
		a.catalogCmd(),
		a.setupCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	return nil
}

// logger builds the process logger. With quiet set and no log file
// configured it discards everything so stderr does not corrupt a TUI.
func (a *app) logger(quiet bool) (*zap.Logger, error) {
	if quiet && a.cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	return logging.New(a.cfg.Log.Level, a.cfg.Log.Development, a.cfg.Log.File)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vehicleagent %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
