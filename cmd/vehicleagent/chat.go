package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/console"
	"vehicleagent/internal/gateway"
)

type locationFlags struct {
	lat, lng float64
}

func (l *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&l.lat, "lat", 0, "latitude of the vehicle")
	cmd.Flags().Float64Var(&l.lng, "lng", 0, "longitude of the vehicle")
}

func (l *locationFlags) location(cmd *cobra.Command) *chat.Location {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lng") {
		return nil
	}
	return &chat.Location{Latitude: l.lat, Longitude: l.lng}
}

func (a *app) openGateway(cmd *cobra.Command, quiet bool) (*gateway.Gateway, func(), error) {
	logger, err := a.logger(quiet)
	if err != nil {
		return nil, nil, err
	}
	g, err := gateway.New(cmd.Context(), a.cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return g, func() {
		if err := g.Close(); err != nil {
			logger.Warn("close gateway", zap.Error(err))
		}
		_ = logger.Sync()
	}, nil
}

func (a *app) chatCmd() *cobra.Command {
	var (
		plain bool
		loc   locationFlags
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant interactively",
		Long: `Starts an interactive session. On a terminal this is a full-screen chat
view; with --plain, or when stdin is not a terminal, it reads one utterance
per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				plain = true
			}
			g, closeFn, err := a.openGateway(cmd, !plain)
			if err != nil {
				return err
			}
			defer closeFn()

			opts := console.Options{UserID: a.userID, Location: loc.location(cmd)}
			if plain {
				return console.RunPlain(cmd.Context(), g, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			}
			return console.Run(cmd.Context(), g, opts)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line-oriented REPL instead of the chat view")
	loc.register(cmd)
	return cmd
}

func (a *app) askCmd() *cobra.Command {
	var (
		asJSON bool
		loc    locationFlags
	)
	cmd := &cobra.Command{
		Use:   "ask <utterance...>",
		Short: "Run a single turn and print the response",
		Example: `  vehicleagent ask set temperature to 24
  vehicleagent ask --lat 16.72 --lng 81.10 --json find a hotel near me`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, closeFn, err := a.openGateway(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			resp := g.Turn(cmd.Context(), a.userID, strings.Join(args, " "), loc.location(cmd))
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			fmt.Fprintln(out, resp.Content)
			if len(resp.ActionsTaken) > 0 {
				fmt.Fprintf(out, "actions: %s\n", strings.Join(resp.ActionsTaken, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response message as JSON")
	loc.register(cmd)
	return cmd
}
