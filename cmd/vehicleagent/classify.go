package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vehicleagent/internal/nlu"
)

func (a *app) catalog() (*nlu.Catalog, error) {
	if a.cfg.Catalog.Path == "" {
		return nlu.BuildCatalog(), nil
	}
	return nlu.LoadCatalog(a.cfg.Catalog.Path)
}

func (a *app) classifyCmd() *cobra.Command {
	var all, explain bool
	cmd := &cobra.Command{
		Use:   "classify <utterance...>",
		Short: "Show how an utterance is classified without running a handler",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			logger, err := a.logger(false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			c := nlu.NewClassifier(catalog, nlu.WithLogger(logger))
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			switch {
			case explain:
				fmt.Fprintln(out, c.Explain(text))
			case all:
				writeCandidates(out, c.Candidates(text))
			default:
				r := c.Classify(text)
				fmt.Fprintf(out, "%s/%s %.3f -> %s\n", r.Category, r.Subcategory, r.Confidence, r.TargetAgent)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every scoring candidate")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a readable explanation")
	cmd.MarkFlagsMutuallyExclusive("all", "explain")
	return cmd
}

func writeCandidates(w io.Writer, ms []nlu.IntentMatch) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "no candidates")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSUBCATEGORY\tCONFIDENCE\tAGENT\tKEYWORDS")
	for _, m := range ms {
		routable := ""
		if m.Confidence >= nlu.RouteThreshold {
			routable = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f%s\t%s\t%s\n",
			m.Category, m.Subcategory, m.Confidence, routable, m.TargetAgent, strings.Join(m.MatchedKeywords, ", "))
	}
	tw.Flush()
}

func (a *app) catalogCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write the active intent catalog as YAML",
		Long: `Writes the catalog in the format accepted by catalog.path, so the builtin
table can be exported, edited and loaded back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return catalog.WriteYAML(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := catalog.WriteYAML(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}
