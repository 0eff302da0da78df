package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/contracts"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/graph"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/handlers"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/impact"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/logging"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/orchestrator"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/parser"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/rungraph"
	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/store"
)

type cli struct {
	out         io.Writer
	logger      *slog.Logger
	pretty      bool
	logLevel    string
	concurrency int
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:          "reposense",
		Short:        "Score component graphs and analyze cross-repository contract impact",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = logging.New(logging.Config{Level: c.logLevel, Output: errOut})
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVar(&c.pretty, "pretty", false, "indent JSON output")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&c.concurrency, "concurrency", orchestrator.DefaultConcurrency, "repositories graphed in parallel")

	root.AddCommand(c.graphCmd(), c.orgCmd(), c.impactCmd(), c.compatCmd())
	return root
}

func (c *cli) graphCmd() *cobra.Command {
	var limit int
	var repo string

	cmd := &cobra.Command{
		Use:   "graph <analysis.json>",
		Short: "Build and score the component graph of one repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			input, err := parser.ParseAnalysis(data)
			if err != nil {
				return err
			}

			g := graph.Build(input.Endpoints, input.APICalls)
			run := rungraph.NewAssembler().Assemble("", repo, g, *input)
			c.logger.Info("graph built", slog.Int("nodes", g.NodeCount()), slog.Int("edges", g.EdgeCount()))

			return c.print(handlers.GraphResponse{RunGraph: run, CriticalNodes: g.CriticalNodes(limit)})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of critical nodes to report")
	cmd.Flags().StringVar(&repo, "repo", "", "repository id recorded on the snapshot")
	return cmd
}

func (c *cli) orgCmd() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "org <manifest.yaml>",
		Short: "Analyze a fleet manifest and report contracts, drift and breaking changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.runManifest(cmd, args[0])
			if err != nil {
				return err
			}

			if storeDir != "" {
				st, err := store.OpenBadger(store.BadgerConfig{Path: storeDir, Logger: c.logger})
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Save(cmd.Context(), res.Run); err != nil {
					return err
				}
				c.logger.Info("run stored", slog.String("run_id", res.Run.RunID), slog.String("dir", storeDir))
			}

			return c.print(res.Run)
		},
	}
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "persist the run in a badger store at this directory")
	return cmd
}

func (c *cli) impactCmd() *cobra.Command {
	var change models.ChangePoint

	cmd := &cobra.Command{
		Use:   "impact <manifest.yaml>",
		Short: "Estimate the downstream impact of changing a repository's service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parser.Validate(&change); err != nil {
				return err
			}
			res, err := c.runManifest(cmd, args[0])
			if err != nil {
				return err
			}
			return c.print(impact.NewAnalyzer(res.Contracts).AnalyzeChange(change))
		},
	}
	cmd.Flags().StringVar(&change.RepoID, "repo", "", "repository being changed (required)")
	cmd.Flags().StringVar(&change.Service, "service", "", "service being changed; empty means every service")
	cmd.Flags().StringVar(&change.ChangeType, "change-type", "", "free-form change type")
	cmd.Flags().StringVar(&change.Description, "description", "", "free-form change description")
	_ = cmd.MarkFlagRequired("repo")
	return cmd
}

func (c *cli) compatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compat <producer-version> <consumer-version>",
		Short: "Compare two contract versions by major.minor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.print(contracts.New().CheckCompatibility(args[0], args[1]))
		},
	}
}

func (c *cli) runManifest(cmd *cobra.Command, path string) (*orchestrator.Result, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	manifest, err := parser.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(c.logger).Run(cmd.Context(), *manifest, orchestrator.Options{Concurrency: c.concurrency})
}

func (c *cli) print(v any) error {
	encoder := json.NewEncoder(c.out)
	if c.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
