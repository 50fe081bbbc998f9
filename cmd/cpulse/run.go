package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contribpulse/contribpulse/internal/git"
	"github.com/contribpulse/contribpulse/internal/ingestion"
	"github.com/contribpulse/contribpulse/internal/output"
	"github.com/contribpulse/contribpulse/internal/progress"
	"github.com/contribpulse/contribpulse/internal/storage"
	"github.com/spf13/cobra"
)

var (
	runDays        int
	runProject     string
	runContributor string
	runNoUpdate    bool
	runNoCache     bool
	runFormat      string
	runOutput      string
	runWorkers     int
	runRepoTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze repositories and report new contributors and milestones",
	Long: `Run the full analysis pipeline: enumerate repositories under the
configured directory, extract commit history, resolve contributor
identities across all repositories, and report new contributors and
milestone commits that fall inside the lookback window.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runDays, "days", 0, "lookback window in days (default from config)")
	runCmd.Flags().StringVar(&runProject, "project", "", "restrict analysis to one project")
	runCmd.Flags().StringVar(&runContributor, "contributor", "", "report full history for one contributor instead of windowed events")
	runCmd.Flags().BoolVar(&runNoUpdate, "no-update", false, "skip fetching repositories before analysis")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "bypass the extraction cache")
	runCmd.Flags().StringVar(&runFormat, "format", "", "report format: markdown, json, yaml, table")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write report to file instead of stdout")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "concurrent extraction workers")
	runCmd.Flags().DurationVar(&runRepoTimeout, "repo-timeout", 0, "per-repository git timeout")
}

func runRun(cmd *cobra.Command, args []string) error {
	applyRunFlags(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := git.NewCLI(cfg.Analysis.RepoTimeout, logger)

	var source git.HistorySource = cli
	if cfg.Cache.Enabled && !runNoCache {
		cached, err := git.OpenCachedSource(cli, cfg.Cache.Path, logger)
		if err != nil {
			logger.WithError(err).Warn("Extraction cache unavailable, reading git directly")
		} else {
			source = cached
			defer cached.Close()
		}
	}

	orch := ingestion.NewOrchestrator(source, cli, cfg, logger, progress.New(logger))
	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	if err := render(result); err != nil {
		return err
	}

	archiveRun(ctx, result)
	return nil
}

// applyRunFlags layers explicitly-set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("days") {
		cfg.Analysis.LookbackDays = runDays
	}
	if cmd.Flags().Changed("project") {
		cfg.Analysis.ProjectFilter = runProject
	}
	if cmd.Flags().Changed("contributor") {
		cfg.Analysis.ContributorFilter = runContributor
	}
	if runNoUpdate {
		cfg.Analysis.SkipUpdate = true
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = runFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = runOutput
	}
	if cmd.Flags().Changed("workers") {
		cfg.Analysis.Workers = runWorkers
	}
	if cmd.Flags().Changed("repo-timeout") {
		cfg.Analysis.RepoTimeout = runRepoTimeout
	}
}

func render(result *ingestion.RunResult) error {
	formatter, err := output.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	w := os.Stdout
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if result.Contributor != nil {
		return formatter.FormatContributor(w, result.Summary, result.Contributor)
	}
	return formatter.Format(w, result.Summary, result.Report)
}

// archiveRun persists the run to the configured store. Archive failures are
// logged and never fail the run itself.
func archiveRun(ctx context.Context, result *ingestion.RunResult) {
	if cfg.Storage.Driver == "none" || result.Report == nil {
		return
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Warn("Run archive unavailable, skipping persistence")
		return
	}
	defer store.Close()

	if err := store.SaveRun(ctx, result.Summary, result.Report); err != nil {
		logger.WithError(err).Warn("Failed to archive run")
	}
}
