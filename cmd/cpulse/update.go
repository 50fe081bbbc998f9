package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/contribpulse/contribpulse/internal/git"
	"github.com/contribpulse/contribpulse/internal/progress"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var updateProject string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the latest remote state for all repositories",
	Long: `Fetch remote refs for every repository under the configured
directory without running analysis. Useful for warming the working copies
ahead of a scheduled run.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateProject, "project", "", "restrict the update to one project")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()

	repos, err := git.FindRepositories(cfg.ReposDir)
	if err != nil {
		return err
	}
	repos, err = git.FilterProject(repos, updateProject)
	if err != nil {
		return err
	}

	cli := git.NewCLI(cfg.Analysis.RepoTimeout, logger)
	reporter := progress.New(logger)
	reporter.Start("Refreshing repositories", len(repos))
	defer reporter.Done()

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Analysis.Workers)
	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err := cli.Refresh(gctx, repo); err != nil && gctx.Err() == nil {
				logger.WithError(err).WithField("repo", repo.ID).Warn("Repository refresh failed")
				failed.Add(1)
			}
			reporter.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	nFailed := int(failed.Load())
	logger.WithFields(logrus.Fields{
		"repositories": len(repos),
		"failed":       nFailed,
		"duration":     time.Since(startTime).Round(time.Second).String(),
	}).Info("Update completed")
	fmt.Printf("Updated %d repositories (%d failed) in %s\n",
		len(repos)-nFailed, nFailed, time.Since(startTime).Round(time.Second))
	return nil
}
