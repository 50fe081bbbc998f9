package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/github"
	"github.com/contribpulse/contribpulse/internal/progress"
	"github.com/spf13/cobra"
)

var (
	discoverOrg      string
	discoverListFile string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover and mirror an organization's repositories",
	Long: `List every repository of a GitHub organization and create
metadata-only clones (no blobs, no checkout) for any that are missing
under the configured repository directory.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverOrg, "org", "", "GitHub organization (default from config)")
	discoverCmd.Flags().StringVar(&discoverListFile, "list-file", "", "also write the discovered repository list to this file")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	org := cfg.GitHub.Org
	if discoverOrg != "" {
		org = discoverOrg
	}
	if org == "" {
		return errors.ConfigError("no organization configured (set --org or github.org)")
	}

	startTime := time.Now()
	discoverer := github.NewDiscoverer(cfg.GitHub.Token, cfg.GitHub.RateLimit, logger)

	result, err := discoverer.Mirror(ctx, org, cfg.ReposDir, discoverListFile, progress.New(logger))
	if err != nil {
		return err
	}

	fmt.Printf("Discovered %d repositories in %s\n", result.Discovered, org)
	fmt.Printf("  Cloned:  %d\n", result.Cloned)
	fmt.Printf("  Present: %d\n", result.Skipped)
	if result.Failed > 0 {
		fmt.Printf("  Failed:  %d\n", result.Failed)
	}
	fmt.Printf("Done in %s\n", time.Since(startTime).Round(time.Second))
	return nil
}
