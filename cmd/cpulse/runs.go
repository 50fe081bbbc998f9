package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived analysis runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	if cfg.Storage.Driver == "none" {
		return errors.ConfigError("run archive is disabled (storage.driver is \"none\")")
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	listings, err := store.ListRuns(context.Background(), runsLimit)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Started", "Days", "Repos", "Failed", "Contributors", "New", "Milestones", "Duration"})
	for _, run := range listings {
		t.AppendRow(table.Row{
			fmt.Sprintf("%s (%s)", run.StartedAt.Format("2006-01-02 15:04"), humanize.Time(run.StartedAt)),
			run.LookbackDays,
			run.ReposTotal,
			run.ReposFailed,
			run.Contributors,
			run.NewContributors,
			run.Milestones,
			(time.Duration(run.DurationMS) * time.Millisecond).Round(time.Second),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
