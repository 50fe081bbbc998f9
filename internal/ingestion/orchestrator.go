package ingestion

import (
	"context"
	"sort"
	"time"

	"github.com/contribpulse/contribpulse/internal/config"
	"github.com/contribpulse/contribpulse/internal/git"
	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/contribpulse/contribpulse/internal/progress"
	"github.com/contribpulse/contribpulse/internal/report"
	"github.com/contribpulse/contribpulse/internal/resolution"
	"github.com/contribpulse/contribpulse/internal/temporal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Refresher updates one repository's remote tracking state before analysis.
type Refresher interface {
	Refresh(ctx context.Context, repo models.Repository) error
}

// Orchestrator coordinates a full analysis run: enumerate repositories,
// optionally refresh them, extract and parse history concurrently, then run
// the single-threaded resolution/timeline/event/aggregation phases over the
// complete commit set.
type Orchestrator struct {
	source    git.HistorySource
	refresher Refresher
	cfg       *config.Config
	logger    *logrus.Logger
	reporter  progress.Reporter
}

// NewOrchestrator creates a run orchestrator. refresher may be nil, in
// which case the refresh phase is skipped regardless of configuration.
func NewOrchestrator(
	source git.HistorySource,
	refresher Refresher,
	cfg *config.Config,
	logger *logrus.Logger,
	reporter progress.Reporter,
) *Orchestrator {
	return &Orchestrator{
		source:    source,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
		reporter:  reporter,
	}
}

// RunResult is everything one run produced. Contributor is set instead of
// Report when a contributor filter is active.
type RunResult struct {
	Report      *models.ProjectReport
	Contributor *models.ContributorReport
	Summary     models.RunSummary
}

// Run executes the pipeline. The returned error is non-nil only for fatal
// conditions: invalid parameters or run cancellation. Per-repository
// failures are collected as warnings and the run completes without them.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	// frozen for the whole run; every window check uses this instant
	now := started.UTC()

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	repos, err := git.FindRepositories(o.cfg.ReposDir)
	if err != nil {
		return nil, err
	}
	repos, err = git.FilterProject(repos, o.cfg.Analysis.ProjectFilter)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"repositories": len(repos),
		"lookback":     o.cfg.Analysis.LookbackDays,
		"workers":      o.cfg.Analysis.Workers,
	}).Info("Starting analysis run")

	if !o.cfg.Analysis.SkipUpdate && o.refresher != nil {
		if err := o.refreshAll(ctx, repos); err != nil {
			return nil, err
		}
	}

	acc, err := o.extractAll(ctx, repos)
	if err != nil {
		return nil, err
	}
	// barrier: all extraction finished, the commit set is complete and
	// append-only state is frozen from here on

	resolver := resolution.NewResolver(o.logger)
	resolved := resolver.Resolve(acc.records)
	timelines := temporal.BuildTimelines(acc.records, resolved)

	result := &RunResult{
		Summary: models.RunSummary{
			RunID:          uuid.New().String(),
			StartedAt:      started,
			Now:            now,
			LookbackDays:   o.cfg.Analysis.LookbackDays,
			ReposTotal:     len(repos),
			ReposFailed:    len(acc.warnings),
			CommitsParsed:  len(acc.records),
			CommitsDropped: acc.dropped,
			BotsFiltered:   acc.bots,
			Contributors:   len(resolved.Contributors),
			Warnings:       sortedWarnings(acc.warnings),
		},
	}

	if filter := o.cfg.Analysis.ContributorFilter; filter != "" {
		contributor, err := report.ForContributor(timelines, filter)
		if err != nil {
			return nil, err
		}
		result.Contributor = contributor
	} else {
		window := temporal.NewWindow(now, o.cfg.Analysis.LookbackDays)
		events := temporal.DetectAll(timelines, window)
		result.Report = report.Aggregate(events)
	}

	result.Summary.Duration = time.Since(started)

	o.logger.WithFields(logrus.Fields{
		"run_id":       result.Summary.RunID,
		"commits":      result.Summary.CommitsParsed,
		"contributors": result.Summary.Contributors,
		"skipped":      result.Summary.ReposFailed,
		"duration":     result.Summary.Duration.Round(time.Millisecond).String(),
	}).Info("Analysis run completed")

	return result, nil
}

// refreshAll fetches remote state for every repository. Refresh failures
// are logged and the repository is still analyzed from its last known
// state.
func (o *Orchestrator) refreshAll(ctx context.Context, repos []models.Repository) error {
	o.reporter.Start("Refreshing repositories", len(repos))
	defer o.reporter.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Analysis.Workers)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err := o.refresher.Refresh(gctx, repo); err != nil && gctx.Err() == nil {
				o.logger.WithError(err).WithField("repo", repo.ID).Warn("Repository refresh failed")
			}
			o.reporter.Increment()
			return nil
		})
	}
	return g.Wait()
}

// extractAll runs the bounded extraction pool. One worker owns one
// repository end to end (log retrieval + parsing + bot filtering) and
// appends into the shared accumulator. A failing repository never blocks or
// cancels the others; cancellation of the run context stops scheduling and
// interrupts in-flight git subprocesses without touching records already
// accumulated from completed repositories.
func (o *Orchestrator) extractAll(ctx context.Context, repos []models.Repository) (*accumulator, error) {
	acc := &accumulator{}

	o.reporter.Start("Extracting commit history", len(repos))
	defer o.reporter.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Analysis.Workers)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			o.processRepository(gctx, repo, acc)
			o.reporter.Increment()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return acc, nil
}

func (o *Orchestrator) processRepository(ctx context.Context, repo models.Repository, acc *accumulator) {
	raw, err := o.source.Log(ctx, repo)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		o.logger.WithError(err).WithFields(logrus.Fields{
			"repo":    repo.ID,
			"project": repo.Project,
		}).Warn("Skipping unavailable repository")
		acc.warn(repo, err.Error())
		return
	}

	parsed := git.ParseLog(repo, raw, o.logger)

	records := parsed.Records
	bots := 0
	if !o.cfg.Analysis.IncludeBots {
		kept := records[:0]
		for _, rec := range records {
			if resolution.IsBotOrCI(rec.AuthorName, rec.AuthorEmail) {
				bots++
				continue
			}
			kept = append(kept, rec)
		}
		records = kept
	}

	acc.add(records, parsed.Dropped, bots)
}

func sortedWarnings(warnings []models.RepoWarning) []models.RepoWarning {
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].RepoID < warnings[j].RepoID })
	return warnings
}
