package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contribpulse/contribpulse/internal/config"
	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLStore implements the run archive over sqlx: sqlite for local use,
// postgres when a DSN is configured. Placeholders go through Rebind so the
// same statements serve both drivers.
type SQLStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// Open connects to the configured backend and ensures the schema exists.
func Open(cfg config.StorageConfig, logger *logrus.Logger) (*SQLStore, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		if mkErr := os.MkdirAll(filepath.Dir(cfg.LocalPath), 0o755); mkErr != nil {
			return nil, errors.StorageError(mkErr, "create archive directory")
		}
		db, err = sqlx.Connect("sqlite3", cfg.LocalPath)
		if err == nil {
			db.Exec("PRAGMA journal_mode = WAL")
		}
	case "postgres":
		db, err = sqlx.Connect("postgres", cfg.PostgresDSN)
	default:
		return nil, errors.ConfigErrorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.StorageError(err, fmt.Sprintf("connect to %s archive", cfg.Driver))
	}

	store := &SQLStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.StorageError(err, "init archive schema")
	}
	return store, nil
}

func (s *SQLStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		window_end TIMESTAMP NOT NULL,
		lookback_days INTEGER NOT NULL,
		repos_total INTEGER NOT NULL,
		repos_failed INTEGER NOT NULL,
		commits_parsed INTEGER NOT NULL,
		commits_dropped INTEGER NOT NULL,
		bots_filtered INTEGER NOT NULL,
		contributors INTEGER NOT NULL,
		new_contributors INTEGER NOT NULL,
		milestones INTEGER NOT NULL,
		duration_ms BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_events (
		run_id TEXT NOT NULL,
		project TEXT NOT NULL,
		repo_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		contributor TEXT NOT NULL,
		email TEXT NOT NULL,
		event_time TIMESTAMP NOT NULL,
		hash TEXT NOT NULL,
		total_commits INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun archives one run's summary and events in a single transaction.
func (s *SQLStore) SaveRun(ctx context.Context, summary models.RunSummary, report *models.ProjectReport) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.StorageError(err, "begin archive transaction")
	}
	defer tx.Rollback()

	newContributors, milestones := 0, 0
	if report != nil {
		newContributors = report.TotalNewContributors()
		milestones = report.TotalMilestones()
	}

	insertRun := tx.Rebind(`
		INSERT INTO runs (run_id, started_at, window_end, lookback_days,
			repos_total, repos_failed, commits_parsed, commits_dropped,
			bots_filtered, contributors, new_contributors, milestones, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertRun,
		summary.RunID, summary.StartedAt, summary.Now, summary.LookbackDays,
		summary.ReposTotal, summary.ReposFailed, summary.CommitsParsed,
		summary.CommitsDropped, summary.BotsFiltered, summary.Contributors,
		newContributors, milestones, summary.Duration.Milliseconds()); err != nil {
		return errors.StorageError(err, "insert run")
	}

	if report != nil {
		insertEvent := tx.Rebind(`
			INSERT INTO run_events (run_id, project, repo_id, kind, ordinal,
				contributor, email, event_time, hash, total_commits)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		for _, project := range report.Projects {
			events := make([]models.Event, 0, len(project.NewContributors)+len(project.Milestones))
			events = append(events, project.NewContributors...)
			events = append(events, project.Milestones...)
			for _, event := range events {
				if _, err := tx.ExecContext(ctx, insertEvent,
					summary.RunID, event.Project, event.RepoID, string(event.Kind),
					event.Ordinal, event.Contributor.DisplayName,
					event.Contributor.CanonicalEmail, event.Time, event.Hash,
					event.TotalCommits); err != nil {
					return errors.StorageError(err, "insert run event")
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageError(err, "commit archive transaction")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"run_id": summary.RunID,
			"events": newContributors + milestones,
		}).Debug("archived run")
	}
	return nil
}

// ListRuns returns the most recent archived runs, newest first.
func (s *SQLStore) ListRuns(ctx context.Context, limit int) ([]RunListing, error) {
	if limit <= 0 {
		limit = 20
	}
	query := s.db.Rebind(`
		SELECT run_id, started_at, lookback_days, repos_total, repos_failed,
			contributors, new_contributors, milestones, duration_ms
		FROM runs ORDER BY started_at DESC LIMIT ?`)

	var runs []RunListing
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, errors.StorageError(err, "list runs")
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
