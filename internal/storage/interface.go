package storage

import (
	"context"
	"time"

	"github.com/contribpulse/contribpulse/internal/models"
)

// RunListing is one archived run row.
type RunListing struct {
	RunID           string    `db:"run_id" json:"run_id"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	LookbackDays    int       `db:"lookback_days" json:"lookback_days"`
	ReposTotal      int       `db:"repos_total" json:"repos_total"`
	ReposFailed     int       `db:"repos_failed" json:"repos_failed"`
	Contributors    int       `db:"contributors" json:"contributors"`
	NewContributors int       `db:"new_contributors" json:"new_contributors"`
	Milestones      int       `db:"milestones" json:"milestones"`
	DurationMS      int64     `db:"duration_ms" json:"duration_ms"`
}

// Store archives completed runs. Only the summary and the rendered events
// are persisted; the identity map itself is recomputed from full history on
// every run and never stored.
type Store interface {
	SaveRun(ctx context.Context, summary models.RunSummary, report *models.ProjectReport) error
	ListRuns(ctx context.Context, limit int) ([]RunListing, error)
	Close() error
}
