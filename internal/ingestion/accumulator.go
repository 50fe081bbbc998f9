package ingestion

import (
	"sync"

	"github.com/contribpulse/contribpulse/internal/models"
)

// accumulator is the only shared mutable state during the concurrent
// extraction phase. Workers append; nothing reads it until the barrier, and
// nothing mutates it afterwards.
type accumulator struct {
	mu       sync.Mutex
	records  []models.CommitRecord
	warnings []models.RepoWarning
	dropped  int
	bots     int
}

func (a *accumulator) add(records []models.CommitRecord, dropped, bots int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, records...)
	a.dropped += dropped
	a.bots += bots
}

func (a *accumulator) warn(repo models.Repository, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings = append(a.warnings, models.RepoWarning{
		RepoID:  repo.ID,
		Project: repo.Project,
		Reason:  reason,
	})
}
