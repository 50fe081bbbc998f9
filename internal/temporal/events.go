package temporal

import (
	"time"

	"github.com/contribpulse/contribpulse/internal/models"
)

// Milestones is the fixed set of noteworthy commit ordinals.
var Milestones = []int{10, 25, 50, 100, 500, 1000}

// Window is the closed lookback interval [Now-days, Now]. Now is frozen at
// run start and threaded through detection explicitly; wall-clock time is
// never re-sampled mid-run, so one run's output is internally consistent.
type Window struct {
	Now   time.Time
	Start time.Time
}

// NewWindow builds a lookback window ending at a frozen now.
func NewWindow(now time.Time, lookbackDays int) Window {
	return Window{
		Now:   now,
		Start: now.Add(-time.Duration(lookbackDays) * 24 * time.Hour),
	}
}

// Contains reports whether t falls inside the window, closed on both ends.
// With a zero-day lookback only t == Now qualifies.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.Now)
}

// DetectEvents evaluates the two event rules over one contributor timeline.
//
// New-contributor rule: the ordinal-1 commit inside the window means this
// identity's first-ever contribution just happened.
//
// Milestone rule: for each milestone threshold the timeline reaches, the
// commit at that ordinal is checked against the window. Thresholds count the
// resolved identity's merged cross-repository history, so a contributor who
// switched emails still accumulates a single continuous count. A wide enough
// window can emit several milestones for one contributor.
func DetectEvents(timeline *models.ContributorTimeline, window Window) []models.Event {
	if len(timeline.Entries) == 0 {
		return nil
	}

	var events []models.Event
	total := timeline.TotalCommits()

	first := timeline.Entries[0]
	if window.Contains(first.Commit.Time) {
		events = append(events, models.Event{
			Kind:         models.EventNewContributor,
			Contributor:  timeline.Contributor,
			Project:      first.Commit.Project,
			RepoID:       first.Commit.RepoID,
			Ordinal:      1,
			Time:         first.Commit.Time,
			Hash:         first.Commit.Hash,
			TotalCommits: total,
		})
	}

	for _, threshold := range Milestones {
		if threshold > total {
			break
		}
		entry := timeline.Entries[threshold-1]
		if !window.Contains(entry.Commit.Time) {
			continue
		}
		events = append(events, models.Event{
			Kind:         models.EventMilestone,
			Contributor:  timeline.Contributor,
			Project:      entry.Commit.Project,
			RepoID:       entry.Commit.RepoID,
			Ordinal:      threshold,
			Time:         entry.Commit.Time,
			Hash:         entry.Commit.Hash,
			TotalCommits: total,
		})
	}

	return events
}

// DetectAll runs event detection across every timeline.
func DetectAll(timelines []*models.ContributorTimeline, window Window) []models.Event {
	var events []models.Event
	for _, timeline := range timelines {
		events = append(events, DetectEvents(timeline, window)...)
	}
	return events
}
