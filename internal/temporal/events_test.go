package temporal

import (
	"testing"
	"time"

	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineWith(times ...time.Time) *models.ContributorTimeline {
	tl := &models.ContributorTimeline{
		Contributor: &models.Contributor{
			CanonicalEmail: "jane@example.org",
			DisplayName:    "Jane Doe",
		},
	}
	for i, when := range times {
		tl.Entries = append(tl.Entries, models.TimelineEntry{
			Commit: models.CommitRecord{
				RepoID:  "kafka/kafka",
				Project: "kafka",
				Time:    when,
				Hash:    string(rune('a' + i)),
			},
			Ordinal: i + 1,
		})
	}
	return tl
}

// evenly spaced history ending near now, n commits one day apart
func historyEndingAt(end time.Time, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = end.Add(-time.Duration(n-1-i) * 24 * time.Hour)
	}
	return times
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	tests := []struct {
		name     string
		t        time.Time
		expected bool
	}{
		{"now itself", now, true},
		{"window start boundary", now.Add(-7 * 24 * time.Hour), true},
		{"inside", now.Add(-3 * 24 * time.Hour), true},
		{"just before start", now.Add(-7*24*time.Hour - time.Second), false},
		{"after now", now.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Contains(tt.t))
		})
	}
}

func TestWindowZeroDays(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 0)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(now.Add(-time.Second)))
	assert.False(t, w.Contains(now.Add(time.Second)))
}

func TestDetectNewContributor(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	tl := timelineWith(now.Add(-2*24*time.Hour), now.Add(-24*time.Hour))
	events := DetectEvents(tl, w)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewContributor, events[0].Kind)
	assert.Equal(t, 1, events[0].Ordinal)
	assert.Equal(t, 2, events[0].TotalCommits)
	assert.Equal(t, "kafka", events[0].Project)
}

func TestDetectVeteranNoEvent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	// first commit long before the window, 5 commits total: no milestone
	tl := timelineWith(historyEndingAt(now.Add(-24*time.Hour), 5)...)
	tl.Entries[0].Commit.Time = now.Add(-365 * 24 * time.Hour)
	events := DetectEvents(tl, w)
	assert.Empty(t, events)
}

func TestDetectMilestone(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	// 12 commits, the 10th landing inside the window
	times := make([]time.Time, 12)
	for i := 0; i < 9; i++ {
		times[i] = now.Add(-time.Duration(100-i) * 24 * time.Hour)
	}
	times[9] = now.Add(-3 * 24 * time.Hour)
	times[10] = now.Add(-2 * 24 * time.Hour)
	times[11] = now.Add(-24 * time.Hour)

	events := DetectEvents(timelineWith(times...), w)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMilestone, events[0].Kind)
	assert.Equal(t, 10, events[0].Ordinal)
	assert.Equal(t, 12, events[0].TotalCommits)
	assert.Equal(t, times[9], events[0].Time)
}

func TestDetectMilestoneRequiresWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	// 15 commits all well before the window: the 10th exists but is old
	times := historyEndingAt(now.Add(-60*24*time.Hour), 15)
	events := DetectEvents(timelineWith(times...), w)
	assert.Empty(t, events)
}

func TestDetectMultipleMilestones(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 30)

	// 25 commits spread over the last 30 days: ordinals 1, 10 and 25 all
	// fall inside the window
	times := historyEndingAt(now.Add(-24*time.Hour), 25)
	events := DetectEvents(timelineWith(times...), w)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventNewContributor, events[0].Kind)
	assert.Equal(t, 10, events[1].Ordinal)
	assert.Equal(t, 25, events[2].Ordinal)
}

func TestDetectEmptyTimeline(t *testing.T) {
	w := NewWindow(time.Now(), 7)
	assert.Empty(t, DetectEvents(timelineWith(), w))
}

func TestDetectAll(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	w := NewWindow(now, 7)

	newcomer := timelineWith(now.Add(-24 * time.Hour))
	veteran := timelineWith(now.Add(-400 * 24 * time.Hour))

	events := DetectAll([]*models.ContributorTimeline{veteran, newcomer}, w)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewContributor, events[0].Kind)
}
