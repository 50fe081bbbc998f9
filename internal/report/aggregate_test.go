package report

import (
	"testing"
	"time"

	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contributor(email, name string) *models.Contributor {
	return &models.Contributor{
		CanonicalEmail: email,
		DisplayName:    name,
		Emails:         []string{email},
		Names:          []string{name},
	}
}

func event(kind models.EventKind, c *models.Contributor, project, repoID string, ordinal, day int) models.Event {
	return models.Event{
		Kind:        kind,
		Contributor: c,
		Project:     project,
		RepoID:      repoID,
		Ordinal:     ordinal,
		Time:        time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC),
		Hash:        "h",
	}
}

func TestAggregateGroupsByProject(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")
	bob := contributor("bob@example.org", "Bob Smith")

	events := []models.Event{
		event(models.EventNewContributor, jane, "kafka", "kafka/kafka", 1, 10),
		event(models.EventNewContributor, bob, "kafka", "kafka/kafka", 1, 12),
		event(models.EventMilestone, jane, "spark", "spark/spark", 10, 11),
	}

	report := Aggregate(events)
	require.Len(t, report.Projects, 2)

	// kafka leads: more new contributors
	assert.Equal(t, "kafka", report.Projects[0].Project)
	assert.Len(t, report.Projects[0].NewContributors, 2)
	assert.Equal(t, "spark", report.Projects[1].Project)
	assert.Len(t, report.Projects[1].Milestones, 1)

	assert.Equal(t, 2, report.TotalNewContributors())
	assert.Equal(t, 1, report.TotalMilestones())
}

func TestAggregateDeduplicatesWithinProject(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")

	// same identity, same project, two repositories: the earlier event wins
	events := []models.Event{
		event(models.EventNewContributor, jane, "kafka", "kafka/kafka-site", 1, 15),
		event(models.EventNewContributor, jane, "kafka", "kafka/kafka", 1, 10),
	}

	report := Aggregate(events)
	require.Len(t, report.Projects, 1)
	require.Len(t, report.Projects[0].NewContributors, 1)
	assert.Equal(t, "kafka/kafka", report.Projects[0].NewContributors[0].RepoID)
}

func TestAggregateKeepsDistinctOrdinals(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")

	events := []models.Event{
		event(models.EventMilestone, jane, "kafka", "kafka/kafka", 10, 10),
		event(models.EventMilestone, jane, "kafka", "kafka/kafka", 25, 12),
	}

	report := Aggregate(events)
	require.Len(t, report.Projects, 1)
	assert.Len(t, report.Projects[0].Milestones, 2)
}

func TestAggregateEventOrdering(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")
	bob := contributor("bob@example.org", "Bob Smith")

	events := []models.Event{
		event(models.EventNewContributor, jane, "kafka", "kafka/kafka", 1, 20),
		event(models.EventNewContributor, bob, "kafka", "kafka/kafka", 1, 10),
	}

	report := Aggregate(events)
	got := report.Projects[0].NewContributors
	require.Len(t, got, 2)
	assert.Equal(t, "bob@example.org", got[0].Contributor.CanonicalEmail)
	assert.Equal(t, "jane@example.org", got[1].Contributor.CanonicalEmail)
}

func TestAggregateProjectTieBreak(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")
	bob := contributor("bob@example.org", "Bob Smith")

	events := []models.Event{
		event(models.EventNewContributor, jane, "spark", "spark/spark", 1, 10),
		event(models.EventNewContributor, bob, "kafka", "kafka/kafka", 1, 10),
	}

	report := Aggregate(events)
	require.Len(t, report.Projects, 2)
	assert.Equal(t, "kafka", report.Projects[0].Project)
	assert.Equal(t, "spark", report.Projects[1].Project)
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	assert.Empty(t, report.Projects)
	assert.Equal(t, 0, report.TotalNewContributors())
}

func makeTimeline(c *models.Contributor, projects ...string) *models.ContributorTimeline {
	tl := &models.ContributorTimeline{Contributor: c}
	for i, project := range projects {
		tl.Entries = append(tl.Entries, models.TimelineEntry{
			Commit: models.CommitRecord{
				RepoID:  project + "/" + project,
				Project: project,
				Time:    time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
				Hash:    string(rune('a' + i)),
			},
			Ordinal: i + 1,
		})
	}
	return tl
}

func TestForContributor(t *testing.T) {
	jane := contributor("jane@example.org", "Jane Doe")
	jane.ForgeUsername = "janedoe"
	timelines := []*models.ContributorTimeline{
		makeTimeline(contributor("bob@example.org", "Bob Smith"), "spark"),
		makeTimeline(jane, "kafka", "kafka", "spark"),
	}

	tests := []struct {
		name   string
		filter string
	}{
		{"by email", "jane@example.org"},
		{"by email case-insensitive", "JANE@EXAMPLE.ORG"},
		{"by display name", "Jane Doe"},
		{"by forge username", "janedoe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := ForContributor(timelines, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, "jane@example.org", rep.Timeline.Contributor.CanonicalEmail)
			require.Len(t, rep.Projects, 2)
			// highest commit count first
			assert.Equal(t, models.ProjectCommitCount{Project: "kafka", Commits: 2}, rep.Projects[0])
			assert.Equal(t, models.ProjectCommitCount{Project: "spark", Commits: 1}, rep.Projects[1])
		})
	}
}

func TestForContributorNotFound(t *testing.T) {
	timelines := []*models.ContributorTimeline{
		makeTimeline(contributor("bob@example.org", "Bob Smith"), "spark"),
	}
	_, err := ForContributor(timelines, "nobody")
	assert.Error(t, err)
}
