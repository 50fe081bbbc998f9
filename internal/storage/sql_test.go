package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/contribpulse/contribpulse/internal/config"
	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := Open(config.StorageConfig{
		Driver:    "sqlite",
		LocalPath: filepath.Join(t.TempDir(), "runs.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func archivedSummary(runID string, started time.Time) models.RunSummary {
	return models.RunSummary{
		RunID:         runID,
		StartedAt:     started,
		Now:           started,
		LookbackDays:  7,
		ReposTotal:    10,
		ReposFailed:   1,
		CommitsParsed: 500,
		Contributors:  25,
		Duration:      90 * time.Second,
	}
}

func TestSaveAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	jane := &models.Contributor{CanonicalEmail: "jane@example.org", DisplayName: "Jane Doe"}
	report := &models.ProjectReport{
		Projects: []models.ProjectEvents{{
			Project: "kafka",
			NewContributors: []models.Event{{
				Kind: models.EventNewContributor, Contributor: jane,
				Project: "kafka", RepoID: "kafka/kafka",
				Ordinal: 1, Time: time.Now().UTC(), Hash: "abc", TotalCommits: 1,
			}},
		}},
	}

	base := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, archivedSummary("run-1", base), report))
	require.NoError(t, store.SaveRun(ctx, archivedSummary("run-2", base.Add(time.Hour)), nil))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)

	assert.Equal(t, 1, runs[1].NewContributors)
	assert.Equal(t, 0, runs[0].NewContributors)
	assert.Equal(t, int64(90000), runs[1].DurationMS)
	assert.Equal(t, 7, runs[1].LookbackDays)
}

func TestSaveRunDoesNotMutateReport(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	jane := &models.Contributor{CanonicalEmail: "jane@example.org", DisplayName: "Jane Doe"}
	bob := &models.Contributor{CanonicalEmail: "bob@example.org", DisplayName: "Bob Smith"}
	when := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	// the new-contributor slice shares a backing array with a sentinel
	// element; archiving must not write milestone events over it
	backing := make([]models.Event, 2)
	backing[0] = models.Event{
		Kind: models.EventNewContributor, Contributor: jane,
		Project: "kafka", RepoID: "kafka/kafka",
		Ordinal: 1, Time: when, Hash: "new1", TotalCommits: 1,
	}
	backing[1] = models.Event{
		Kind: models.EventNewContributor, Contributor: bob,
		Project: "kafka", RepoID: "kafka/kafka",
		Ordinal: 1, Time: when, Hash: "sentinel", TotalCommits: 1,
	}

	report := &models.ProjectReport{
		Projects: []models.ProjectEvents{{
			Project:         "kafka",
			NewContributors: backing[:1],
			Milestones: []models.Event{{
				Kind: models.EventMilestone, Contributor: jane,
				Project: "kafka", RepoID: "kafka/kafka",
				Ordinal: 10, Time: when, Hash: "mile10", TotalCommits: 12,
			}},
		}},
	}

	summary := archivedSummary("run-alias", time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveRun(ctx, summary, report))

	assert.Equal(t, "sentinel", backing[1].Hash)
	assert.Equal(t, models.EventNewContributor, backing[1].Kind)
}

func TestListRunsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		summary := archivedSummary("run", base.Add(time.Duration(i)*time.Hour))
		summary.RunID = summary.RunID + string(rune('a'+i))
		require.NoError(t, store.SaveRun(ctx, summary, nil))
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: "mysql"}, nil)
	assert.Error(t, err)
}

func TestSaveRunIdempotentSchema(t *testing.T) {
	// reopening the same database must not fail on existing tables
	path := filepath.Join(t.TempDir(), "runs.db")
	cfg := config.StorageConfig{Driver: "sqlite", LocalPath: path}

	store, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
