package temporal

import (
	"sort"

	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/contribpulse/contribpulse/internal/resolution"
)

// BuildTimelines attributes every commit record to its resolved contributor
// and produces one globally ordered timeline per identity. The sort key is
// (commit time, repository id, commit hash); the two trailing components
// only break ties so output stays deterministic when timestamps collide
// across repositories. Ordinals are assigned 1..N after the sort.
//
// This is a full sort, not a streaming merge: repository processing order
// carries no chronological guarantee. Timelines are returned sorted by
// canonical email; a commit never lands in more than one timeline because
// each email resolves to exactly one contributor.
func BuildTimelines(records []models.CommitRecord, res *resolution.Resolution) []*models.ContributorTimeline {
	grouped := make(map[*models.Contributor][]models.CommitRecord)
	for _, rec := range records {
		contributor := res.ByEmail(rec.AuthorEmail)
		if contributor == nil {
			continue
		}
		grouped[contributor] = append(grouped[contributor], rec)
	}

	timelines := make([]*models.ContributorTimeline, 0, len(grouped))
	for contributor, commits := range grouped {
		sort.Slice(commits, func(i, j int) bool {
			a, b := commits[i], commits[j]
			if !a.Time.Equal(b.Time) {
				return a.Time.Before(b.Time)
			}
			if a.RepoID != b.RepoID {
				return a.RepoID < b.RepoID
			}
			return a.Hash < b.Hash
		})

		entries := make([]models.TimelineEntry, 0, len(commits))
		seen := make(map[string]bool, len(commits))
		for _, commit := range commits {
			// the same commit can surface under several refs; count it once
			key := commit.RepoID + "\x00" + commit.Hash
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, models.TimelineEntry{
				Commit:  commit,
				Ordinal: len(entries) + 1,
			})
		}

		timelines = append(timelines, &models.ContributorTimeline{
			Contributor: contributor,
			Entries:     entries,
		})
	}

	sort.Slice(timelines, func(i, j int) bool {
		return timelines[i].Contributor.CanonicalEmail < timelines[j].Contributor.CanonicalEmail
	})
	return timelines
}
