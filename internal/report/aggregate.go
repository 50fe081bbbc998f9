package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/contribpulse/contribpulse/internal/models"
)

func equalFold(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

// Aggregate groups detected events by project and assembles the run report.
//
// Within a project an identity appears at most once per event type and
// ordinal, even if several repositories under the project produced
// qualifying commits; the earliest qualifying event wins. Projects are
// ordered by new-contributor count descending, ties broken by project name;
// events within a project are ordered by time.
func Aggregate(events []models.Event) *models.ProjectReport {
	type dedupKey struct {
		project string
		email   string
		kind    models.EventKind
		ordinal int
	}

	earliest := make(map[dedupKey]models.Event)
	for _, event := range events {
		key := dedupKey{
			project: event.Project,
			email:   event.Contributor.CanonicalEmail,
			kind:    event.Kind,
			ordinal: event.Ordinal,
		}
		if existing, ok := earliest[key]; !ok || event.Time.Before(existing.Time) {
			earliest[key] = event
		}
	}

	byProject := make(map[string]*models.ProjectEvents)
	for _, event := range earliest {
		pe := byProject[event.Project]
		if pe == nil {
			pe = &models.ProjectEvents{Project: event.Project}
			byProject[event.Project] = pe
		}
		switch event.Kind {
		case models.EventNewContributor:
			pe.NewContributors = append(pe.NewContributors, event)
		case models.EventMilestone:
			pe.Milestones = append(pe.Milestones, event)
		}
	}

	report := &models.ProjectReport{}
	for _, pe := range byProject {
		sortEvents(pe.NewContributors)
		sortEvents(pe.Milestones)
		report.Projects = append(report.Projects, *pe)
	}

	sort.Slice(report.Projects, func(i, j int) bool {
		a, b := report.Projects[i], report.Projects[j]
		if len(a.NewContributors) != len(b.NewContributors) {
			return len(a.NewContributors) > len(b.NewContributors)
		}
		return a.Project < b.Project
	})

	return report
}

func sortEvents(events []models.Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.Contributor.CanonicalEmail != b.Contributor.CanonicalEmail {
			return a.Contributor.CanonicalEmail < b.Contributor.CanonicalEmail
		}
		return a.Ordinal < b.Ordinal
	})
}

// ForContributor builds the full-history report for one resolved identity:
// the merged timeline plus a per-project commit breakdown ordered by count
// descending then project name. The filter matches an email, a display
// name, or a forge username, case-insensitively.
func ForContributor(timelines []*models.ContributorTimeline, filter string) (*models.ContributorReport, error) {
	timeline := matchContributor(timelines, filter)
	if timeline == nil {
		return nil, fmt.Errorf("contributor %q not found in any repository", filter)
	}

	counts := make(map[string]int)
	for _, entry := range timeline.Entries {
		counts[entry.Commit.Project]++
	}

	projects := make([]models.ProjectCommitCount, 0, len(counts))
	for project, commits := range counts {
		projects = append(projects, models.ProjectCommitCount{Project: project, Commits: commits})
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Commits != projects[j].Commits {
			return projects[i].Commits > projects[j].Commits
		}
		return projects[i].Project < projects[j].Project
	})

	return &models.ContributorReport{
		Timeline: timeline,
		Projects: projects,
	}, nil
}

func matchContributor(timelines []*models.ContributorTimeline, filter string) *models.ContributorTimeline {
	for _, timeline := range timelines {
		c := timeline.Contributor
		if equalFold(c.ForgeUsername, filter) || equalFold(c.DisplayName, filter) {
			return timeline
		}
		for _, email := range c.Emails {
			if equalFold(email, filter) {
				return timeline
			}
		}
		for _, name := range c.Names {
			if equalFold(name, filter) {
				return timeline
			}
		}
	}
	return nil
}
