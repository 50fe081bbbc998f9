package models

import (
	"time"
)

// Repository is one enumerated working copy on disk. Project groups one or
// more repositories under a common namespace (derived from the directory
// layout, e.g. REPOSITORIES/kafka/kafka-site).
type Repository struct {
	Project string `json:"project" db:"project"`
	ID      string `json:"id" db:"id"`
	Path    string `json:"path" db:"path"`
}

// CommitRecord is one parsed commit authorship record. Immutable once
// parsed; everything downstream of the parser treats it read-only.
type CommitRecord struct {
	RepoID      string    `json:"repo_id" db:"repo_id"`
	Project     string    `json:"project" db:"project"`
	AuthorName  string    `json:"author_name" db:"author_name"`
	AuthorEmail string    `json:"author_email" db:"author_email"`
	Time        time.Time `json:"time" db:"time"`
	Hash        string    `json:"hash" db:"hash"`
}

// Contributor is one resolved human: the set of (name, email) variants the
// resolver decided belong to the same person, plus a display label. The
// canonical email is the lexicographically smallest member email so cluster
// identity is stable regardless of input order.
type Contributor struct {
	CanonicalEmail string   `json:"canonical_email"`
	DisplayName    string   `json:"display_name"`
	Emails         []string `json:"emails"`
	Names          []string `json:"names"`
	ForgeUsername  string   `json:"forge_username,omitempty"`
}

// TimelineEntry is one commit with its 1-based position in a contributor's
// merged cross-repository history.
type TimelineEntry struct {
	Commit  CommitRecord `json:"commit"`
	Ordinal int          `json:"ordinal"`
}

// ContributorTimeline is a contributor's full history, ordered ascending by
// (commit time, repository id, commit hash).
type ContributorTimeline struct {
	Contributor *Contributor    `json:"contributor"`
	Entries     []TimelineEntry `json:"entries"`
}

// FirstCommitTime returns the time of the contributor's first-ever commit.
func (t *ContributorTimeline) FirstCommitTime() time.Time {
	if len(t.Entries) == 0 {
		return time.Time{}
	}
	return t.Entries[0].Commit.Time
}

// TotalCommits returns the length of the merged timeline.
func (t *ContributorTimeline) TotalCommits() int {
	return len(t.Entries)
}

// EventKind distinguishes the two reportable event classes.
type EventKind string

const (
	EventNewContributor EventKind = "new_contributor"
	EventMilestone      EventKind = "milestone"
)

// Event is a reportable occurrence inside the lookback window: either a
// contributor's first-ever commit, or their Nth commit for a milestone N.
// Ordinal is 1 for new-contributor events and the milestone threshold for
// milestone events.
type Event struct {
	Kind         EventKind    `json:"kind"`
	Contributor  *Contributor `json:"contributor"`
	Project      string       `json:"project"`
	RepoID       string       `json:"repo_id"`
	Ordinal      int          `json:"ordinal"`
	Time         time.Time    `json:"time"`
	Hash         string       `json:"hash"`
	TotalCommits int          `json:"total_commits"`
}

// ProjectEvents holds one project's deduplicated events, each list sorted by
// event time ascending.
type ProjectEvents struct {
	Project         string  `json:"project"`
	NewContributors []Event `json:"new_contributors"`
	Milestones      []Event `json:"milestones"`
}

// ProjectReport is the aggregated run output: projects ordered by
// new-contributor count descending, ties broken by project name.
type ProjectReport struct {
	Projects []ProjectEvents `json:"projects"`
}

// TotalNewContributors sums new-contributor events across all projects.
func (r *ProjectReport) TotalNewContributors() int {
	n := 0
	for _, p := range r.Projects {
		n += len(p.NewContributors)
	}
	return n
}

// TotalMilestones sums milestone events across all projects.
func (r *ProjectReport) TotalMilestones() int {
	n := 0
	for _, p := range r.Projects {
		n += len(p.Milestones)
	}
	return n
}

// RepoWarning records one repository that was skipped during a run.
type RepoWarning struct {
	RepoID  string `json:"repo_id" db:"repo_id"`
	Project string `json:"project" db:"project"`
	Reason  string `json:"reason" db:"reason"`
}

// RunSummary describes one completed analysis run.
type RunSummary struct {
	RunID          string        `json:"run_id" db:"run_id"`
	StartedAt      time.Time     `json:"started_at" db:"started_at"`
	Now            time.Time     `json:"now" db:"now"`
	LookbackDays   int           `json:"lookback_days" db:"lookback_days"`
	ReposTotal     int           `json:"repos_total" db:"repos_total"`
	ReposFailed    int           `json:"repos_failed" db:"repos_failed"`
	CommitsParsed  int           `json:"commits_parsed" db:"commits_parsed"`
	CommitsDropped int           `json:"commits_dropped" db:"commits_dropped"`
	BotsFiltered   int           `json:"bots_filtered" db:"bots_filtered"`
	Contributors   int           `json:"contributors" db:"contributors"`
	Duration       time.Duration `json:"duration" db:"duration"`
	Warnings       []RepoWarning `json:"warnings"`
}

// ProjectCommitCount is one row of a contributor's per-project breakdown.
type ProjectCommitCount struct {
	Project string `json:"project"`
	Commits int    `json:"commits"`
}

// ContributorReport is the output of a contributor-filtered run: the full
// merged timeline for one identity plus a per-project commit breakdown,
// ordered by commit count descending then project name.
type ContributorReport struct {
	Timeline *ContributorTimeline `json:"timeline"`
	Projects []ProjectCommitCount `json:"projects"`
}
