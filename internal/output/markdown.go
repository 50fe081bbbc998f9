package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/contribpulse/contribpulse/internal/models"
)

// MarkdownFormatter renders the weekly highlights report.
type MarkdownFormatter struct{}

const dateFormat = "2006-01-02"

// Format writes the windowed report: a summary block, per-project
// new-contributor sections, then milestone sections from the highest
// threshold down.
func (f *MarkdownFormatter) Format(w io.Writer, summary models.RunSummary, report *models.ProjectReport) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# New Contributors & Milestones\n\n")
	fmt.Fprintf(&sb, "Generated %s for the %d days through %s.\n\n",
		summary.StartedAt.Format(dateFormat), summary.LookbackDays, summary.Now.Format(dateFormat))

	fmt.Fprintf(&sb, "## Summary\n\n")
	fmt.Fprintf(&sb, "- Repositories analyzed: %d (%d skipped)\n", summary.ReposTotal, summary.ReposFailed)
	fmt.Fprintf(&sb, "- Commits examined: %d\n", summary.CommitsParsed)
	fmt.Fprintf(&sb, "- Contributors resolved: %d\n", summary.Contributors)
	fmt.Fprintf(&sb, "- New contributors: %d\n", report.TotalNewContributors())
	fmt.Fprintf(&sb, "- Milestones reached: %d\n\n", report.TotalMilestones())

	f.writeNewContributors(&sb, report)
	f.writeMilestones(&sb, report)
	f.writeWarnings(&sb, summary)

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *MarkdownFormatter) writeNewContributors(sb *strings.Builder, report *models.ProjectReport) {
	total := report.TotalNewContributors()
	fmt.Fprintf(sb, "## New Contributors (%d)\n\n", total)
	if total == 0 {
		fmt.Fprintf(sb, "No new contributors in this window.\n\n")
		return
	}

	for _, project := range report.Projects {
		if len(project.NewContributors) == 0 {
			continue
		}
		fmt.Fprintf(sb, "### %s (%d)\n\n", project.Project, len(project.NewContributors))
		for _, event := range project.NewContributors {
			fmt.Fprintf(sb, "- **%s** — first commit on %s (%s)\n",
				displayName(event.Contributor), event.Time.Format(dateFormat), event.RepoID)
		}
		fmt.Fprintf(sb, "\n")
	}
}

func (f *MarkdownFormatter) writeMilestones(sb *strings.Builder, report *models.ProjectReport) {
	total := report.TotalMilestones()
	fmt.Fprintf(sb, "## Milestones (%d)\n\n", total)
	if total == 0 {
		fmt.Fprintf(sb, "No milestone commits in this window.\n\n")
		return
	}

	for _, threshold := range milestonesDescending {
		type row struct {
			project string
			event   models.Event
		}
		var rows []row
		for _, project := range report.Projects {
			for _, event := range project.Milestones {
				if event.Ordinal == threshold {
					rows = append(rows, row{project.Project, event})
				}
			}
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(sb, "### %s Commit (%d)\n\n", ordinalLabel(threshold), len(rows))
		for _, r := range rows {
			fmt.Fprintf(sb, "- **%s** (%s) — %s commit on %s (total: %d)\n",
				displayName(r.event.Contributor), r.project, ordinalLabel(threshold),
				r.event.Time.Format(dateFormat), r.event.TotalCommits)
		}
		fmt.Fprintf(sb, "\n")
	}
}

func (f *MarkdownFormatter) writeWarnings(sb *strings.Builder, summary models.RunSummary) {
	if len(summary.Warnings) == 0 {
		return
	}
	fmt.Fprintf(sb, "## Skipped Repositories (%d)\n\n", len(summary.Warnings))
	for _, warning := range summary.Warnings {
		fmt.Fprintf(sb, "- %s: %s\n", warning.RepoID, warning.Reason)
	}
	fmt.Fprintf(sb, "\n")
}

// FormatContributor writes one identity's full history report.
func (f *MarkdownFormatter) FormatContributor(w io.Writer, summary models.RunSummary, report *models.ContributorReport) error {
	var sb strings.Builder
	c := report.Timeline.Contributor

	fmt.Fprintf(&sb, "# Contributor Report: %s\n\n", displayName(c))
	fmt.Fprintf(&sb, "- Emails: %s\n", strings.Join(c.Emails, ", "))
	if len(c.Names) > 1 {
		fmt.Fprintf(&sb, "- Names seen: %s\n", strings.Join(c.Names, ", "))
	}
	fmt.Fprintf(&sb, "- Total commits: %d\n", report.Timeline.TotalCommits())
	if report.Timeline.TotalCommits() > 0 {
		fmt.Fprintf(&sb, "- First commit: %s\n", report.Timeline.FirstCommitTime().Format(dateFormat))
		last := report.Timeline.Entries[len(report.Timeline.Entries)-1]
		fmt.Fprintf(&sb, "- Latest commit: %s\n", last.Commit.Time.Format(dateFormat))
	}
	fmt.Fprintf(&sb, "\n## Commits by Project\n\n")
	for _, project := range report.Projects {
		fmt.Fprintf(&sb, "- %s: %d\n", project.Project, project.Commits)
	}
	fmt.Fprintf(&sb, "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// ordinalLabel renders a milestone threshold as "10th", "25th", etc.
func ordinalLabel(n int) string {
	return fmt.Sprintf("%dth", n)
}
