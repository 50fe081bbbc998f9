package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/contribpulse/contribpulse/internal/models"
)

// TableFormatter renders the report as terminal tables.
type TableFormatter struct{}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.Faint)
)

func (f *TableFormatter) Format(w io.Writer, summary models.RunSummary, report *models.ProjectReport) error {
	headingColor.Fprintf(w, "ContribPulse — %d day window through %s\n\n",
		summary.LookbackDays, summary.Now.Format(dateFormat))
	fmt.Fprintf(w, "Repositories: %s analyzed, %d skipped · Commits: %s · Contributors: %s\n\n",
		humanize.Comma(int64(summary.ReposTotal-summary.ReposFailed)),
		summary.ReposFailed,
		humanize.Comma(int64(summary.CommitsParsed)),
		humanize.Comma(int64(summary.Contributors)))

	if report.TotalNewContributors() > 0 {
		headingColor.Fprintln(w, "New Contributors")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Project", "Contributor", "First Commit", "Repository"})
		for _, project := range report.Projects {
			for _, event := range project.NewContributors {
				t.AppendRow(table.Row{
					project.Project,
					displayName(event.Contributor),
					event.Time.Format(dateFormat),
					event.RepoID,
				})
			}
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		fmt.Fprintln(w)
	} else {
		dimColor.Fprintln(w, "No new contributors in this window.")
	}

	if report.TotalMilestones() > 0 {
		headingColor.Fprintln(w, "Milestones")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Milestone", "Contributor", "Project", "Date", "Total Commits"})
		for _, threshold := range milestonesDescending {
			for _, project := range report.Projects {
				for _, event := range project.Milestones {
					if event.Ordinal != threshold {
						continue
					}
					t.AppendRow(table.Row{
						ordinalLabel(threshold),
						displayName(event.Contributor),
						project.Project,
						event.Time.Format(dateFormat),
						humanize.Comma(int64(event.TotalCommits)),
					})
				}
			}
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		fmt.Fprintln(w)
	} else {
		dimColor.Fprintln(w, "No milestone commits in this window.")
	}

	if len(summary.Warnings) > 0 {
		dimColor.Fprintf(w, "%d repositories skipped (see log for details)\n", len(summary.Warnings))
	}
	return nil
}

func (f *TableFormatter) FormatContributor(w io.Writer, summary models.RunSummary, report *models.ContributorReport) error {
	c := report.Timeline.Contributor
	headingColor.Fprintf(w, "%s\n\n", displayName(c))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRow(table.Row{"Total commits", humanize.Comma(int64(report.Timeline.TotalCommits()))})
	if report.Timeline.TotalCommits() > 0 {
		first := report.Timeline.FirstCommitTime()
		last := report.Timeline.Entries[len(report.Timeline.Entries)-1].Commit.Time
		t.AppendRow(table.Row{"First commit", fmt.Sprintf("%s (%s)", first.Format(dateFormat), humanize.Time(first))})
		t.AppendRow(table.Row{"Latest commit", fmt.Sprintf("%s (%s)", last.Format(dateFormat), humanize.Time(last))})
	}
	for i, email := range c.Emails {
		label := ""
		if i == 0 {
			label = "Emails"
		}
		t.AppendRow(table.Row{label, email})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "Commits by Project")
	pt := table.NewWriter()
	pt.SetOutputMirror(w)
	pt.AppendHeader(table.Row{"Project", "Commits"})
	for _, project := range report.Projects {
		pt.AppendRow(table.Row{project.Project, humanize.Comma(int64(project.Commits))})
	}
	pt.SetStyle(table.StyleLight)
	pt.Render()
	return nil
}
