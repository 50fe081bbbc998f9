package output

import (
	"io"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
)

// Formatter renders a run for one output format. The windowed report and
// the contributor-filtered report have different shapes, so both entry
// points exist on every formatter.
type Formatter interface {
	Format(w io.Writer, summary models.RunSummary, report *models.ProjectReport) error
	FormatContributor(w io.Writer, summary models.RunSummary, report *models.ContributorReport) error
}

// New returns the formatter for a format name.
func New(format string) (Formatter, error) {
	switch format {
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	default:
		return nil, errors.ConfigErrorf("unknown output format %q", format)
	}
}

// milestonesDescending orders milestone sections with the highest
// thresholds first, the way the weekly report reads best.
var milestonesDescending = []int{1000, 500, 100, 50, 25, 10}

// displayName renders a contributor label, preferring the forge username.
func displayName(c *models.Contributor) string {
	if c.ForgeUsername != "" && c.ForgeUsername != c.DisplayName {
		return c.DisplayName + " (@" + c.ForgeUsername + ")"
	}
	return c.DisplayName
}
