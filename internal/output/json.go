package output

import (
	"encoding/json"
	"io"

	"github.com/contribpulse/contribpulse/internal/models"
)

// JSONFormatter emits the report as indented JSON for machine consumers.
type JSONFormatter struct{}

type jsonReport struct {
	Summary models.RunSummary     `json:"summary"`
	Report  *models.ProjectReport `json:"report"`
}

type jsonContributorReport struct {
	Summary models.RunSummary         `json:"summary"`
	Report  *models.ContributorReport `json:"report"`
}

func (f *JSONFormatter) Format(w io.Writer, summary models.RunSummary, report *models.ProjectReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Summary: summary, Report: report})
}

func (f *JSONFormatter) FormatContributor(w io.Writer, summary models.RunSummary, report *models.ContributorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonContributorReport{Summary: summary, Report: report})
}
