package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/contribpulse/contribpulse/internal/models"
)

// YAMLFormatter emits the report as YAML.
type YAMLFormatter struct{}

type yamlReport struct {
	Summary models.RunSummary     `yaml:"summary"`
	Report  *models.ProjectReport `yaml:"report"`
}

type yamlContributorReport struct {
	Summary models.RunSummary         `yaml:"summary"`
	Report  *models.ContributorReport `yaml:"report"`
}

func (f *YAMLFormatter) Format(w io.Writer, summary models.RunSummary, report *models.ProjectReport) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(yamlReport{Summary: summary, Report: report})
}

func (f *YAMLFormatter) FormatContributor(w io.Writer, summary models.RunSummary, report *models.ContributorReport) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(yamlContributorReport{Summary: summary, Report: report})
}
