package github

import (
	"path/filepath"
	"testing"
)

func TestProjectDir(t *testing.T) {
	tests := []struct {
		repoName string
		expected string
	}{
		{"kafka", "kafka"},
		{"kafka-site", "kafka"},
		{"spark-website", "spark"},
		{"incubator-pekko", filepath.Join("incubator", "pekko")},
		{"incubator-pekko-connectors", filepath.Join("incubator", "pekko")},
	}

	for _, tt := range tests {
		if got := ProjectDir(tt.repoName); got != tt.expected {
			t.Errorf("ProjectDir(%q) = %q, want %q", tt.repoName, got, tt.expected)
		}
	}
}
