package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/contribpulse/contribpulse/internal/errors"
)

func mkRepo(t *testing.T, root string, segments ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, segments...)...)
	if err := os.MkdirAll(filepath.Join(path, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestFindRepositories(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, "kafka", "kafka")
	mkRepo(t, root, "kafka", "kafka-site")
	mkRepo(t, root, "spark", "spark")
	mkRepo(t, root, "incubator", "pekko", "pekko-core")

	// not repositories
	if err := os.MkdirAll(filepath.Join(root, "backups", "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".hidden"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty-project"), 0o755); err != nil {
		t.Fatal(err)
	}

	repos, err := FindRepositories(root)
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}

	wantIDs := []string{
		"incubator/pekko/pekko-core",
		"kafka/kafka",
		"kafka/kafka-site",
		"spark/spark",
	}
	if len(repos) != len(wantIDs) {
		t.Fatalf("found %d repositories, want %d: %+v", len(repos), len(wantIDs), repos)
	}
	for i, want := range wantIDs {
		if repos[i].ID != want {
			t.Errorf("repos[%d].ID = %q, want %q", i, repos[i].ID, want)
		}
	}

	// podlings take the project name one level below incubator
	if repos[0].Project != "pekko" {
		t.Errorf("incubator project = %q, want pekko", repos[0].Project)
	}
	if repos[1].Project != "kafka" {
		t.Errorf("project = %q, want kafka", repos[1].Project)
	}
}

func TestFindRepositoriesMissingRoot(t *testing.T) {
	_, err := FindRepositories(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing repositories directory")
	}
	if !errors.IsFatal(err) {
		t.Errorf("missing root should be a fatal config error, got %v", err)
	}
}

func TestProjectForRepo(t *testing.T) {
	tests := []struct {
		repoID   string
		expected string
	}{
		{"kafka/kafka", "kafka"},
		{"kafka/kafka-site", "kafka"},
		{"incubator/pekko/pekko-core", "pekko"},
		{"incubator", "incubator"},
		{"standalone", "standalone"},
	}

	for _, tt := range tests {
		if got := projectForRepo(tt.repoID); got != tt.expected {
			t.Errorf("projectForRepo(%q) = %q, want %q", tt.repoID, got, tt.expected)
		}
	}
}

func TestFilterProject(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, "kafka", "kafka")
	mkRepo(t, root, "spark", "spark")
	repos, err := FindRepositories(root)
	if err != nil {
		t.Fatal(err)
	}

	filtered, err := FilterProject(repos, "Kafka")
	if err != nil {
		t.Fatalf("FilterProject() error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Project != "kafka" {
		t.Errorf("FilterProject(Kafka) = %+v", filtered)
	}

	all, err := FilterProject(repos, "")
	if err != nil || len(all) != len(repos) {
		t.Errorf("empty filter should pass everything through, got %d", len(all))
	}

	if _, err := FilterProject(repos, "nonexistent"); err == nil {
		t.Error("expected error for project matching no repositories")
	}
}
