package git

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
)

// maxRepoDepth bounds recursive discovery below the repositories root.
// Layout is <root>/<project>/<repo>, with incubator podlings one level
// deeper at <root>/incubator/<project>/<repo>.
const maxRepoDepth = 3

// FindRepositories enumerates every git working copy under reposDir and
// derives each repository's project from its position in the layout. The
// returned slice is sorted by repository ID so enumeration order is
// deterministic.
func FindRepositories(reposDir string) ([]models.Repository, error) {
	info, err := os.Stat(reposDir)
	if err != nil || !info.IsDir() {
		return nil, errors.ConfigErrorf("repositories directory not found: %s", reposDir)
	}

	var repos []models.Repository
	walkRepoDir(reposDir, reposDir, 0, &repos)

	sort.Slice(repos, func(i, j int) bool { return repos[i].ID < repos[j].ID })
	return repos, nil
}

func walkRepoDir(root, dir string, depth int, out *[]models.Repository) {
	if depth >= maxRepoDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// unreadable directories are skipped, not fatal
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || entry.Name() == "backups" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if isGitRepo(path) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				continue
			}
			id := filepath.ToSlash(rel)
			*out = append(*out, models.Repository{
				Project: projectForRepo(id),
				ID:      id,
				Path:    path,
			})
			continue
		}
		walkRepoDir(root, path, depth+1, out)
	}
}

// isGitRepo accepts both regular clones (.git directory) and worktrees or
// partial clones where .git is a file.
func isGitRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// projectForRepo derives the owning project from a repository's relative
// path. Top-level directories name the project; podlings under incubator/
// take the next path segment.
func projectForRepo(repoID string) string {
	segs := strings.Split(repoID, "/")
	if segs[0] == "incubator" && len(segs) > 1 {
		return segs[1]
	}
	return segs[0]
}

// FilterProject restricts an enumeration to one project. An unknown project
// that matches nothing is a fatal configuration error, surfaced before any
// extraction starts.
func FilterProject(repos []models.Repository, project string) ([]models.Repository, error) {
	if project == "" {
		return repos, nil
	}

	var filtered []models.Repository
	for _, r := range repos {
		if strings.EqualFold(r.Project, project) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.ConfigErrorf("project filter %q matches no repositories", project)
	}
	return filtered, nil
}
