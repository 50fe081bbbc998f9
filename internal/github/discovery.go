package github

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/progress"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RemoteRepo is one repository discovered on the forge.
type RemoteRepo struct {
	Name     string
	CloneURL string
	Fork     bool
	Archived bool
}

// Discoverer enumerates an organization's repositories through the GitHub
// API and mirrors them locally as metadata-only clones.
type Discoverer struct {
	client  *github.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewDiscoverer creates a rate-limited discoverer. An empty token falls
// back to unauthenticated access with its lower API quota.
func NewDiscoverer(token string, rateLimit int, logger *logrus.Logger) *Discoverer {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if rateLimit <= 0 {
		rateLimit = 1
	}
	return &Discoverer{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:  logger,
	}
}

// ListOrgRepositories pages through every repository in the organization.
func (d *Discoverer) ListOrgRepositories(ctx context.Context, org string) ([]RemoteRepo, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var repos []RemoteRepo
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, resp, err := d.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, errors.ExternalError(err, fmt.Sprintf("list repositories for %s", org))
		}
		for _, r := range page {
			repos = append(repos, RemoteRepo{
				Name:     r.GetName(),
				CloneURL: r.GetCloneURL(),
				Fork:     r.GetFork(),
				Archived: r.GetArchived(),
			})
		}

		if d.logger != nil {
			d.logger.WithFields(logrus.Fields{
				"org":   org,
				"page":  opts.Page,
				"total": len(repos),
			}).Debug("fetched repository page")
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

// ProjectDir maps a repository name onto its project directory: podlings
// named incubator-<project>-* land under incubator/<project>, everything
// else under its first hyphen segment.
func ProjectDir(repoName string) string {
	if rest, ok := strings.CutPrefix(repoName, "incubator-"); ok {
		project := strings.SplitN(rest, "-", 2)[0]
		return filepath.Join("incubator", project)
	}
	return strings.SplitN(repoName, "-", 2)[0]
}

// CloneMetadata performs a blobless, no-checkout clone: full commit history
// and refs, no file contents.
func (d *Discoverer) CloneMetadata(ctx context.Context, cloneURL, targetDir string) error {
	if err := os.MkdirAll(filepath.Dir(targetDir), 0o755); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "git", "clone", "--filter=blob:none", "--no-checkout", cloneURL, targetDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git clone failed: %w (output: %s)", err, string(output))
	}
	return nil
}

// MirrorResult summarizes one mirror pass.
type MirrorResult struct {
	Discovered int
	Cloned     int
	Skipped    int
	Failed     int
}

// Mirror discovers the organization and clones every repository not yet
// present under reposDir. When listFile is non-empty the full repository
// name list is written there, one per line.
func (d *Discoverer) Mirror(ctx context.Context, org, reposDir, listFile string, reporter progress.Reporter) (*MirrorResult, error) {
	repos, err := d.ListOrgRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	result := &MirrorResult{Discovered: len(repos)}

	if listFile != "" {
		var sb strings.Builder
		for _, r := range repos {
			sb.WriteString(r.Name)
			sb.WriteByte('\n')
		}
		if err := os.WriteFile(listFile, []byte(sb.String()), 0o644); err != nil {
			return nil, fmt.Errorf("write repository list: %w", err)
		}
	}

	reporter.Start("Cloning repositories", len(repos))
	defer reporter.Done()

	for _, repo := range repos {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		target := filepath.Join(reposDir, ProjectDir(repo.Name), repo.Name)
		if _, err := os.Stat(target); err == nil {
			result.Skipped++
			reporter.Increment()
			continue
		}

		if err := d.CloneMetadata(ctx, repo.CloneURL, target); err != nil {
			result.Failed++
			if d.logger != nil {
				d.logger.WithError(err).WithField("repo", repo.Name).Warn("Clone failed")
			}
		} else {
			result.Cloned++
		}
		reporter.Increment()
	}

	return result, nil
}
