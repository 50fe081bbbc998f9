package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/sirupsen/logrus"
)

// HistorySource is the raw history retrieval capability the extractor
// depends on: every commit across every branch, authorship and timestamp
// only, no file contents. Tests substitute fixture implementations so the
// pipeline never needs a real git binary.
type HistorySource interface {
	Log(ctx context.Context, repo models.Repository) (string, error)
}

// CLI retrieves history by running the git executable against a working
// copy. Each invocation is bounded by Timeout so one stalled subprocess
// cannot extend the whole run.
type CLI struct {
	GitPath string
	Timeout time.Duration
	logger  *logrus.Logger
}

// NewCLI creates a git command runner.
func NewCLI(timeout time.Duration, logger *logrus.Logger) *CLI {
	return &CLI{
		GitPath: "git",
		Timeout: timeout,
		logger:  logger,
	}
}

// logFormat matches one commit per line: name|email|date|hash.
// --date=iso-strict makes the date RFC 3339 parseable.
const logFormat = "--pretty=format:%an|%ae|%ad|%H"

// Log returns the full all-branches commit log for one repository. Failures
// (missing directory, corrupt repository, non-zero exit, timeout) come back
// as a repository-unavailable error; the caller skips the repository and the
// run continues.
func (c *CLI) Log(ctx context.Context, repo models.Repository) (string, error) {
	if _, err := os.Stat(repo.Path); err != nil {
		return "", errors.RepositoryUnavailable(err, repo.ID)
	}

	out, err := c.run(ctx, repo, "log", "--all", logFormat, "--date=iso-strict")
	if err != nil {
		return "", err
	}
	return out, nil
}

// Fingerprint returns a digest over all refs, used by the extraction cache
// to decide whether a repository changed since the last run.
func (c *CLI) Fingerprint(ctx context.Context, repo models.Repository) (string, error) {
	out, err := c.run(ctx, repo, "rev-parse", "--all")
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(out))
	return hex.EncodeToString(sum[:]), nil
}

// Refresh updates a repository's remote tracking state without touching the
// working tree: fetch all remotes, then update remote refs. Metadata only.
func (c *CLI) Refresh(ctx context.Context, repo models.Repository) error {
	if _, err := c.run(ctx, repo, "fetch", "--all", "--quiet"); err != nil {
		return err
	}
	if _, err := c.run(ctx, repo, "remote", "update"); err != nil {
		return err
	}
	return nil
}

func (c *CLI) run(ctx context.Context, repo models.Repository, args ...string) (string, error) {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.GitPath, args...)
	cmd.Dir = repo.Path

	output, err := cmd.Output()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", errors.RepositoryUnavailable(
				fmt.Errorf("git %s timed out after %s", args[0], c.Timeout), repo.ID)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", errors.RepositoryUnavailable(
				fmt.Errorf("git %s failed: %w (stderr: %s)", args[0], err, string(exitErr.Stderr)), repo.ID)
		}
		return "", errors.RepositoryUnavailable(err, repo.ID)
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"repo": repo.ID,
			"cmd":  args[0],
		}).Debug("git command completed")
	}

	return string(output), nil
}
