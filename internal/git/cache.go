package git

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("repo-logs")

type cacheEntry struct {
	Fingerprint string `json:"fingerprint"`
	Log         string `json:"log"`
}

// CachedSource wraps the git CLI with a bbolt-backed log cache. A repository
// whose refs have not moved since the previous run skips the `git log`
// subprocess entirely; the ref fingerprint is still taken fresh each run.
type CachedSource struct {
	inner  *CLI
	db     *bolt.DB
	logger *logrus.Logger
}

// OpenCachedSource opens (or creates) the cache database at path.
func OpenCachedSource(inner *CLI, path string, logger *logrus.Logger) (*CachedSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &CachedSource{inner: inner, db: db, logger: logger}, nil
}

// Log returns the cached log when the repository's ref fingerprint is
// unchanged, otherwise falls through to git and refreshes the cache entry.
// Cache read/write problems degrade to a plain git invocation.
func (s *CachedSource) Log(ctx context.Context, repo models.Repository) (string, error) {
	fp, err := s.inner.Fingerprint(ctx, repo)
	if err != nil {
		return "", err
	}

	if entry, ok := s.get(repo.ID); ok && entry.Fingerprint == fp {
		if s.logger != nil {
			s.logger.WithField("repo", repo.ID).Debug("extraction cache hit")
		}
		return entry.Log, nil
	}

	raw, err := s.inner.Log(ctx, repo)
	if err != nil {
		return "", err
	}

	s.put(repo.ID, cacheEntry{Fingerprint: fp, Log: raw})
	return raw, nil
}

func (s *CachedSource) get(repoID string) (cacheEntry, bool) {
	var entry cacheEntry
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(cacheBucket).Get([]byte(repoID))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err == nil {
			found = true
		}
		return nil
	})
	return entry, found
}

func (s *CachedSource) put(repoID string, entry cacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(repoID), data)
	}); err != nil && s.logger != nil {
		s.logger.WithError(err).WithField("repo", repoID).Warn("failed to update extraction cache")
	}
}

// Close closes the underlying cache database.
func (s *CachedSource) Close() error {
	return s.db.Close()
}
