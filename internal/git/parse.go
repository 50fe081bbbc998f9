package git

import (
	"bufio"
	"strings"
	"time"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/sirupsen/logrus"
)

// ParseResult carries the typed records from one repository's raw log plus
// the count of records dropped as malformed.
type ParseResult struct {
	Records []models.CommitRecord
	Dropped int
}

// iso8601 covers git's non-strict iso output, kept as a fallback in case a
// cached log predates the switch to --date=iso-strict.
const iso8601 = "2006-01-02 15:04:05 -0700"

// ParseLog turns raw `git log` output into CommitRecords stamped with the
// repository identity. Author name and email are taken verbatim; identity
// normalization happens later in resolution. Malformed lines (wrong field
// count, unparseable timestamp, missing email or hash) are dropped, never
// fatal.
func ParseLog(repo models.Repository, raw string, logger *logrus.Logger) ParseResult {
	var result ParseResult

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := parseLine(repo, line)
		if err != nil {
			result.Dropped++
			if logger != nil {
				logger.WithError(err).WithField("repo", repo.ID).
					Debug("dropping malformed commit record")
			}
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result
}

func parseLine(repo models.Repository, line string) (models.CommitRecord, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 4 {
		return models.CommitRecord{}, errors.MalformedCommit(line)
	}

	name, email, date, hash := parts[0], parts[1], parts[2], parts[3]
	if email == "" || hash == "" {
		return models.CommitRecord{}, errors.MalformedCommit(line)
	}

	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		ts, err = time.Parse(iso8601, strings.TrimSpace(date))
		if err != nil {
			return models.CommitRecord{}, errors.MalformedCommit(line)
		}
	}

	return models.CommitRecord{
		RepoID:      repo.ID,
		Project:     repo.Project,
		AuthorName:  name,
		AuthorEmail: email,
		Time:        ts,
		Hash:        hash,
	}, nil
}
