package git

import (
	"strings"
	"testing"
	"time"

	"github.com/contribpulse/contribpulse/internal/errors"
	"github.com/contribpulse/contribpulse/internal/models"
)

var testRepo = models.Repository{Project: "kafka", ID: "kafka/kafka", Path: "/tmp/kafka"}

func TestParseLog(t *testing.T) {
	raw := strings.Join([]string{
		"Jane Doe|jane@example.org|2026-08-20T10:00:00+02:00|abc123",
		"Bob|bob@example.org|2026-08-21T11:30:00Z|def456",
		"",
		"Carol|carol@example.org|2026-08-22 09:15:00 +0000|789abc",
	}, "\n")

	result := ParseLog(testRepo, raw, nil)

	if len(result.Records) != 3 {
		t.Fatalf("ParseLog() returned %d records, want 3", len(result.Records))
	}
	if result.Dropped != 0 {
		t.Errorf("ParseLog() dropped %d records, want 0", result.Dropped)
	}

	first := result.Records[0]
	if first.AuthorName != "Jane Doe" || first.AuthorEmail != "jane@example.org" {
		t.Errorf("unexpected author: %q <%q>", first.AuthorName, first.AuthorEmail)
	}
	if first.RepoID != "kafka/kafka" || first.Project != "kafka" {
		t.Errorf("record not stamped with repository identity: %+v", first)
	}
	if first.Hash != "abc123" {
		t.Errorf("Hash = %q, want abc123", first.Hash)
	}

	want := time.Date(2026, 8, 20, 10, 0, 0, 0, time.FixedZone("", 2*3600))
	if !first.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", first.Time, want)
	}

	// third line uses the non-strict iso fallback
	if !result.Records[2].Time.Equal(time.Date(2026, 8, 22, 9, 15, 0, 0, time.UTC)) {
		t.Errorf("iso fallback Time = %v", result.Records[2].Time)
	}
}

func TestParseLogMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "Jane Doe|jane@example.org|abc123"},
		{"too many fields", "Jane|Doe|jane@example.org|2026-08-20T10:00:00Z|abc123"},
		{"missing email", "Jane Doe||2026-08-20T10:00:00Z|abc123"},
		{"missing hash", "Jane Doe|jane@example.org|2026-08-20T10:00:00Z|"},
		{"bad date", "Jane Doe|jane@example.org|not-a-date|abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseLog(testRepo, tt.line, nil)
			if len(result.Records) != 0 {
				t.Errorf("ParseLog(%q) kept a record, want drop", tt.line)
			}
			if result.Dropped != 1 {
				t.Errorf("ParseLog(%q) Dropped = %d, want 1", tt.line, result.Dropped)
			}
		})
	}
}

func TestParseLineErrorType(t *testing.T) {
	_, err := parseLine(testRepo, "not a commit line")
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !errors.IsMalformedCommit(err) {
		t.Errorf("parseLine error should be a malformed-commit error, got %v", err)
	}
	if errors.IsFatal(err) {
		t.Error("a malformed record must never be fatal")
	}
}

func TestParseLogEmptyNameAllowed(t *testing.T) {
	result := ParseLog(testRepo, "|jane@example.org|2026-08-20T10:00:00Z|abc123", nil)
	if len(result.Records) != 1 {
		t.Fatalf("record with empty author name should be kept, got %d records", len(result.Records))
	}
	if result.Records[0].AuthorName != "" {
		t.Errorf("AuthorName = %q, want empty", result.Records[0].AuthorName)
	}
}

func TestParseLogEmptyInput(t *testing.T) {
	result := ParseLog(testRepo, "", nil)
	if len(result.Records) != 0 || result.Dropped != 0 {
		t.Errorf("empty log produced records=%d dropped=%d", len(result.Records), result.Dropped)
	}
}
