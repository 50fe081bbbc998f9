package resolution

import (
	"strings"
)

// genericNames are author names too common to be a merge signal: merging two
// emails because both committed as "root" would routinely conflate different
// humans.
var genericNames = map[string]bool{
	"admin":         true,
	"administrator": true,
	"dev":           true,
	"developer":     true,
	"git":           true,
	"me":            true,
	"nobody":        true,
	"root":          true,
	"test":          true,
	"ubuntu":        true,
	"unknown":       true,
	"user":          true,
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName lowercases a display name and collapses runs of whitespace,
// so "Jane  Doe" and "jane doe" compare equal.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// IsGenericName reports whether a (normalized) name is too generic or
// bot-like to merge on.
func IsGenericName(name string) bool {
	if name == "" || genericNames[name] {
		return true
	}
	// single short tokens ("x", "pc") are unreliable merge keys
	if len(name) < 3 && !strings.Contains(name, " ") {
		return true
	}
	return strings.Contains(name, "bot") || strings.Contains(name, "noreply")
}

// SameIdentity is the pure merge predicate: two (name, email) pairs denote
// the same human only on exact signals - email equality, or exact name
// equality when the name is specific enough to trust. Never fuzzy string
// similarity: a false merge is worse than a missed one.
func SameIdentity(name1, email1, name2, email2 string) bool {
	if email1 != "" && strings.EqualFold(email1, email2) {
		return true
	}
	n1, n2 := NormalizeName(name1), NormalizeName(name2)
	if n1 == "" || n1 != n2 {
		return false
	}
	return !IsGenericName(n1)
}

// ForgeUsername extracts the account name embedded in a forge privacy
// address such as 12345678+octocat@users.noreply.github.com. It is a display
// attribute only; it never merges otherwise-unrelated emails.
func ForgeUsername(email string) string {
	lower := strings.ToLower(email)
	at := strings.LastIndex(lower, "@")
	if at < 1 {
		return ""
	}
	local, domain := lower[:at], lower[at+1:]
	if !strings.Contains(domain, "users.") || !strings.Contains(domain, ".noreply.") {
		return ""
	}
	if plus := strings.Index(local, "+"); plus >= 0 {
		return local[plus+1:]
	}
	return local
}
