package resolution

import (
	"strings"
)

var botNameIndicators = []string{
	"[bot]",
	"jenkins",
	"github-actions",
	"github actions",
	"dependabot",
	"renovate",
	"codecov",
	"travis",
	"circleci",
	"appveyor",
	"buildbot",
	"automation",
	"auto-commit",
	"continuous integration",
}

var botEmailIndicators = []string{
	"jenkins",
	"ci@",
	"automation@",
	"github-actions",
	"dependabot",
	"renovate",
	"codecov",
	"travis",
	"circleci",
	"appveyor",
	"buildbot",
}

var botDomains = []string{
	"dependabot.com",
	"renovatebot.com",
	"codecov.io",
}

// IsBotOrCI reports whether commit authorship looks like a bot or CI
// system. Forge privacy addresses (user@users.noreply.<forge>) belong to
// real humans and are kept unless the address itself carries a bot marker;
// other noreply addresses are treated as automation.
func IsBotOrCI(authorName, authorEmail string) bool {
	name := strings.ToLower(authorName)
	email := strings.ToLower(authorEmail)

	for _, indicator := range botNameIndicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	for _, indicator := range botEmailIndicators {
		if strings.Contains(email, indicator) {
			return true
		}
	}
	for _, domain := range botDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}

	if strings.Contains(email, "users.noreply.") {
		// privacy feature, typically a real user
		return strings.Contains(email, "bot")
	}

	for _, indicator := range []string{"noreply", "no-reply", "donotreply"} {
		if strings.Contains(name, indicator) || strings.Contains(email, indicator) {
			return true
		}
	}

	return false
}
