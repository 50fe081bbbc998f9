package resolution

import (
	"sort"
	"time"

	"github.com/contribpulse/contribpulse/internal/models"
	"github.com/sirupsen/logrus"
)

// Resolution maps every observed author email to one resolved contributor.
// Built once per run over the complete cross-repository commit set; treated
// as immutable afterwards.
type Resolution struct {
	Contributors []*models.Contributor
	byEmail      map[string]*models.Contributor
}

// ByEmail returns the contributor that owns an author email, or nil.
func (r *Resolution) ByEmail(email string) *models.Contributor {
	return r.byEmail[normalizeEmail(email)]
}

// Resolver clusters commit authorship into contributor identities.
type Resolver struct {
	logger *logrus.Logger
}

// NewResolver creates a resolver.
func NewResolver(logger *logrus.Logger) *Resolver {
	return &Resolver{logger: logger}
}

type emailInfo struct {
	// nameLastUsed tracks when each verbatim author name last appeared, so
	// the most recently used name can win the display label.
	nameLastUsed map[string]time.Time
	username     string
}

// Resolve partitions records by exact email, then merges clusters whose
// authors used an identical (non-generic) name. The result is independent of
// record and repository order: union-find roots are chosen
// lexicographically, never by arrival order.
func (r *Resolver) Resolve(records []models.CommitRecord) *Resolution {
	infos := make(map[string]*emailInfo)
	for _, rec := range records {
		email := normalizeEmail(rec.AuthorEmail)
		info := infos[email]
		if info == nil {
			info = &emailInfo{nameLastUsed: make(map[string]time.Time)}
			infos[email] = info
		}
		if rec.Time.After(info.nameLastUsed[rec.AuthorName]) {
			info.nameLastUsed[rec.AuthorName] = rec.Time
		}
		if info.username == "" {
			info.username = ForgeUsername(rec.AuthorEmail)
		}
	}

	uf := newUnionFind()
	for email := range infos {
		uf.add(email)
	}

	// secondary pass: SameIdentity decides whether a shared author name
	// merges two email clusters
	byName := make(map[string][]string)
	for email, info := range infos {
		for name := range info.nameLastUsed {
			key := NormalizeName(name)
			if key == "" {
				continue
			}
			byName[key] = append(byName[key], email)
		}
	}
	for name, emails := range byName {
		for i := 1; i < len(emails); i++ {
			if SameIdentity(name, emails[0], name, emails[i]) {
				uf.union(emails[0], emails[i])
			}
		}
	}

	clusters := make(map[string][]string)
	for email := range infos {
		root := uf.find(email)
		clusters[root] = append(clusters[root], email)
	}

	res := &Resolution{byEmail: make(map[string]*models.Contributor)}
	for _, emails := range clusters {
		sort.Strings(emails)
		contributor := r.buildContributor(emails, infos)
		res.Contributors = append(res.Contributors, contributor)
		for _, email := range emails {
			res.byEmail[email] = contributor
		}
	}

	sort.Slice(res.Contributors, func(i, j int) bool {
		return res.Contributors[i].CanonicalEmail < res.Contributors[j].CanonicalEmail
	})

	if r.logger != nil {
		for _, c := range res.Contributors {
			if len(c.Emails) > 1 {
				r.logger.WithFields(logrus.Fields{
					"contributor": c.DisplayName,
					"emails":      len(c.Emails),
				}).Debug("merged contributor identity")
			}
		}
	}

	return res
}

func (r *Resolver) buildContributor(emails []string, infos map[string]*emailInfo) *models.Contributor {
	var (
		displayName string
		displayTime time.Time
		names       []string
		username    string
		seenNames   = make(map[string]bool)
	)

	for _, email := range emails {
		info := infos[email]
		for name, lastUsed := range info.nameLastUsed {
			if !seenNames[name] {
				seenNames[name] = true
				names = append(names, name)
			}
			// most recently used name wins; lexicographic tie-break keeps
			// the result deterministic when timestamps collide
			if lastUsed.After(displayTime) ||
				(lastUsed.Equal(displayTime) && (displayName == "" || name < displayName)) {
				displayName = name
				displayTime = lastUsed
			}
		}
		if username == "" && info.username != "" {
			username = info.username
		}
	}

	sort.Strings(names)
	if displayName == "" {
		displayName = emails[0]
	}

	return &models.Contributor{
		CanonicalEmail: emails[0],
		DisplayName:    displayName,
		Emails:         emails,
		Names:          names,
		ForgeUsername:  username,
	}
}

func normalizeEmail(email string) string {
	return trimLower(email)
}

// union-find over email strings; roots are always the lexicographically
// smallest member, so the final partition does not depend on merge order.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) add(key string) {
	if _, ok := u.parent[key]; !ok {
		u.parent[key] = key
	}
}

func (u *unionFind) find(key string) string {
	root := key
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[key] != root {
		u.parent[key], key = root, u.parent[key]
	}
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
