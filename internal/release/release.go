// Package release fetches version releases from a GitHub-style releases API,
// reduces them to changelog records and decides which record a running
// application should show first.
package release

import (
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Record is a single changelog entry as persisted in the state store.
type Record struct {
	Version    string `json:"version"`
	Text       string `json:"text"`
	Prerelease bool   `json:"prerelease"`
}

// GitHubRelease represents one element of the GitHub releases API response.
type GitHubRelease struct {
	Name        string    `json:"name"`
	TagName     string    `json:"tag_name"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// VersionName returns the string the release is versioned by.
// The release name wins; the tag is used when the name is blank.
func (r GitHubRelease) VersionName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.TagName)
}

// ParseVersion parses a strict major.minor.patch version, tolerating a
// leading "v".
func ParseVersion(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return semver.StrictNewVersion(s)
}

type candidate struct {
	version *semver.Version
	release GitHubRelease
}

// Prepare turns a raw release listing into the ascending, duplicate-free
// record sequence that gets cached. Drafts, unparsable versions and
// versions below min are dropped. A nil min keeps everything.
func Prepare(releases []GitHubRelease, min *semver.Version) []Record {
	candidates := make([]candidate, 0, len(releases))
	for _, rel := range releases {
		if rel.Draft {
			continue
		}
		v, err := ParseVersion(rel.VersionName())
		if err != nil {
			continue
		}
		if min != nil && v.LessThan(min) {
			continue
		}
		candidates = append(candidates, candidate{version: v, release: rel})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].version.LessThan(candidates[j].version)
	})

	records := make([]Record, 0, len(candidates))
	var prev *semver.Version
	for _, c := range candidates {
		if prev != nil && c.version.Equal(prev) {
			continue
		}
		prev = c.version
		records = append(records, Record{
			Version:    c.version.String(),
			Text:       c.release.Body,
			Prerelease: c.release.Prerelease,
		})
	}

	return records
}

// NeedsUpdate reports whether fresh differs from cached enough to be worth
// a write: a different count or a different newest version.
func NeedsUpdate(cached, fresh []Record) bool {
	if len(cached) != len(fresh) {
		return true
	}
	if len(fresh) == 0 {
		return false
	}
	return cached[len(cached)-1].Version != fresh[len(fresh)-1].Version
}
