package release

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultIndex returns the index of the first record whose version is at
// least appVersion, i.e. the oldest release the running build has not moved
// past. Records are expected in ascending order. When nothing qualifies, or
// appVersion is not a version at all, the result is 0.
func DefaultIndex(records []Record, appVersion string) int {
	app, err := semver.NewVersion(strings.TrimSpace(appVersion))
	if err != nil {
		return 0
	}

	for i, rec := range records {
		v, err := ParseVersion(rec.Version)
		if err != nil {
			continue
		}
		if !v.LessThan(app) {
			return i
		}
	}

	return 0
}
