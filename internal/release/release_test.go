package release

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func versions(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Version
	}
	return out
}

func TestParseVersion(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"plain":         {input: "1.2.3", want: "1.2.3"},
		"v prefix":      {input: "v1.2.3", want: "1.2.3"},
		"prerelease":    {input: "1.3.0-beta.2", want: "1.3.0-beta.2"},
		"surrounding ws": {input: "  v0.9.1 ", want: "0.9.1"},
		"partial":       {input: "1.2", wantErr: true},
		"words":         {input: "Release 1.2.3", wantErr: true},
		"empty":         {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestVersionName_FallsBackToTag(t *testing.T) {
	assert.Equal(t, "1.0.0", GitHubRelease{Name: "1.0.0", TagName: "v0.0.1"}.VersionName())
	assert.Equal(t, "v2.0.0", GitHubRelease{Name: "  ", TagName: "v2.0.0"}.VersionName())
}

func TestPrepare(t *testing.T) {
	min := semver.MustParse("0.5.0")

	payload := []GitHubRelease{
		{Name: "1.1.0", Body: "eleven"},
		{Name: "not-a-version", Body: "junk"},
		{Name: "0.4.9", Body: "too old"},
		{Name: "v1.0.0", Body: "one"},
		{Name: "1.2.0-beta.1", Body: "beta", Prerelease: true},
		{Name: "0.9.0", Body: "nine"},
		{Name: "1.3.0", Body: "draft", Draft: true},
		{Name: "1.0.0", Body: "duplicate"},
	}

	got := Prepare(payload, min)

	assert.Equal(t, []string{"0.9.0", "1.0.0", "1.1.0", "1.2.0-beta.1"}, versions(got))
	assert.Equal(t, "one", got[1].Text, "first occurrence of a duplicate version wins")
	assert.True(t, got[3].Prerelease)
	assert.False(t, got[0].Prerelease)
}

func TestPrepare_NilMinimumKeepsEverything(t *testing.T) {
	got := Prepare([]GitHubRelease{{Name: "0.0.1"}, {Name: "0.0.0"}}, nil)
	assert.Equal(t, []string{"0.0.0", "0.0.1"}, versions(got))
}

func TestPrepare_Empty(t *testing.T) {
	got := Prepare(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNeedsUpdate(t *testing.T) {
	a := []Record{{Version: "1.0.0"}, {Version: "1.1.0"}}

	tests := map[string]struct {
		cached []Record
		fresh  []Record
		want   bool
	}{
		"both empty":          {cached: nil, fresh: []Record{}, want: false},
		"identical":           {cached: a, fresh: []Record{{Version: "1.0.0"}, {Version: "1.1.0"}}, want: false},
		"same tail same count": {cached: a, fresh: []Record{{Version: "0.9.0", Text: "x"}, {Version: "1.1.0", Text: "y"}}, want: false},
		"different count":     {cached: a, fresh: []Record{{Version: "1.1.0"}}, want: true},
		"different tail":      {cached: a, fresh: []Record{{Version: "1.0.0"}, {Version: "1.2.0"}}, want: true},
		"empty cache":         {cached: nil, fresh: a, want: true},
		"fresh empty":         {cached: a, fresh: []Record{}, want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsUpdate(tt.cached, tt.fresh))
		})
	}
}
