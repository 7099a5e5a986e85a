package changelog

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/ls-changelog-tui/internal/extension"
	"github.com/litescript/ls-changelog-tui/internal/release"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records []release.Record
	rev     uint64
}

func (f *fakeSource) Get() []release.Record { return f.records }
func (f *fakeSource) Revision() uint64     { return f.rev }

func (f *fakeSource) replace(records []release.Record) {
	f.records = records
	f.rev++
}

func sampleRecords() []release.Record {
	return []release.Record{
		{Version: "0.9.0", Text: "Nine"},
		{Version: "1.0.0", Text: "Ten"},
		{Version: "1.1.0", Text: "Eleven", Prerelease: true},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewDashlet_StartsAtFirstUnseenRelease(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "1.0.0")
	assert.Equal(t, 1, d.Current())
}

func TestNewDashlet_ClampsToFirstWhenAllSeen(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "5.0.0")
	assert.Equal(t, 0, d.Current())
}

func TestNextPrev_Clamp(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "0.1.0")

	d.Prev()
	assert.Equal(t, 0, d.Current())

	d.Next()
	d.Next()
	assert.Equal(t, 2, d.Current())

	d.Next()
	assert.Equal(t, 2, d.Current())

	d.Prev()
	assert.Equal(t, 1, d.Current())
}

func TestNextPrev_NeverLeaveBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 1; n <= 6; n++ {
		records := make([]release.Record, n)
		for i := range records {
			records[i] = release.Record{Version: "1.0." + string(rune('0'+i))}
		}
		d := NewDashlet(&fakeSource{records: records, rev: 1}, "1.0.0")

		for step := 0; step < 200; step++ {
			if rng.Intn(2) == 0 {
				d.Next()
			} else {
				d.Prev()
			}
			require.GreaterOrEqual(t, d.Current(), 0)
			require.LessOrEqual(t, d.Current(), n-1)
		}
	}
}

func TestEmptySource(t *testing.T) {
	d := NewDashlet(&fakeSource{}, "1.0.0")

	d.Next()
	d.Prev()

	assert.Equal(t, 0, d.Current())
	assert.Equal(t, "", d.View(80, 20))
}

func TestUpdate_RecomputesWhenListReplaced(t *testing.T) {
	src := &fakeSource{}
	d := NewDashlet(src, "1.0.0")
	require.Equal(t, "", d.View(80, 20))

	src.replace(sampleRecords())
	_, _ = d.Update(extension.StateChangedMsg{Path: "persistent.changelogs", Revision: src.rev})

	assert.Equal(t, 1, d.Current())
	assert.Contains(t, d.View(80, 20), "1.0.0")
}

func TestUpdate_KeepsPageWhenListUnchanged(t *testing.T) {
	src := &fakeSource{records: sampleRecords(), rev: 3}
	d := NewDashlet(src, "1.0.0")

	d.Next()
	_, _ = d.Update(extension.StateChangedMsg{Path: "persistent.other", Revision: 9})

	assert.Equal(t, 2, d.Current())
}

func TestUpdate_ResetsPageOnNewRevision(t *testing.T) {
	src := &fakeSource{records: sampleRecords(), rev: 1}
	d := NewDashlet(src, "1.0.0")
	d.Prev()
	require.Equal(t, 0, d.Current())

	src.replace(append(sampleRecords(), release.Record{Version: "1.2.0"}))
	_, _ = d.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Equal(t, 1, d.Current())
}

func TestUpdate_KeyBindings(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "0.0.1")

	_, _ = d.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, d.Current())

	_, _ = d.Update(keyRunes("n"))
	assert.Equal(t, 2, d.Current())

	_, _ = d.Update(keyRunes("p"))
	assert.Equal(t, 1, d.Current())

	_, _ = d.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, d.Current())

	_, _ = d.Update(keyRunes("z"))
	assert.Equal(t, 0, d.Current())
}

func TestView_ShowsVersionAndNotes(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "1.1.0")

	out := d.View(80, 20)

	assert.Contains(t, out, "1.1.0")
	assert.Contains(t, out, "(Pre-release)")
	assert.Contains(t, out, "Eleven")
	assert.Contains(t, out, "3/3")
}

func TestView_NoNotes(t *testing.T) {
	d := NewDashlet(&fakeSource{records: []release.Record{{Version: "1.0.0"}}, rev: 1}, "1.0.0")

	out := d.View(60, 10)

	assert.Contains(t, out, "No release notes.")
	assert.False(t, strings.Contains(out, "Pre-release"))
}

func TestView_TracksPageChanges(t *testing.T) {
	d := NewDashlet(&fakeSource{records: sampleRecords(), rev: 1}, "0.9.0")
	assert.Contains(t, d.View(80, 20), "Nine")

	d.Next()
	assert.Contains(t, d.View(80, 20), "Ten")
}
