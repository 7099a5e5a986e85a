package changelog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/ls-changelog-tui/internal/extension"
	"github.com/litescript/ls-changelog-tui/internal/release"
	"github.com/litescript/ls-changelog-tui/internal/theme"
)

// Source is the cached release sequence the dashlet reads.
type Source interface {
	Get() []release.Record
	Revision() uint64
}

// Dashlet pages through cached release notes, one release per page.
type Dashlet struct {
	source     Source
	appVersion string
	keys       keyMap
	viewport   viewport.Model

	current  int
	revision uint64

	// what the viewport currently holds
	loaded      int
	loadedWidth int
}

var _ extension.Dashlet = (*Dashlet)(nil)

// NewDashlet starts on the first release the running version has not
// moved past.
func NewDashlet(source Source, appVersion string) *Dashlet {
	d := &Dashlet{
		source:     source,
		appVersion: appVersion,
		keys:       defaultKeyMap(),
		viewport:   viewport.New(0, 0),
		loaded:     -1,
	}
	d.revision = source.Revision()
	d.current = release.DefaultIndex(source.Get(), appVersion)
	return d
}

// Current returns the index of the release being shown.
func (d *Dashlet) Current() int {
	return d.current
}

// Next moves to the next newer release, stopping at the last one.
func (d *Dashlet) Next() {
	d.current = clamp(d.current+1, len(d.source.Get()))
}

// Prev moves to the previous older release, stopping at the first one.
func (d *Dashlet) Prev() {
	d.current = clamp(d.current-1, len(d.source.Get()))
}

func clamp(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// refresh re-derives the default page when the cached sequence has been
// replaced since we last looked.
func (d *Dashlet) refresh() {
	rev := d.source.Revision()
	if rev == d.revision {
		return
	}
	d.revision = rev
	d.current = release.DefaultIndex(d.source.Get(), d.appVersion)
	d.loaded = -1
}

// Init implements extension.Dashlet
func (d *Dashlet) Init() tea.Cmd {
	return nil
}

// Update implements extension.Dashlet
func (d *Dashlet) Update(msg tea.Msg) (extension.Dashlet, tea.Cmd) {
	d.refresh()

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Prev):
			d.Prev()
		case key.Matches(msg, d.keys.Next):
			d.Next()
		case key.Matches(msg, d.keys.Up), key.Matches(msg, d.keys.Down):
			d.viewport, cmd = d.viewport.Update(msg)
		}
	case tea.MouseMsg:
		d.viewport, cmd = d.viewport.Update(msg)
	}

	return d, cmd
}

// ShortHelp lists the dashlet's key bindings for the host's help line.
func (d *Dashlet) ShortHelp() []key.Binding {
	return d.keys.ShortHelp()
}

// View implements extension.Dashlet. It is empty when there is nothing to show.
func (d *Dashlet) View(width, height int) string {
	records := d.source.Get()
	if d.current >= len(records) {
		return ""
	}
	rec := records[d.current]

	pager := d.renderPager(rec, len(records), width)

	bodyHeight := height - lipgloss.Height(pager) - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	d.viewport.Width = width
	d.viewport.Height = bodyHeight

	if d.loaded != d.current || d.loadedWidth != width {
		d.viewport.SetContent(renderNotes(rec.Text, width))
		d.viewport.GotoTop()
		d.loaded = d.current
		d.loadedWidth = width
	}

	return pager + "\n\n" + d.viewport.View()
}

func (d *Dashlet) renderPager(rec release.Record, total, width int) string {
	styles := theme.Current()

	prev := styles.PagerActive.Render("‹ Previous")
	if d.current == 0 {
		prev = styles.PagerDisabled.Render("‹ Previous")
	}
	next := styles.PagerActive.Render("Next ›")
	if d.current == total-1 {
		next = styles.PagerDisabled.Render("Next ›")
	}

	title := styles.Version.Render(rec.Version)
	if rec.Prerelease {
		title += " " + styles.Prerelease.Render("(Pre-release)")
	}
	title += " " + styles.Muted.Render(fmt.Sprintf("%d/%d", d.current+1, total))

	middle := width - lipgloss.Width(prev) - lipgloss.Width(next)
	if middle < lipgloss.Width(title) {
		return title + "\n" + prev + "  " + next
	}
	return prev + lipgloss.PlaceHorizontal(middle, lipgloss.Center, title) + next
}

func renderNotes(body string, width int) string {
	styles := theme.Current()

	text := PlainText(body)
	if text == "" {
		return styles.Muted.Render("No release notes.")
	}

	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	return styles.Text.Render(strings.TrimRight(text, " \n"))
}
