// Package tui implements the terminal user interface using Bubble Tea.
// It lays out the dashlets registered with the host, routes input to the
// focused one and broadcasts state changes to all of them.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/ls-changelog-tui/internal/extension"
)

// ThemeChangedMsg is sent by the theme watcher after the palette was reloaded
type ThemeChangedMsg struct{}

// Source supplies the dashlets to mount
type Source interface {
	API() extension.API
	Dashlets() []extension.DashletSpec
}

// helper is implemented by dashlets that advertise their own key bindings
type helper interface {
	ShortHelp() []key.Binding
}

type panel struct {
	spec    extension.DashletSpec
	dashlet extension.Dashlet
}

// Model is the main application state
type Model struct {
	panels []panel
	focus  int

	keys keyMap
	help help.Model

	appVersion string
	online     bool
	statusMsg  string

	width  int
	height int
}

// NewModel creates a model with one panel per enabled dashlet
func NewModel(src Source) Model {
	api := src.API()

	h := help.New()
	h.Styles = helpStyles()

	m := Model{
		keys:       defaultKeyMap(),
		help:       h,
		appVersion: api.AppVersion,
	}
	if api.Store != nil {
		m.online = api.Store.NetworkConnected()
	}

	for _, spec := range src.Dashlets() {
		if spec.New == nil {
			continue
		}
		m.panels = append(m.panels, panel{spec: spec, dashlet: spec.New(api)})
	}

	return m
}

// Init starts every dashlet
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panels))
	for _, p := range m.panels {
		cmds = append(cmds, p.dashlet.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m, m.updateFocused(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, m.broadcast(msg)

	case ThemeChangedMsg:
		m.help.Styles = helpStyles()
		m.statusMsg = "Theme reloaded"
		return m, nil

	case extension.StateChangedMsg:
		return m, m.broadcast(msg)
	}

	return m, m.broadcast(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if len(m.panels) > 0 {
			m.focus = (m.focus + 1) % len(m.panels)
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusBack):
		if len(m.panels) > 0 {
			m.focus = (m.focus - 1 + len(m.panels)) % len(m.panels)
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.closeFocused()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// closeFocused hides the focused panel if its dashlet allows it
func (m *Model) closeFocused() {
	if m.focus >= len(m.panels) || !m.panels[m.focus].spec.Closable {
		return
	}

	title := m.panels[m.focus].spec.Title
	panels := make([]panel, 0, len(m.panels)-1)
	panels = append(panels, m.panels[:m.focus]...)
	panels = append(panels, m.panels[m.focus+1:]...)
	m.panels = panels

	if m.focus >= len(m.panels) && m.focus > 0 {
		m.focus = len(m.panels) - 1
	}
	m.statusMsg = "Closed " + title
}

func (m Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.panels) {
		return nil
	}
	var cmd tea.Cmd
	m.panels[m.focus].dashlet, cmd = m.panels[m.focus].dashlet.Update(msg)
	return cmd
}

func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.panels {
		var cmd tea.Cmd
		m.panels[i].dashlet, cmd = m.panels[i].dashlet.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// View renders the header, the dashlet grid and the status bar
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := m.renderHeader()
	status := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderPanels(m.width, bodyHeight), status)
}

func (m Model) renderHeader() string {
	styles := GetStyles()

	left := styles.Header.Render("changelog-tui")
	if m.appVersion != "" {
		left += styles.Muted.Render("v" + m.appVersion)
	}

	right := styles.Muted.Render("○ offline")
	if m.online {
		right = styles.PagerActive.Render("● online")
	}

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func (m Model) renderStatusBar() string {
	styles := GetStyles()

	keys := helpKeys{global: m.keys}
	if m.focus < len(m.panels) {
		if h, ok := m.panels[m.focus].dashlet.(helper); ok {
			keys.focused = h.ShortHelp()
		}
	}

	line := m.help.View(keys)
	if m.statusMsg != "" {
		line = styles.Text.Render(m.statusMsg) + "  " + line
	}
	return styles.StatusBar.Render(line)
}

// layoutRows packs panels left to right into rows no wider than the widest
// panel. Each row is as tall as its tallest member.
func layoutRows(panels []panel) (rows [][]int, columns int) {
	columns = 1
	for _, p := range panels {
		if p.spec.Width > columns {
			columns = p.spec.Width
		}
	}

	var row []int
	used := 0
	for i, p := range panels {
		w := max(p.spec.Width, 1)
		if used+w > columns && len(row) > 0 {
			rows = append(rows, row)
			row, used = nil, 0
		}
		row = append(row, i)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows, columns
}

func (m Model) renderPanels(width, height int) string {
	styles := GetStyles()

	if len(m.panels) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render("All dashlets are closed. Press q to quit."))
	}

	rows, columns := layoutRows(m.panels)

	units := 0
	rowUnits := make([]int, len(rows))
	for r, row := range rows {
		for _, i := range row {
			rowUnits[r] = max(rowUnits[r], m.panels[i].spec.Height, 1)
		}
		units += rowUnits[r]
	}

	rendered := make([]string, 0, len(rows))
	remaining := height
	for r, row := range rows {
		rowHeight := height * rowUnits[r] / units
		if r == len(rows)-1 {
			rowHeight = remaining
		}
		remaining -= rowHeight

		cells := make([]string, 0, len(row))
		left := width
		for c, i := range row {
			cellWidth := width * max(m.panels[i].spec.Width, 1) / columns
			if c == len(row)-1 {
				cellWidth = left
			}
			left -= cellWidth
			cells = append(cells, m.renderPanel(i, cellWidth, rowHeight))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m Model) renderPanel(i, width, height int) string {
	styles := GetStyles()
	p := m.panels[i]

	style := styles.Panel
	if i == m.focus {
		style = styles.PanelFocused
	}

	innerWidth := max(width-style.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-style.GetVerticalFrameSize(), 2)

	name := TruncateString(p.spec.Title, innerWidth)
	title := styles.PanelTitle.Render(name)
	if p.spec.Closable && i == m.focus && lipgloss.Width(name)+2 <= innerWidth {
		title = PadRight(title, innerWidth-1) + styles.Muted.Render("x")
	}

	content := p.dashlet.View(innerWidth, innerHeight-1)

	return style.
		Width(innerWidth + style.GetHorizontalPadding()).
		Height(innerHeight + style.GetVerticalPadding()).
		MaxHeight(height).
		Render(title + "\n" + content)
}
