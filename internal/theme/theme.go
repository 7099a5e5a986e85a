// Package theme provides terminal theming with automatic detection.
// It reads colors from Alacritty, Kitty and Foot terminal configurations,
// with environment variable overrides available.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the color scheme for the TUI
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // secondary info, disabled pager items
	Accent   string // active pager items, focused panel border
	AccentBg string // selection background
	Warn     string // pre-release marker
}

// DefaultPalette returns the fallback amber-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0a0a0a",
		FG:       "#d4a017",
		Muted:    "#6b6b4f",
		Accent:   "#8bc34a",
		AccentBg: "#1a1a14",
		Warn:     "#ffb347",
	}
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	Header        lipgloss.Style
	Title         lipgloss.Style
	StatusBar     lipgloss.Style
	Muted         lipgloss.Style
	Text          lipgloss.Style
	Version       lipgloss.Style
	Prerelease    lipgloss.Style
	PagerActive   lipgloss.Style
	PagerDisabled lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	Panel         lipgloss.Style
	PanelFocused  lipgloss.Style
	PanelTitle    lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Version: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Background(lipgloss.Color(p.AccentBg)).
			Bold(true).
			Padding(0, 1),

		Prerelease: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warn)),

		PagerActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)).
			Bold(true),

		PagerDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Faint(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		PanelFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Accent)).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),
	}
}

var (
	mu             sync.RWMutex
	current        Styles
	currentPalette Palette
)

func init() {
	Refresh()
}

// Current returns the active styles
func Current() Styles {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CurrentPalette returns the active palette
func CurrentPalette() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return currentPalette
}

// Refresh reloads the theme from config files
func Refresh() {
	p := Detect()
	s := NewStyles(p)

	mu.Lock()
	currentPalette = p
	current = s
	mu.Unlock()
}
