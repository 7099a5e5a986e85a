package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/ls-changelog-tui/internal/theme"
)

// GetStyles returns current themed styles
func GetStyles() theme.Styles {
	return theme.Current()
}

// helpStyles maps the theme onto the bubbles help widget
func helpStyles() help.Styles {
	styles := GetStyles()

	return help.Styles{
		ShortKey:       styles.HelpKey,
		ShortDesc:      styles.HelpDesc,
		ShortSeparator: styles.Muted,
		Ellipsis:       styles.Muted,
		FullKey:        styles.HelpKey,
		FullDesc:       styles.HelpDesc,
		FullSeparator:  styles.Muted,
	}
}

// TruncateString truncates a string to max runes with ellipsis
func TruncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// PadRight pads a string to a specific display width
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
