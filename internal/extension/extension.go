// Package extension defines the contract between the host application and
// the extensions it mounts. An extension receives a Context at startup,
// registers what it provides, and gets its collaborators through API.
package extension

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/ls-changelog-tui/internal/release"
	"github.com/litescript/ls-changelog-tui/internal/store"
)

// Doer is the host's network client. It is the fetcher's client contract,
// so whatever the host hands out can be given to a release.Fetcher as is.
type Doer = release.Doer

// API is what the host hands to extensions.
type API struct {
	Store      *store.Store
	HTTP       Doer
	Logger     *slog.Logger
	AppVersion string
}

// Dashlet is a widget drawn inside a host panel.
type Dashlet interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Dashlet, tea.Cmd)
	View(width, height int) string
}

// DashletSpec describes a dashlet to the host.
type DashletSpec struct {
	Title string

	// Width and Height are in layout grid units; Position orders dashlets,
	// lowest first.
	Width    int
	Height   int
	Position int
	Closable bool

	// Enabled decides whether the dashlet is shown at all. nil means always.
	Enabled func(s *store.Store) bool

	// New builds the dashlet once the host is ready to draw it.
	New func(api API) Dashlet
}

// Context is what an extension's Init receives.
type Context interface {
	RegisterDashlet(spec DashletSpec)
	Once(fn func(api API))
	API() API
}

// StateChangedMsg is delivered to every dashlet after a persisted slice is
// replaced.
type StateChangedMsg struct {
	Path     string
	Revision uint64
}
