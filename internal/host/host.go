// Package host implements the extension contract: it collects what
// extensions register and runs their startup callbacks.
package host

import (
	"sort"
	"sync"

	"github.com/litescript/ls-changelog-tui/internal/extension"
)

// Host implements extension.Context
type Host struct {
	api extension.API

	mu       sync.Mutex
	dashlets []extension.DashletSpec
	pending  []func(extension.API)
}

var _ extension.Context = (*Host)(nil)

// New creates a host handing api to its extensions.
func New(api extension.API) *Host {
	return &Host{api: api}
}

// API implements extension.Context
func (h *Host) API() extension.API {
	return h.api
}

// RegisterDashlet implements extension.Context
func (h *Host) RegisterDashlet(spec extension.DashletSpec) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dashlets = append(h.dashlets, spec)
	sort.SliceStable(h.dashlets, func(i, j int) bool {
		return h.dashlets[i].Position < h.dashlets[j].Position
	})
}

// Once implements extension.Context. fn runs on the next RunOnce.
func (h *Host) Once(fn func(api extension.API)) {
	h.mu.Lock()
	h.pending = append(h.pending, fn)
	h.mu.Unlock()
}

// RunOnce runs every callback queued with Once that has not run yet.
func (h *Host) RunOnce() {
	h.mu.Lock()
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, fn := range pending {
		fn(h.api)
	}
}

// Dashlets returns the registered dashlets whose predicate allows them,
// in layout order.
func (h *Host) Dashlets() []extension.DashletSpec {
	h.mu.Lock()
	defer h.mu.Unlock()

	var enabled []extension.DashletSpec
	for _, spec := range h.dashlets {
		if spec.Enabled == nil || spec.Enabled(h.api.Store) {
			enabled = append(enabled, spec)
		}
	}
	return enabled
}
