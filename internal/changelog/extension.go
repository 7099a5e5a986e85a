// Package changelog is the changelog extension: a dashlet that pages through
// release notes, backed by a persisted list that is refreshed from the
// releases API once per session.
package changelog

import (
	"context"
	"fmt"

	"github.com/litescript/ls-changelog-tui/internal/extension"
	"github.com/litescript/ls-changelog-tui/internal/release"
	"github.com/litescript/ls-changelog-tui/internal/store"
)

// StatePath is where the release list lives in the host's state store.
var StatePath = []string{"persistent", "changelogs"}

// Extension is what Init wires up.
type Extension struct {
	Releases *store.Slice[[]release.Record]
	Fetcher  *release.Fetcher
}

// Init registers the changelog dashlet and its persisted state with host,
// and schedules the startup release check. opts configure the fetcher.
func Init(ctx context.Context, host extension.Context, opts ...release.Option) (*Extension, error) {
	api := host.API()

	releases, err := store.Register(ctx, api.Store, StatePath, []release.Record{})
	if err != nil {
		return nil, fmt.Errorf("registering changelog state: %w", err)
	}

	opts = append([]release.Option{release.WithLogger(api.Logger)}, opts...)
	ext := &Extension{
		Releases: releases,
		Fetcher:  release.NewFetcher(api.HTTP, releases, opts...),
	}

	host.RegisterDashlet(extension.DashletSpec{
		Title:    "Changelog",
		Width:    1,
		Height:   3,
		Position: 200,
		Closable: true,
		Enabled:  func(*store.Store) bool { return true },
		New: func(api extension.API) extension.Dashlet {
			return NewDashlet(releases, api.AppVersion)
		},
	})

	host.Once(func(api extension.API) {
		if !api.Store.NetworkConnected() {
			api.Logger.Debug("skipping release check, network unavailable")
			return
		}
		go ext.Fetcher.Run(context.Background())
	})

	return ext, nil
}
