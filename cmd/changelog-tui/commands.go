package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/ls-changelog-tui/internal/changelog"
	"github.com/litescript/ls-changelog-tui/internal/extension"
	"github.com/litescript/ls-changelog-tui/internal/release"
	"github.com/litescript/ls-changelog-tui/internal/theme"
	"github.com/litescript/ls-changelog-tui/internal/tui"
)

// RunCmd starts the TUI application
type RunCmd struct{}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	ctx := context.Background()

	sess, err := cli.open(ctx, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	p := tea.NewProgram(tui.NewModel(sess.host), tea.WithAltScreen(), tea.WithMouseCellMotion())

	sess.store.Subscribe(func(path string, revision uint64) {
		p.Send(extension.StateChangedMsg{Path: path, Revision: revision})
	})

	themeWatcher, err := theme.NewDefaultWatcher(func() {
		p.Send(tui.ThemeChangedMsg{})
	})
	if err != nil {
		cli.logger.Warn("theme watcher unavailable", "error", err)
	} else {
		defer themeWatcher.Stop()
	}

	sess.host.RunOnce()

	cli.logger.Info("starting TUI program")
	if _, err := p.Run(); err != nil {
		cli.logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	cli.logger.Info("TUI program exited normally")
	return nil
}

// FetchCmd checks for new releases once, outside the TUI
type FetchCmd struct{}

// Run executes the fetch
func (f *FetchCmd) Run(cli *CLI) error {
	if cli.offline() {
		return fmt.Errorf("offline mode is enabled, not checking for releases")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := cli.open(ctx, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	changed, err := sess.ext.Fetcher.Update(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve list of releases: %w", err)
	}

	count := len(sess.ext.Releases.Get())
	if changed {
		fmt.Printf("Release list updated (%d releases)\n", count)
	} else {
		fmt.Printf("Release list unchanged (%d releases)\n", count)
	}
	return nil
}

// ReleasesCmd lists the cached releases
type ReleasesCmd struct {
	Notes bool `help:"Print release notes under each version" short:"n"`
}

// Run executes the listing
func (r *ReleasesCmd) Run(cli *CLI) error {
	sess, err := cli.open(context.Background(), false)
	if err != nil {
		return err
	}
	defer sess.Close()

	records := sess.ext.Releases.Get()
	if len(records) == 0 {
		fmt.Println("No cached releases. Run 'changelog-tui fetch' to check now.")
		return nil
	}

	fmt.Print(formatReleases(records, cli.appVersion(), r.Notes))
	return nil
}

// formatReleases lists records oldest first, marking the page the TUI
// would open on with '>'
func formatReleases(records []release.Record, appVersion string, notes bool) string {
	def := release.DefaultIndex(records, appVersion)

	var b strings.Builder
	for i, rec := range records {
		marker := " "
		if i == def {
			marker = ">"
		}

		line := marker + " " + rec.Version
		if rec.Prerelease {
			line += " (pre-release)"
		}
		b.WriteString(line + "\n")

		if !notes {
			continue
		}
		text := changelog.PlainText(rec.Text)
		if text == "" {
			continue
		}
		for _, l := range strings.Split(text, "\n") {
			b.WriteString("    " + l + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
