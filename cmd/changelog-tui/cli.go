package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/litescript/ls-changelog-tui/internal/changelog"
	"github.com/litescript/ls-changelog-tui/internal/config"
	"github.com/litescript/ls-changelog-tui/internal/extension"
	"github.com/litescript/ls-changelog-tui/internal/host"
	"github.com/litescript/ls-changelog-tui/internal/logging"
	"github.com/litescript/ls-changelog-tui/internal/store"
	"github.com/litescript/ls-changelog-tui/internal/version"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version    kong.VersionFlag `help:"Show version information" short:"v"`
	Config     string           `help:"Path to config file" type:"path" env:"CHANGELOG_TUI_CONFIG"`
	Debug      bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile  string           `help:"Custom path for debug log file"`
	AppVersion string           `help:"Pick the default page as if running this version"`
	Offline    bool             `help:"Skip the network check and the release check"`
	Ephemeral  bool             `help:"Keep state in memory instead of the state database"`

	Run      RunCmd      `cmd:"" help:"Start the changelog TUI (default)" default:"1"`
	Fetch    FetchCmd    `cmd:"" help:"Check for new releases once and report the result"`
	Releases ReleasesCmd `cmd:"" help:"List cached releases"`

	cfg    config.Config   `kong:"-"`
	logger *slog.Logger    `kong:"-"`
	logOut *logging.Output `kong:"-"`
}

// AfterApply loads the config file and initializes logging
func (c *CLI) AfterApply() error {
	path := c.Config
	if path == "" {
		path = config.ConfigPath()
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}
	c.cfg = cfg

	// flags win over the config file
	opts := logging.Options{
		Debug: c.Debug || cfg.Log.Debug,
		File:  c.DebugFile,
	}
	if opts.File == "" {
		opts.File = cfg.Log.File
	}

	out, err := logging.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
		out = &logging.Output{Logger: logging.Discard()}
	}
	c.logOut = out
	c.logger = out.Logger

	return nil
}

// Close flushes and closes the debug log, if one was opened
func (c *CLI) Close() error {
	if c.logOut == nil {
		return nil
	}
	return c.logOut.Close()
}

// appVersion is the version used to pick the default changelog page
func (c *CLI) appVersion() string {
	if c.AppVersion != "" {
		return c.AppVersion
	}
	if c.cfg.UI.AppVersionOverride != "" {
		return c.cfg.UI.AppVersionOverride
	}
	return version.Version
}

func (c *CLI) offline() bool {
	return c.Offline || c.cfg.Network.Offline
}

// session is everything a command needs once the host is assembled
type session struct {
	store *store.Store
	host  *host.Host
	ext   *changelog.Extension
}

func (s *session) Close() error {
	return s.store.Close()
}

// open assembles the state store, the host and the changelog extension.
// With checkNetwork set, network availability is checked before the extension
// decides whether to look for new releases.
func (c *CLI) open(ctx context.Context, checkNetwork bool) (*session, error) {
	var backend store.Backend
	if c.Ephemeral {
		backend = store.NewMemoryBackend()
	} else {
		db, err := store.OpenSQLite(c.cfg.Storage.Path, c.logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open state database: %v\n", err)
			c.logger.Warn("falling back to in-memory state", "error", err)
			backend = store.NewMemoryBackend()
		} else {
			backend = db
		}
	}
	s := store.New(backend)

	client := host.NewHTTPClient(c.cfg.Timeout(), c.cfg.Releases.UserAgent)

	if checkNetwork && !c.offline() {
		online := host.CheckNetwork(ctx, client, c.cfg.Network.CheckURL)
		c.logger.Debug("network check finished", "url", c.cfg.Network.CheckURL, "online", online)
		s.SetNetworkConnected(online)
	}

	h := host.New(extension.API{
		Store:      s,
		HTTP:       client,
		Logger:     c.logger,
		AppVersion: c.appVersion(),
	})

	opts, err := c.cfg.FetcherOptions()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("invalid release settings: %w", err)
	}

	ext, err := changelog.Init(ctx, h, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &session{store: s, host: h, ext: ext}, nil
}
