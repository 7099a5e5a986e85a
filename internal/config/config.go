// Package config handles application configuration via TOML files.
// Configuration is stored at ~/.config/changelog-tui/config.toml and covers
// the release source, state storage, network and logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/litescript/ls-changelog-tui/internal/release"
)

// Config holds application configuration
type Config struct {
	Releases ReleasesConfig `toml:"releases"`
	Storage  StorageConfig  `toml:"storage"`
	Network  NetworkConfig  `toml:"network"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
}

// ReleasesConfig holds the release source settings
type ReleasesConfig struct {
	URL string `toml:"url"`

	// MinVersion hides releases older than this. Empty shows everything.
	MinVersion string `toml:"min_version"`

	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StorageConfig holds persisted state settings
type StorageConfig struct {
	Path string `toml:"path"`
}

// NetworkConfig holds network availability settings
type NetworkConfig struct {
	// Offline skips the network check and treats the network as unavailable.
	Offline bool `toml:"offline"`

	// CheckURL is checked with a HEAD request at startup.
	CheckURL string `toml:"check_url"`
}

// LogConfig holds debug logging settings
type LogConfig struct {
	Debug bool   `toml:"debug"`
	File  string `toml:"file"`
}

// UIConfig holds display settings
type UIConfig struct {
	// AppVersionOverride pretends to be a different build when picking the
	// default changelog page. Mostly useful for previewing notes.
	AppVersionOverride string `toml:"app_version_override"`
}

// Default returns the default configuration
func Default() Config {
	home, _ := os.UserHomeDir()

	return Config{
		Releases: ReleasesConfig{
			URL:            release.DefaultURL,
			MinVersion:     release.MinimumVersion,
			UserAgent:      release.DefaultUserAgent,
			TimeoutSeconds: 10,
		},
		Storage: StorageConfig{
			Path: filepath.Join(home, ".local", "state", "changelog-tui", "state.db"),
		},
		Network: NetworkConfig{
			Offline:  false,
			CheckURL: "https://api.github.com",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "changelog-tui", "config.toml")
}

// Load reads config from the default path or returns defaults
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		// No config file, return defaults
		return cfg, nil
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Save writes config to path
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that would otherwise fail later at runtime
func (c Config) Validate() error {
	if c.Releases.URL == "" {
		return fmt.Errorf("releases.url must not be empty")
	}
	if _, err := c.MinVersion(); err != nil {
		return fmt.Errorf("releases.min_version: %w", err)
	}
	if c.Releases.TimeoutSeconds < 0 {
		return fmt.Errorf("releases.timeout_seconds must not be negative")
	}
	return nil
}

// MinVersion parses the release threshold. nil means no threshold.
func (c Config) MinVersion() (*semver.Version, error) {
	if c.Releases.MinVersion == "" {
		return nil, nil
	}
	return release.ParseVersion(c.Releases.MinVersion)
}

// Timeout returns the request timeout, defaulting to ten seconds
func (c Config) Timeout() time.Duration {
	if c.Releases.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Releases.TimeoutSeconds) * time.Second
}

// FetcherOptions maps the release settings onto fetcher options
func (c Config) FetcherOptions() ([]release.Option, error) {
	min, err := c.MinVersion()
	if err != nil {
		return nil, err
	}
	return []release.Option{
		release.WithURL(c.Releases.URL),
		release.WithMinimumVersion(min),
		release.WithUserAgent(c.Releases.UserAgent),
	}, nil
}
