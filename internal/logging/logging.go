// Package logging builds the application's slog logger. Logs go to a JSON
// file under the user's state directory and are discarded entirely unless
// debugging was asked for.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// Options controls where logs go.
type Options struct {
	Debug bool
	File  string // explicit log file; implies Debug
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Output is a configured logger and the file it writes to, if any.
type Output struct {
	Logger *slog.Logger
	Path   string

	file *os.File
}

// Close closes the log file. It is a no-op when logs are discarded.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	o.file = nil
	return err
}

// New creates the logger. The caller owns the returned Output and closes
// it on exit. CHANGELOG_TUI_DEBUG=1 and CHANGELOG_TUI_DEBUG_FILE act like
// the options.
func New(opts Options) (*Output, error) {
	if os.Getenv("CHANGELOG_TUI_DEBUG") == "1" {
		opts.Debug = true
	}
	if env := os.Getenv("CHANGELOG_TUI_DEBUG_FILE"); env != "" && opts.File == "" {
		opts.File = env
	}

	if !opts.Debug && opts.File == "" {
		return &Output{Logger: Discard()}, nil
	}

	path := opts.File
	if path == "" {
		dir, err := logDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get log directory: %w", err)
		}
		path = filepath.Join(dir, uuid.New().String()+".log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("debug logging initialized", "log_file", path)

	return &Output{Logger: logger, Path: path, file: f}, nil
}

// logDir returns the OS-specific log directory
func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "changelog-tui"), nil
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(local, "changelog-tui", "logs"), nil
	default:
		state := os.Getenv("XDG_STATE_HOME")
		if state == "" {
			state = filepath.Join(home, ".local", "state")
		}
		return filepath.Join(state, "changelog-tui", "logs"), nil
	}
}
