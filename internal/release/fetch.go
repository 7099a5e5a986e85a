package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	// DefaultURL is the releases endpoint the dashlet reads from.
	DefaultURL = "https://api.github.com/repos/litescript/ls-changelog-tui/releases"

	// MinimumVersion is the oldest release worth showing. Anything before it
	// predates the changelog dashlet.
	MinimumVersion = "0.1.0"

	// DefaultUserAgent is sent with every request; GitHub rejects requests
	// without one.
	DefaultUserAgent = "changelog-tui"
)

var (
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrRateLimited matches any *RateLimitError.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotAList is returned when the payload is valid JSON but not a list.
	ErrNotAList = errors.New("payload is not a list")

	// ErrTrailingData is returned when anything follows the release list.
	ErrTrailingData = errors.New("unexpected data after release list")
)

// RateLimitError reports an exhausted API quota.
type RateLimitError struct {
	Limit int
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return ErrRateLimited.Error()
	}
	return fmt.Sprintf("%s (limit %d, resets at %s)", ErrRateLimited, e.Limit, e.Reset.Format(time.RFC3339))
}

// Is lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Doer is the network client the fetcher needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache is the persisted record sequence. The result of Get is read-only;
// Set replaces the whole sequence.
type Cache interface {
	Get() []Record
	Set(ctx context.Context, records []Record) error
}

// Fetcher retrieves releases and reconciles them into a Cache.
type Fetcher struct {
	client     Doer
	cache      Cache
	url        string
	minVersion *semver.Version
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithURL overrides the releases endpoint.
func WithURL(url string) Option {
	return func(f *Fetcher) { f.url = url }
}

// WithMinimumVersion overrides the version threshold. nil disables it.
func WithMinimumVersion(v *semver.Version) Option {
	return func(f *Fetcher) { f.minVersion = v }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher writing into cache.
func NewFetcher(client Doer, cache Cache, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     client,
		cache:      cache,
		url:        DefaultURL,
		minVersion: semver.MustParse(MinimumVersion),
		userAgent:  DefaultUserAgent,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch requests the release list and returns it filtered and sorted.
// It does not touch the cache.
func (f *Fetcher) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting releases: %w", err)
	}
	defer resp.Body.Close()

	if rlErr := rateLimited(resp); rlErr != nil {
		return nil, rlErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	// null decodes into a nil pointer rather than an error
	dec := json.NewDecoder(resp.Body)
	var payload *[]GitHubRelease
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing releases: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("parsing releases: %w", ErrNotAList)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing releases: %w", ErrTrailingData)
	}

	return Prepare(*payload, f.minVersion), nil
}

// Update fetches and replaces the cached sequence if it changed.
// It reports whether a write happened.
func (f *Fetcher) Update(ctx context.Context) (bool, error) {
	fresh, err := f.Fetch(ctx)
	if err != nil {
		return false, err
	}

	if !NeedsUpdate(f.cache.Get(), fresh) {
		f.logger.Debug("releases unchanged", "count", len(fresh))
		return false, nil
	}

	if err := f.cache.Set(ctx, fresh); err != nil {
		return false, fmt.Errorf("storing releases: %w", err)
	}

	f.logger.Info("releases updated", "count", len(fresh))
	return true, nil
}

// Run is the best-effort form of Update used at startup: failures are
// logged and dropped, never retried.
func (f *Fetcher) Run(ctx context.Context) {
	_, err := f.Update(ctx)
	if err == nil {
		return
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		f.logger.Info("release check skipped, rate limit exceeded",
			"limit", rlErr.Limit,
			"reset", rlErr.Reset,
		)
		return
	}

	f.logger.Warn("failed to retrieve list of releases", "error", err, "url", f.url)
}

// rateLimited inspects GitHub's rate limit headers. It only reports a
// limit when the response was actually refused.
func rateLimited(resp *http.Response) *RateLimitError {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining != "0" && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	rlErr := &RateLimitError{}
	if limit, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit")); err == nil {
		rlErr.Limit = limit
	}
	if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rlErr.Reset = time.Unix(reset, 0)
	} else if after, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		rlErr.Reset = time.Now().Add(time.Duration(after) * time.Second)
	}

	return rlErr
}
