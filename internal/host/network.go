package host

import (
	"context"
	"net/http"
	"time"

	"github.com/litescript/ls-changelog-tui/internal/extension"
)

// checkTimeout bounds the startup connectivity check
const checkTimeout = 3 * time.Second

// Client is the network client handed to extensions. It fills in the
// User-Agent header when a request does not carry one.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

var _ extension.Doer = (*Client)(nil)

// NewHTTPClient creates a client with the given timeout and User-Agent
func NewHTTPClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Do implements extension.Doer
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// CheckNetwork reports whether url answers at all. Any HTTP response,
// even an error status, counts as reachable.
func CheckNetwork(ctx context.Context, client extension.Doer, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return true
}
