package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseSize = 10 << 20 // 10 MB

const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetries    = 2
	DefaultRetryDelay = time.Second
)

// IndexFile is the registry index path relative to the registry URL.
const IndexFile = "index.json"

// Logger receives retry warnings.
type Logger interface {
	Warning(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warning(string, ...any) {}

// HTTPError is returned for non-success registry responses.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// Option configures a Client.
type Option func(*Client)

// Client fetches the index and component sources from a registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	index      *Cache[*Index]
	files      *Cache[[]byte]
	log        Logger
}

// NewClient creates a new registry client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
		index:      NewCache[*Index](DefaultCacheTTL),
		files:      NewCache[[]byte](DefaultCacheTTL),
		log:        nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL sets the registry URL that index and file paths are appended to.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a failed request is retried and the fixed delay between attempts.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.retryDelay = delay
	}
}

// WithCacheTTL sets how long fetched index and files are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.index = NewCache[*Index](ttl)
		c.files = NewCache[[]byte](ttl)
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// BaseURL returns the registry URL the client reads from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) fileURL(filePath string) string {
	return c.baseURL + "/" + strings.TrimLeft(filePath, "/")
}

// FetchIndex fetches, parses and validates index.json.
func (c *Client) FetchIndex(ctx context.Context) (*Index, error) {
	if cached, ok := c.index.Get(IndexFile); ok {
		return cached, nil
	}

	data, err := c.get(ctx, c.fileURL(IndexFile))
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if err := ValidateIndex(&idx); err != nil {
		return nil, err
	}

	c.index.Set(IndexFile, &idx)
	return &idx, nil
}

// FetchFile downloads a single component source file by its registry path.
func (c *Client) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if cached, ok := c.files.Get(path); ok {
		return cached, nil
	}

	data, err := c.get(ctx, c.fileURL(path))
	if err != nil {
		return nil, err
	}

	c.files.Set(path, data)
	return data, nil
}

// get performs a GET with a per-attempt timeout, retrying failures with a fixed delay.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	attempts := c.retries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := c.getOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		// The caller gave up; retrying will not help.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == attempts {
			break
		}

		c.log.Warning("Request failed (%v). Retrying in %s... (%d/%d)", err, c.retryDelay, attempt, c.retries)

		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, attempts, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("request timeout after %s", c.timeout)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	ct := resp.Header.Get("Content-Type")
	if strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("received HTML response from %s; check the registry URL", url)
	}

	return data, nil
}
