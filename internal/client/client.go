package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dm/halla-watch/internal/model"
)

// DefaultBaseURL is the public Hallasan reservation site.
const DefaultBaseURL = "https://visithalla.jeju.go.kr"

// ReservationClient checks the reservation status of a single slot.
type ReservationClient interface {
	CheckAvailability(ctx context.Context, courseSeq, visitDt, visitTm string) (*model.Availability, error)
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

// DefaultClient implements ReservationClient using the standard net/http package.
type DefaultClient struct {
	http   *http.Client
	config ClientConfig
}

// NewDefaultClient constructs a DefaultClient from the given config.
// An empty BaseURL falls back to DefaultBaseURL; a non-http(s) one is rejected.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: host is required", cfg.BaseURL)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	return &DefaultClient{
		http: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		config: cfg,
	}, nil
}

// BaseURL returns the configured base URL of the reservation site.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// doPostForm posts form to path (relative to BaseURL) and returns the body.
// Transport failures and non-2xx statuses are reported as *FetchError.
func (c *DefaultClient) doPostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	target := strings.TrimRight(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	const maxResponseBytes = 1 << 20
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
