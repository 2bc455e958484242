package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Config holds page fetcher configuration.
type Config struct {
	Timeout           time.Duration
	MaxAttempts       int
	Delay             time.Duration
	RequestsPerSecond float64
	UserAgent         string
}

// Client retrieves page content with bounded retry.
// A single Client is shared by all concurrent callers.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	delay       time.Duration
	userAgent   string
	logger      *slog.Logger
}

// errGone marks responses that will not change on retry.
var errGone = errors.New("page not available")

func New(cfg Config, logger *slog.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxAttempts: cfg.MaxAttempts,
		delay:       cfg.Delay,
		userAgent:   cfg.UserAgent,
		logger:      logger.With("component", "fetcher"),
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Get returns the decoded body of url. The boolean is false when every
// attempt failed or the server answered with a client error; callers treat
// that as "no content" rather than as a failure.
func (c *Client) Get(ctx context.Context, url string) (string, bool) {
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		var body string
		body, err = c.doRequest(ctx, url)
		if err == nil {
			return body, true
		}

		if errors.Is(err, errGone) || ctx.Err() != nil {
			break
		}

		if attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("request failed, retrying",
			"url", url,
			"attempt", attempt,
			"delay", c.delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", false
		case <-time.After(c.delay):
		}
	}

	c.logger.Warn("no content", "url", url, "error", err)
	return "", false
}

func (c *Client) doRequest(ctx context.Context, url string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w: %w", errGone, err)
	}

	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return "", fmt.Errorf("%w: status %d", errGone, resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}
