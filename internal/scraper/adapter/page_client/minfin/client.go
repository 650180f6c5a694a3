package minfin

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"bankrates/deploy/config"
	"bankrates/internal/entities"
)

const acceptLanguage = "en-US,en;q=0.9,uk;q=0.8,ru;q=0.7"

// userAgents is a fixed identity pool sampled uniformly per attempt to
// defend against simplistic request blocking.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:95.0) Gecko/20100101 Firefox/95.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/94.0.4606.81 Safari/537.36",
}

// Client fetches bank rate pages from minfin.com.ua. Every call hits the
// network, there is no caching layer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Scraper.Timeout},
		baseURL:    cfg.Scraper.BaseURL,
		maxRetries: cfg.Scraper.MaxRetries,
		retryDelay: cfg.Scraper.RetryDelay,
	}
}

// FetchPage GETs the page for a city/currency pair, retrying with a fixed
// delay up to the configured attempt budget. On exhaustion it fails with
// entities.ErrPageUnavailable; it never returns partial content.
func (c *Client) FetchPage(ctx context.Context, city, currency string) (string, error) {
	const op = "minfin.FetchPage"

	url := c.baseURL + city + "/" + currency + "/"

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err
		slog.Warn("rates page request failed",
			"url", url, "attempt", attempt, "max_retries", c.maxRetries, "error", err)

		if attempt == c.maxRetries {
			break
		}

		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), op)
		}
	}

	return "", errors.Wrapf(entities.ErrPageUnavailable,
		"%s: %d attempts, last error: %v", op, c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}

	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "get page")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}

	return string(body), nil
}
