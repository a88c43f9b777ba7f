package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Public-sector pages can be slow; the navigation timeout mirrors the
	// 90s budget the scraper has always run with.
	DefaultTimeout = 90 * time.Second

	userAgent   = "ssa-disability-app/1.0 (+https://github.com/jakehanson/ssa-disability-app)"
	maxBodySize = 8 << 20
)

// HTTPFetcher retrieves pages over plain HTTP with an optional token-bucket
// floor between requests, to stay polite toward the public SSA site.
type HTTPFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewHTTPFetcher(timeout time.Duration, requestsPerSecond float64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s status: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s body: %w", url, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", fmt.Errorf("fetch %s returned empty body", url)
	}
	return string(body), nil
}
