// Package search resolves a free-text query into an ordered list of
// candidate URLs using an external search backend.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/use-agent/studyhub/config"
)

// Backend names accepted by New.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderSearXNG    = "searxng"
	ProviderSerpAPI    = "serpapi"
)

const defaultTimeout = 15 * time.Second

// Resolver turns a query into at most count URLs in backend order.
// An empty result is not an error.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, query string, count int) ([]string, error)
}

// New builds the resolver selected by cfg.Provider.
func New(cfg config.SearchConfig) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderDuckDuckGo:
		return NewDuckDuckGo(cfg.DuckDuckGoURL, cfg.UserAgent, cfg.Timeout), nil
	case ProviderSearXNG:
		return NewSearXNG(cfg.SearXNGURL, cfg.UserAgent, cfg.SearXNGAPIKey, cfg.Timeout), nil
	case ProviderSerpAPI:
		if cfg.SerpAPIKey == "" {
			return nil, fmt.Errorf("search: serpapi requires SERPAPI_API_KEY")
		}
		return NewSerpAPI(cfg.SerpAPIURL, cfg.SerpAPIKey, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("search: unknown provider %q", cfg.Provider)
	}
}

// get issues one GET and returns the body of a 2xx response.
func get(ctx context.Context, client *http.Client, endpoint, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func clientFor(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
