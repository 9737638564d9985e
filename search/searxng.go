package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearXNG queries a SearXNG instance through its JSON API.
type SearXNG struct {
	baseURL   string
	userAgent string
	apiKey    string
	client    *http.Client
}

func NewSearXNG(baseURL, userAgent, apiKey string, timeout time.Duration) *SearXNG {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "http://localhost:8888"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "Mozilla/5.0"
	}
	return &SearXNG{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		apiKey:    strings.TrimSpace(apiKey),
		client:    clientFor(timeout),
	}
}

func (p *SearXNG) Name() string { return ProviderSearXNG }

type searxngResponse struct {
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}

func (p *SearXNG) Resolve(ctx context.Context, query string, count int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("searxng: query cannot be empty")
	}
	if count <= 0 {
		return []string{}, nil
	}

	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("searxng: invalid base url: %w", err)
	}
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/search"

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("categories", "general")
	params.Set("language", "auto")
	params.Set("safesearch", "1")
	params.Set("count", strconv.Itoa(count))
	if p.apiKey != "" {
		params.Set("apikey", p.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	body, err := get(ctx, p.client, endpoint.String(), p.userAgent)
	if err != nil {
		return nil, fmt.Errorf("searxng: %w", err)
	}

	var payload searxngResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("searxng: decode response: %w", err)
	}

	urls := make([]string, 0, count)
	for _, res := range payload.Results {
		if len(urls) >= count {
			break
		}
		if link := strings.TrimSpace(res.URL); link != "" {
			urls = append(urls, link)
		}
	}
	return urls, nil
}
