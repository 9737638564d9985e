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

const serpPageSize = 10

// SerpAPI resolves queries against Google through serpapi.com, paging
// ten organic results at a time until count URLs are collected.
type SerpAPI struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewSerpAPI(endpoint, apiKey string, timeout time.Duration) *SerpAPI {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "https://serpapi.com/search"
	}
	return &SerpAPI{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   clientFor(timeout),
	}
}

func (s *SerpAPI) Name() string { return ProviderSerpAPI }

type serpAPIResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Link     string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func (s *SerpAPI) Resolve(ctx context.Context, query string, count int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("serpapi: query cannot be empty")
	}

	urls := make([]string, 0, max(count, 0))
	maxPages := (count + serpPageSize - 1) / serpPageSize

	for page := range maxPages {
		params := url.Values{}
		params.Set("engine", "google")
		params.Set("q", query)
		params.Set("api_key", s.apiKey)
		params.Set("start", strconv.Itoa(page*serpPageSize))
		params.Set("num", strconv.Itoa(serpPageSize))

		body, err := get(ctx, s.client, s.endpoint+"?"+params.Encode(), "")
		if err != nil {
			return nil, fmt.Errorf("serpapi: page %d: %w", page+1, err)
		}

		var resp serpAPIResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("serpapi: decode page %d: %w", page+1, err)
		}
		if resp.Error != "" && len(resp.OrganicResults) == 0 {
			// SerpAPI reports an empty or exhausted result set as an error string.
			if page > 0 || strings.Contains(resp.Error, "hasn't returned any results") {
				break
			}
			return nil, fmt.Errorf("serpapi: %s", resp.Error)
		}

		for _, item := range resp.OrganicResults {
			if len(urls) >= count {
				break
			}
			if link := strings.TrimSpace(item.Link); link != "" {
				urls = append(urls, link)
			}
		}

		// A short page means the result set is exhausted.
		if len(resp.OrganicResults) < serpPageSize || len(urls) >= count {
			break
		}
	}

	return urls, nil
}
