package search

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo scrapes the JavaScript-free DuckDuckGo results page.
// It needs no API key and returns only the first results page.
type DuckDuckGo struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func NewDuckDuckGo(endpoint, userAgent string, timeout time.Duration) *DuckDuckGo {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = "https://html.duckduckgo.com/html/"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "Mozilla/5.0"
	}
	return &DuckDuckGo{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    clientFor(timeout),
	}
}

func (d *DuckDuckGo) Name() string { return ProviderDuckDuckGo }

func (d *DuckDuckGo) Resolve(ctx context.Context, query string, count int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("duckduckgo: query cannot be empty")
	}
	if count <= 0 {
		return []string{}, nil
	}

	endpoint, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: invalid endpoint: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()

	body, err := get(ctx, d.client, endpoint.String(), d.userAgent)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse results: %w", err)
	}

	urls := make([]string, 0, count)
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		href, ok := s.Find("a.result__a").First().Attr("href")
		if !ok {
			return true
		}
		if link := unwrapRedirect(href); link != "" {
			urls = append(urls, link)
		}
		return len(urls) < count
	})
	return urls, nil
}

// unwrapRedirect turns a "//duckduckgo.com/l/?uddg=<target>" link into its
// target. Direct http(s) links pass through; anything else yields "".
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		target := u.Query().Get("uddg")
		if target == "" {
			return ""
		}
		u, err = url.Parse(target)
		if err != nil {
			return ""
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
