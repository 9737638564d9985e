package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/studyhub/config"
)

const ddgPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example/click">Ad</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FPhotosynthesis&amp;rut=abc">Photosynthesis</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://www.khanacademy.org/science/photosynthesis">Khan</a>
</div>
<div class="result results_links">
  <a class="result__a" href="javascript:void(0)">Broken</a>
</div>
<div class="result results_links">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fbiology.example%2Fplants">Plants</a>
</div>
</body></html>`

func TestDuckDuckGoResolve(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, ddgPage)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL+"/html/", "test-agent", time.Second)

	tests := []struct {
		count int
		want  []string
	}{
		{count: 10, want: []string{
			"https://en.wikipedia.org/wiki/Photosynthesis",
			"https://www.khanacademy.org/science/photosynthesis",
			"https://biology.example/plants",
		}},
		{count: 2, want: []string{
			"https://en.wikipedia.org/wiki/Photosynthesis",
			"https://www.khanacademy.org/science/photosynthesis",
		}},
		{count: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("count=%d", tt.count), func(t *testing.T) {
			got, err := d.Resolve(context.Background(), "learn photosynthesis", tt.count)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if gotQuery != "learn photosynthesis" {
		t.Errorf("q = %q", gotQuery)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestDuckDuckGoNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="no-results">No results.</div></body></html>`)
	}))
	defer srv.Close()

	got, err := NewDuckDuckGo(srv.URL, "", time.Second).Resolve(context.Background(), "zzzz", 5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestDuckDuckGoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewDuckDuckGo(srv.URL, "", time.Second).Resolve(context.Background(), "x", 5)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v, want status 403 error", err)
	}
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.example%2Fx%3Fy%3D1&rut=z", "https://a.example/x?y=1"},
		{"https://duckduckgo.com/l/?uddg=http%3A%2F%2Fb.example", "http://b.example"},
		{"https://c.example/page", "https://c.example/page"},
		{"//duckduckgo.com/l/?rut=only", ""},
		{"/relative", ""},
		{"mailto:a@b.c", ""},
	}
	for _, tt := range tests {
		if got := unwrapRedirect(tt.href); got != tt.want {
			t.Errorf("unwrapRedirect(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestSearXNGResolve(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":"q","results":[{"url":"https://a.example"},{"url":" "},{"url":"https://b.example"},{"url":"https://c.example"}]}`)
	}))
	defer srv.Close()

	p := NewSearXNG(srv.URL+"/", "", "secret", time.Second)
	urls, err := p.Resolve(context.Background(), "learn go", 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
	if got.Get("format") != "json" || got.Get("q") != "learn go" || got.Get("apikey") != "secret" {
		t.Errorf("unexpected query params: %v", got)
	}
}

func TestSearXNGDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	if _, err := NewSearXNG(srv.URL, "", "", time.Second).Resolve(context.Background(), "x", 3); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSerpAPIPaginates(t *testing.T) {
	var starts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "k" || q.Get("engine") != "google" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		start := q.Get("start")
		starts = append(starts, start)

		var b strings.Builder
		b.WriteString(`{"organic_results":[`)
		n := 10
		if start == "10" {
			n = 3
		}
		for i := range n {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"position":%d,"link":"https://r.example/%s/%d"}`, i+1, start, i)
		}
		b.WriteString(`]}`)
		fmt.Fprint(w, b.String())
	}))
	defer srv.Close()

	s := NewSerpAPI(srv.URL, "k", time.Second)
	urls, err := s.Resolve(context.Background(), "learn go", 25)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(urls) != 13 {
		t.Errorf("len(urls) = %d, want 13", len(urls))
	}
	if !reflect.DeepEqual(starts, []string{"0", "10"}) {
		t.Errorf("starts = %v, want [0 10]", starts)
	}
	if urls[0] != "https://r.example/0/0" || urls[12] != "https://r.example/10/2" {
		t.Errorf("unexpected order: first=%s last=%s", urls[0], urls[12])
	}
}

func TestSerpAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid API key."}`, true},
		{"api error", http.StatusOK, `{"error":"Your account has run out of searches."}`, true},
		{"no results", http.StatusOK, `{"error":"Google hasn't returned any results for this query."}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			urls, err := NewSerpAPI(srv.URL, "k", time.Second).Resolve(context.Background(), "x", 5)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(urls) != 0 {
				t.Errorf("urls = %v, want empty", urls)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		key      string
		want     string
		wantErr  bool
	}{
		{provider: "", want: ProviderDuckDuckGo},
		{provider: "DuckDuckGo", want: ProviderDuckDuckGo},
		{provider: "searxng", want: ProviderSearXNG},
		{provider: "serpapi", key: "k", want: ProviderSerpAPI},
		{provider: "serpapi", wantErr: true},
		{provider: "bing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			r, err := New(config.SearchConfig{Provider: tt.provider, SerpAPIKey: tt.key})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if r.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.want)
			}
		})
	}
}
