package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/account"
	"github.com/use-agent/studyhub/config"
	"github.com/use-agent/studyhub/docextract"
	"github.com/use-agent/studyhub/models"
)

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, models.SearchQuery) ([]models.ResultRecord, error) {
	return []models.ResultRecord{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Search: config.SearchConfig{DefaultResults: 10, MaxResults: 50},
		Upload: config.UploadConfig{MaxBytes: 1 << 20},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func do(r http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterOpenAccess(t *testing.T) {
	r := NewRouter(Deps{
		Searcher:       stubSearcher{},
		SearchProvider: "duckduckgo",
		Extractor:      docextract.New(),
	}, testConfig(), time.Now())

	if w := do(r, http.MethodGet, "/health", "", ""); w.Code != 200 {
		t.Errorf("health = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/search?query=go", "", ""); w.Code != 200 || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("search = %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/quiz/generate", "", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("quiz without llm = %d, want 503", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/register", "", `{"username":"ada","password":"lovelace1"}`); w.Code != http.StatusNotFound {
		t.Errorf("register without accounts = %d, want 404", w.Code)
	}
	if w := do(r, http.MethodGet, "/search?query=go", "", ""); w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouterAuthRequired(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{JWTSecret: "s3cret", TokenTTL: time.Hour, Required: true}
	svc := account.NewService(account.NewMemoryStore(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	r := NewRouter(Deps{
		Searcher:  stubSearcher{},
		Extractor: docextract.New(),
		Accounts:  svc,
		Tokens:    svc,
	}, cfg, time.Now())

	if w := do(r, http.MethodGet, "/search?query=go", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated search = %d, want 401", w.Code)
	}
	if w := do(r, http.MethodGet, "/search?query=go", "forged", ""); w.Code != http.StatusForbidden {
		t.Errorf("forged token search = %d, want 403", w.Code)
	}
	if w := do(r, http.MethodGet, "/health", "", ""); w.Code != 200 {
		t.Errorf("health must stay open, got %d", w.Code)
	}

	if w := do(r, http.MethodPost, "/api/register", "", `{"username":"ada","password":"lovelace1"}`); w.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	w := do(r, http.MethodPost, "/api/login", "", `{"username":"ada","password":"lovelace1"}`)
	if w.Code != 200 {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	token := strings.TrimSuffix(strings.TrimPrefix(w.Body.String(), `{"token":"`), `"}`)

	if w := do(r, http.MethodGet, "/search?query=go", token, ""); w.Code != 200 {
		t.Errorf("authenticated search = %d %s", w.Code, w.Body.String())
	}
}

func TestRouterCORS(t *testing.T) {
	r := NewRouter(Deps{Searcher: stubSearcher{}, Extractor: docextract.New()}, testConfig(), time.Now())

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allowed origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("disallowed origin status = %d, want 403", w.Code)
	}
}
