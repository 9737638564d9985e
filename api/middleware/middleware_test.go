package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/account"
	"github.com/use-agent/studyhub/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens struct{}

func (fakeTokens) ParseToken(raw string) (*account.Claims, error) {
	if raw == "good" {
		return &account.Claims{ID: "u1", Username: "ada"}, nil
	}
	return nil, account.ErrInvalidToken
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(Auth(fakeTokens{}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+":"+c.GetString(ContextUsername))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer good", 200, "u1:ada"},
		{"lowercase scheme", "bearer good", 200, "u1:ada"},
		{"missing", "", 401, `{"message":"No token provided"}`},
		{"wrong scheme", "Basic Zm9vOmJhcg==", 401, `{"message":"No token provided"}`},
		{"invalid", "Bearer bad", 403, `{"message":"Invalid token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus || w.Body.String() != tt.wantBody {
				t.Errorf("got %d %q, want %d %q", w.Code, w.Body.String(), tt.wantStatus, tt.wantBody)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := range 2 {
		if code := do("10.0.0.1"); code != 200 {
			t.Fatalf("request %d = %d, want 200", i, code)
		}
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}
	if code := do("10.0.0.2"); code != 200 {
		t.Errorf("other client = %d, want 200", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for range 20 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	if len(id) != 36 || w.Body.String() != id {
		t.Errorf("generated id = %q, body %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("echoed id = %q", got)
	}
}
