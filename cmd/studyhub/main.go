package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/studyhub/account"
	"github.com/use-agent/studyhub/aggregator"
	"github.com/use-agent/studyhub/api"
	"github.com/use-agent/studyhub/config"
	"github.com/use-agent/studyhub/docextract"
	"github.com/use-agent/studyhub/lesson"
	"github.com/use-agent/studyhub/llm"
	"github.com/use-agent/studyhub/scraper"
	"github.com/use-agent/studyhub/search"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("studyhub starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"searchProvider", cfg.Search.Provider,
		"poolWidth", cfg.Fetch.PoolWidth,
	)

	ctx := context.Background()

	// ── 3. Search pipeline: resolver → fetcher → aggregator ─────────
	resolver, err := search.New(cfg.Search)
	if err != nil {
		slog.Error("failed to initialise search provider", "error", err)
		os.Exit(1)
	}

	fetcher := scraper.NewHTTPFetcher(scraper.Options{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBody:   cfg.Fetch.MaxBodyBytes,
		ChromeTLS: cfg.Fetch.ChromeTLS,
	})

	agg := aggregator.New(resolver, fetcher, aggregator.Options{
		QueryPrefix: cfg.Search.QueryPrefix,
		Width:       cfg.Fetch.PoolWidth,
	})

	deps := api.Deps{
		Searcher:       agg,
		SearchProvider: resolver.Name(),
		Extractor:      docextract.New(),
	}

	// ── 4. Lesson generation (optional) ─────────────────────────────
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		slog.Warn("quiz and experiment generation disabled", "error", err)
	} else {
		lessons := lesson.NewService(gen)
		deps.Lessons = lessons
		deps.LLMProvider = lessons.Provider()
		slog.Info("lesson generation enabled", "provider", lessons.Provider())
	}

	// ── 5. Accounts (optional) ──────────────────────────────────────
	var mongoStore *account.MongoStore
	if cfg.Auth.JWTSecret != "" {
		var store account.Store
		if cfg.Mongo.URI != "" {
			mongoStore, err = account.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
			if err != nil {
				slog.Error("failed to connect to MongoDB", "error", err)
				os.Exit(1)
			}
			store = mongoStore
			slog.Info("account store: mongodb", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		} else {
			store = account.NewMemoryStore()
			slog.Warn("account store: in-memory, accounts are lost on restart")
		}
		svc := account.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		deps.Accounts = svc
		deps.Tokens = svc
	} else {
		if cfg.Auth.Required {
			slog.Error("STUDYHUB_AUTH_REQUIRED is set but no JWT secret is configured")
			os.Exit(1)
		}
		slog.Info("account endpoints disabled (no JWT secret)")
	}

	// ── 6. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(deps, cfg, startTime)

	// ── 7. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	if mongoStore != nil {
		if err := mongoStore.Close(shutdownCtx); err != nil {
			slog.Warn("mongodb disconnect failed", "error", err)
		}
	}

	slog.Info("studyhub stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
