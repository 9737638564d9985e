package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/api/handler"
	"github.com/use-agent/studyhub/api/middleware"
	"github.com/use-agent/studyhub/config"
)

// Deps are the services behind the HTTP API. Lessons and Accounts may be
// nil: the quiz and experiment endpoints then answer 503 and the account
// routes are not mounted.
type Deps struct {
	Searcher       handler.Searcher
	SearchProvider string

	Lessons     handler.LessonGenerator
	LLMProvider string

	Extractor handler.TextExtractor

	Accounts handler.Accounts
	Tokens   middleware.TokenParser
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:   Recovery → RequestID → Logger → CORS
//	Content:  Auth (if required) → RateLimit
//	Accounts: RateLimit
//
// Health is outside auth so monitoring checks always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	r.GET("/health", handler.Health(startTime, deps.SearchProvider, deps.LLMProvider))

	limit := middleware.RateLimit(cfg.RateLimit)

	content := r.Group("")
	if cfg.Auth.Required && deps.Tokens != nil {
		content.Use(middleware.Auth(deps.Tokens))
	}
	content.Use(limit)

	content.GET("/search", handler.Search(deps.Searcher, cfg.Search))
	content.GET("/quiz/generate", handler.Quiz(deps.Lessons))
	content.GET("/experiment/generate", handler.Experiment(deps.Lessons))
	content.POST("/extract-text", handler.ExtractText(deps.Extractor, cfg.Upload.MaxBytes))

	if deps.Accounts != nil {
		accounts := r.Group("/api", limit)
		accounts.POST("/register", handler.Register(deps.Accounts))
		accounts.POST("/login", handler.Login(deps.Accounts))
	}

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
