package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /health.
//
// Reports "degraded" when no text generation backend is configured.
func Health(startTime time.Time, searchProvider, llmProvider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if llmProvider == "" {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         status,
			Uptime:         time.Since(startTime).Round(time.Second).String(),
			Version:        Version,
			SearchProvider: searchProvider,
			LLMProvider:    llmProvider,
		})
	}
}
