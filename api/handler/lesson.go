package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/lesson"
	"github.com/use-agent/studyhub/models"
)

const llmUnavailable = "text generation is not configured"

// Quiz returns a handler for GET /quiz/generate?topic=...
//
// Model output that cannot be decoded is reported with status 200 as
// {error, originalInput}, so clients can show the raw text.
func Quiz(gen LessonGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gen == nil {
			abortWithError(c, http.StatusServiceUnavailable, llmUnavailable)
			return
		}

		topic := c.DefaultQuery("topic", lesson.DefaultTopic)
		quiz, err := gen.GenerateQuiz(c.Request.Context(), topic)
		if err != nil {
			var de *lesson.DecodeError
			if errors.As(err, &de) {
				c.JSON(http.StatusOK, models.QuizParseFailure{
					Error:         "Failed to parse JSON: " + de.Err.Error(),
					OriginalInput: de.Raw,
				})
				return
			}
			writeGenerationError(c, "quiz", err)
			return
		}

		c.JSON(http.StatusOK, quiz)
	}
}

// Experiment returns a handler for GET /experiment/generate?text=...
func Experiment(gen LessonGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gen == nil {
			abortWithError(c, http.StatusServiceUnavailable, llmUnavailable)
			return
		}

		text := c.Query("text")
		if strings.TrimSpace(text) == "" {
			abortWithError(c, http.StatusBadRequest, "Missing 'text' query parameter")
			return
		}

		exp, err := gen.GenerateExperiment(c.Request.Context(), text)
		if err != nil {
			var de *lesson.DecodeError
			switch {
			case errors.As(err, &de):
				abortWithError(c, http.StatusBadRequest, "Invalid JSON format: "+de.Err.Error())
			case errors.Is(err, lesson.ErrEmptyText):
				abortWithError(c, http.StatusBadRequest, "Missing 'text' query parameter")
			default:
				writeGenerationError(c, "experiment", err)
			}
			return
		}

		c.JSON(http.StatusOK, exp)
	}
}

// writeGenerationError maps a failed LLM call to 429 or 502.
func writeGenerationError(c *gin.Context, kind string, err error) {
	slog.Error("generation failed", "kind", kind, "error", err)

	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Code == models.ErrCodeRateLimited {
			status = http.StatusTooManyRequests
		}
		abortWithError(c, status, apiErr.Message)
		return
	}
	abortWithError(c, http.StatusBadGateway, "text generation failed")
}
