// Package handler holds the gin handlers of the HTTP API. Each handler is
// built by a constructor that closes over its dependencies.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/models"
)

// Searcher aggregates web resources for a query.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.ResultRecord, error)
}

// LessonGenerator produces quizzes and experiment write-ups.
type LessonGenerator interface {
	GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error)
	GenerateExperiment(ctx context.Context, text string) (*models.Experiment, error)
}

// TextExtractor converts an uploaded document to text.
type TextExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Accounts registers users and issues login tokens.
type Accounts interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: message})
}
