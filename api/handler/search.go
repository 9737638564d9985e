package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/aggregator"
	"github.com/use-agent/studyhub/config"
	"github.com/use-agent/studyhub/models"
)

// Search returns a handler for GET /search.
//
// Query parameters:
//
//	query        required search term
//	num_results  optional, 1..cfg.MaxResults, default cfg.DefaultResults
//
// Responds with a JSON array of {title, link, description}. Pages that could
// not be fetched are left out; an empty array is a valid answer.
func Search(s Searcher, cfg config.SearchConfig) gin.HandlerFunc {
	defaultCount := cfg.DefaultResults
	if defaultCount <= 0 {
		defaultCount = 10
	}
	maxCount := cfg.MaxResults
	if maxCount <= 0 {
		maxCount = 50
	}

	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("query"))
		if term == "" {
			abortWithError(c, http.StatusBadRequest, "Missing 'query' parameter")
			return
		}

		count := defaultCount
		if raw, ok := c.GetQuery("num_results"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || n < 1 || n > maxCount {
				abortWithError(c, http.StatusBadRequest,
					fmt.Sprintf("'num_results' must be an integer between 1 and %d", maxCount))
				return
			}
			count = n
		}

		records, err := s.Search(c.Request.Context(), models.SearchQuery{RawTerm: term, DesiredCount: count})
		if err != nil {
			switch {
			case errors.Is(err, aggregator.ErrInvalidCount):
				abortWithError(c, http.StatusBadRequest, err.Error())
			case errors.Is(err, aggregator.ErrResolve):
				slog.Error("search resolution failed", "query", term, "error", err)
				abortWithError(c, http.StatusBadGateway, "search provider unavailable")
			default:
				slog.Error("search failed", "query", term, "error", err)
				abortWithError(c, http.StatusInternalServerError, "internal error")
			}
			return
		}

		c.JSON(http.StatusOK, records)
	}
}
