package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/studyhub/docextract"
	"github.com/use-agent/studyhub/models"
)

// ExtractText returns a handler for POST /extract-text.
//
// Expects a multipart form with a "file" field. Responds with
// {filename, text}. Unknown file types are rejected with 400; documents that
// cannot be read yield 422.
func ExtractText(ex TextExtractor, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			if c.Request.ContentLength > maxBytes {
				abortWithError(c, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				abortWithError(c, http.StatusRequestEntityTooLarge, "File too large")
			default:
				abortWithError(c, http.StatusBadRequest, "No file provided")
			}
			return
		}

		filename := filepath.Base(fh.Filename)
		if strings.TrimSpace(fh.Filename) == "" || filename == "." || filename == "/" {
			abortWithError(c, http.StatusBadRequest, "No selected file")
			return
		}

		f, err := fh.Open()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
			return
		}

		text, err := ex.Extract(filename, data)
		if err != nil {
			if errors.Is(err, docextract.ErrUnsupported) {
				abortWithError(c, http.StatusBadRequest, "Unsupported file type: "+filepath.Ext(filename))
				return
			}
			slog.Warn("text extraction failed", "file", filename, "size", len(data), "error", err)
			abortWithError(c, http.StatusUnprocessableEntity, "Could not extract text from file")
			return
		}

		c.JSON(http.StatusOK, models.ExtractTextResponse{
			Filename: filename,
			Text:     text,
		})
	}
}
