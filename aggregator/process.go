package aggregator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/use-agent/studyhub/cleaner"
	"github.com/use-agent/studyhub/models"
)

// Outcome is the result of one fetch-extract unit. Exactly one of Record
// and Err is set.
type Outcome struct {
	URL    string
	Record *models.ResultRecord
	Err    error
}

// process fetches one URL and extracts its metadata. It never panics and
// never returns an error to the pool; failures travel inside the Outcome.
func (a *Aggregator) process(ctx context.Context, url string) (out Outcome) {
	out.URL = url
	defer func() {
		if r := recover(); r != nil {
			out.Record = nil
			out.Err = fmt.Errorf("aggregator: panic processing %s: %v", url, r)
			slog.Error("unit panicked", "url", url, "panic", r)
		}
	}()

	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Warn("fetch failed", "url", url, "error", err)
		out.Err = err
		return out
	}

	rec := cleaner.ExtractMetadata(page.Body, url)
	out.Record = &rec
	return out
}
