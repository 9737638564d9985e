// Package aggregator turns a search term into a set of page summaries by
// resolving candidate URLs and fetching them concurrently.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/use-agent/studyhub/models"
	"github.com/use-agent/studyhub/scraper"
	"github.com/use-agent/studyhub/search"
)

// DefaultWidth is the pool width used when Options.Width is not positive.
const DefaultWidth = 10

var (
	// ErrResolve wraps any failure of the URL resolver. The whole search
	// fails when it does.
	ErrResolve = errors.New("aggregator: resolve urls")

	// ErrInvalidCount is returned for a desired count below one.
	ErrInvalidCount = errors.New("aggregator: result count must be at least 1")
)

// Options configures an Aggregator.
type Options struct {
	// QueryPrefix is prepended to the raw term before resolving.
	QueryPrefix string

	// Width caps the number of pages fetched at once.
	Width int
}

// Aggregator resolves a term into URLs and fetches every URL through a
// fixed-width pool. Pages that fail are dropped; the rest are returned in
// the order they completed.
type Aggregator struct {
	resolver search.Resolver
	fetcher  scraper.Fetcher
	prefix   string
	width    int
}

func New(resolver search.Resolver, fetcher scraper.Fetcher, opts Options) *Aggregator {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return &Aggregator{
		resolver: resolver,
		fetcher:  fetcher,
		prefix:   opts.QueryPrefix,
		width:    width,
	}
}

// Width reports the configured pool width.
func (a *Aggregator) Width() int { return a.width }

// Search resolves up to q.DesiredCount URLs for q.RawTerm and returns one
// record per URL that could be fetched. The returned slice is never nil on
// success.
func (a *Aggregator) Search(ctx context.Context, q models.SearchQuery) ([]models.ResultRecord, error) {
	if q.DesiredCount < 1 {
		return nil, ErrInvalidCount
	}

	start := time.Now()
	query := a.prefix + q.RawTerm

	urls, err := a.resolver.Resolve(ctx, query, q.DesiredCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	if len(urls) > q.DesiredCount {
		urls = urls[:q.DesiredCount]
	}

	records := make([]models.ResultRecord, 0, len(urls))
	if len(urls) == 0 {
		slog.Info("search finished", "query", query, "dispatched", 0, "succeeded", 0, "failed", 0)
		return records, nil
	}

	// Buffered to len(urls) so no unit ever blocks on send.
	results := make(chan Outcome, len(urls))

	var g errgroup.Group
	g.SetLimit(a.width)
	go func() {
		for _, u := range urls {
			g.Go(func() error {
				results <- a.process(ctx, u)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	failed := 0
	for out := range results {
		if out.Err != nil {
			failed++
			continue
		}
		records = append(records, *out.Record)
	}

	slog.Info("search finished",
		"query", query,
		"dispatched", len(urls),
		"succeeded", len(records),
		"failed", failed,
		"elapsed", time.Since(start).String(),
	)
	return records, nil
}
