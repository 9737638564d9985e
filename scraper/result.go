package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Page is the raw outcome of a successful fetch.
type Page struct {
	// URL is the address that was requested.
	URL string

	// FinalURL is the URL after following redirects.
	FinalURL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the response Content-Type (sniffed when absent).
	ContentType string

	// Body is the response body decoded to UTF-8.
	Body []byte
}

// ErrNotText is returned when the response does not carry textual content.
var ErrNotText = errors.New("response is not text content")

// FetchError reports a failed single-attempt fetch of URL.
type FetchError struct {
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("scraper: fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the fetch failed because its deadline expired.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Cause, &ne) && ne.Timeout()
}

// StatusError is the cause of a FetchError for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}
