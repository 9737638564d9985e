package scraper

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultUserAgent is the client identity sent with every page request.
	// Some servers reject requests without a browser-looking agent.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBody caps how much of a response body is read.
	DefaultMaxBody = 10 << 20
)

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Options configures an HTTPFetcher.
type Options struct {
	// Timeout is the per-fetch deadline. Default: 5s.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent.
	UserAgent string

	// MaxBody caps the response body size in bytes. Default: 10 MiB.
	MaxBody int64

	// ChromeTLS dials HTTPS with a Chrome-like TLS fingerprint.
	ChromeTLS bool
}

// HTTPFetcher performs exactly one GET per Fetch call. It never retries.
// It is safe for concurrent use.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// chromeH1Spec builds a Chrome-like ClientHello with ALPN forced to
// http/1.1. ApplyPreset stores key shares inside the spec, so every
// connection needs its own.
func chromeH1Spec() (tls.ClientHelloSpec, error) {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return tls.ClientHelloSpec{}, err
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	return spec, nil
}

// NewHTTPFetcher creates an HTTPFetcher, applying defaults to unset options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ChromeTLS {
		transport.DialTLSContext = chromeTLSDialer(nil)
		transport.ForceAttemptHTTP2 = false
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBody,
	}
}

// Fetch retrieves targetURL once. Any failure, including a non-2xx status or
// non-text content, is returned as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	page, err := f.fetch(ctx, targetURL)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Cause: err}
	}
	return page, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, targetURL string) (*Page, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}
	if !isTextContentType(ct) {
		return nil, fmt.Errorf("%w (content-type: %s)", ErrNotText, ct)
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		URL:         targetURL,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: ct,
		Body:        decodeUTF8(body, ct),
	}, nil
}

// isTextContentType returns true for text/* and XHTML responses.
func isTextContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// decodeUTF8 converts body to UTF-8 using the declared or sniffed charset.
// The raw bytes are returned when no decoder applies.
func decodeUTF8(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}

// chromeTLSDialer returns a DialTLSContext func that handshakes with the
// Chrome fingerprint. A nil rootCAs uses the system pool.
func chromeTLSDialer(rootCAs *x509.CertPool) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		spec, err := chromeH1Spec()
		if err != nil {
			return nil, fmt.Errorf("build tls spec: %w", err)
		}

		dialer := &net.Dialer{Timeout: 10 * time.Second}
		rawConn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, _ := net.SplitHostPort(addr)
		tlsConn := tls.UClient(rawConn, &tls.Config{ServerName: host, RootCAs: rootCAs}, tls.HelloCustom)
		if err := tlsConn.ApplyPreset(&spec); err != nil {
			rawConn.Close()
			return nil, fmt.Errorf("apply tls spec: %w", err)
		}
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			rawConn.Close()
			return nil, err
		}
		return tlsConn, nil
	}
}
