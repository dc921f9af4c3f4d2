// Package proxy fetches remote tender documents on the client's behalf.
// Document hosts are third parties outside our control; some reject
// non-browser clients, so requests carry a browser-like header set.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/resilience"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	guard      *resilience.Guard
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Guard     *resilience.Guard
}

func NewFetcher(options Options) *Fetcher {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{
		// Redirects are followed automatically by the default transport
		// policy; responses are never cached here.
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		guard:      options.Guard,
	}
}

// Fetch retrieves url and buffers the full payload in memory. A non-2xx
// upstream answer becomes an UpstreamStatusError carrying the status code;
// transport failures (DNS, connect, timeout) become ErrUpstreamFetch. The
// fetcher never retries; only transport failures count against the breaker.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "fetch document", errors.New("document url is required"))
	}

	var doc *domain.FetchedDocument
	call := func(ctx context.Context) error {
		fetched, err := f.fetch(ctx, url)
		if err != nil {
			return err
		}
		doc = fetched
		return nil
	}

	var err error
	if f.guard != nil {
		err = f.guard.Execute(ctx, "document.fetch", call, countsAsHostFailure)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*domain.FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "fetch document", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,application/octet-stream,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstreamFetch, "fetch document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused, then discard.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, domain.WrapError(domain.ErrUpstreamStatus, "fetch document",
			&domain.UpstreamStatusError{Status: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstreamFetch, "read document body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &domain.FetchedDocument{Body: body, ContentType: contentType}, nil
}

// countsAsHostFailure keeps deliberate upstream answers (404s for dead
// links and the like) from tripping the breaker for everyone else.
func countsAsHostFailure(err error) bool {
	if domain.IsKind(err, domain.ErrUpstreamStatus) {
		return false
	}
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return false
	}
	return true
}

// Describe reports a short outcome label for metrics.
func Describe(err error) string {
	switch {
	case err == nil:
		return "ok"
	case resilience.IsCircuitOpen(err):
		return "circuit_open"
	case domain.IsKind(err, domain.ErrUpstreamStatus):
		return fmt.Sprintf("upstream_%d", domain.UpstreamStatus(err))
	case domain.IsKind(err, domain.ErrUpstreamFetch):
		return "fetch_failed"
	default:
		return "error"
	}
}
