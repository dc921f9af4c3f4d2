package proxy

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

func TestFetchReturnsBufferedBodyAndContentType(t *testing.T) {
	payload := []byte("%PDF-1.4 fake document")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("expected browser-like user agent, got %q", ua)
		}
		if accept := r.Header.Get("Accept"); !strings.Contains(accept, "application/pdf") {
			t.Errorf("expected pdf accept header, got %q", accept)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(Options{Timeout: 2 * time.Second})
	doc, err := fetcher.Fetch(context.Background(), server.URL+"/doc.pdf")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !bytes.Equal(doc.Body, payload) {
		t.Fatalf("expected body passed through unchanged")
	}
	if doc.ContentType != "application/pdf" {
		t.Fatalf("expected content type application/pdf, got %q", doc.ContentType)
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("moved here"))
	}))
	defer target.Close()
	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer hop.Close()

	fetcher := NewFetcher(Options{Timeout: 2 * time.Second})
	doc, err := fetcher.Fetch(context.Background(), hop.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(doc.Body) != "moved here" {
		t.Fatalf("expected redirect followed, got %q", doc.Body)
	}
}

func TestFetchNon2xxYieldsUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(Options{Timeout: 2 * time.Second})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !domain.IsKind(err, domain.ErrUpstreamStatus) {
		t.Fatalf("expected ErrUpstreamStatus, got %v", err)
	}
	if domain.IsKind(err, domain.ErrUpstreamFetch) {
		t.Fatalf("upstream status must stay distinguishable from transport failure")
	}
	if got := domain.UpstreamStatus(err); got != http.StatusNotFound {
		t.Fatalf("expected carried status 404, got %d", got)
	}
}

func TestFetchTransportFailureYieldsUpstreamFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	fetcher := NewFetcher(Options{Timeout: 2 * time.Second})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !domain.IsKind(err, domain.ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}
	if domain.IsKind(err, domain.ErrUpstreamStatus) {
		t.Fatalf("transport failure must not carry an upstream status")
	}
}

func TestFetchTimeoutYieldsUpstreamFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	fetcher := NewFetcher(Options{Timeout: 20 * time.Millisecond})
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !domain.IsKind(err, domain.ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch on timeout, got %v", err)
	}
}

func TestFetchRejectsEmptyURLBeforeAnyNetworkAccess(t *testing.T) {
	fetcher := NewFetcher(Options{})
	_, err := fetcher.Fetch(context.Background(), "  ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDescribeLabelsOutcomes(t *testing.T) {
	if got := Describe(nil); got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	statusErr := domain.WrapError(domain.ErrUpstreamStatus, "fetch", &domain.UpstreamStatusError{Status: 502})
	if got := Describe(statusErr); got != "upstream_502" {
		t.Fatalf("expected upstream_502, got %q", got)
	}
	fetchErr := domain.WrapError(domain.ErrUpstreamFetch, "fetch", context.DeadlineExceeded)
	if got := Describe(fetchErr); got != "fetch_failed" {
		t.Fatalf("expected fetch_failed, got %q", got)
	}
}
