// Package http is the inbound HTTP adapter: routing, request parsing,
// response shaping and the error-to-status mapping. It holds no business
// logic; every handler delegates to an inbound port.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/proxy"
	"github.com/tenderwatch/tender-aggregator/internal/observability/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type Router struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	lister     ports.RecordLister
	categories ports.CategoryLister
	suggester  ports.Suggester
	documents  ports.DocumentLister
	exporter   ports.RecordExporter
	fetcher    ports.DocumentFetcher
	refreshBus ports.RefreshBus
}

type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	RateLimitRPS   float64
	RateLimitBurst int

	Lister     ports.RecordLister
	Categories ports.CategoryLister
	Suggester  ports.Suggester
	Documents  ports.DocumentLister
	Exporter   ports.RecordExporter
	Fetcher    ports.DocumentFetcher
	RefreshBus ports.RefreshBus
}

func NewRouter(deps Deps) *Router {
	rps := deps.RateLimitRPS
	if rps <= 0 {
		rps = 50
	}
	burst := deps.RateLimitBurst
	if burst <= 0 {
		burst = int(rps) * 2
	}
	return &Router{
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		lister:     deps.Lister,
		categories: deps.Categories,
		suggester:  deps.Suggester,
		documents:  deps.Documents,
		exporter:   deps.Exporter,
		fetcher:    deps.Fetcher,
		refreshBus: deps.RefreshBus,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.handleHealth)
	mux.HandleFunc("GET /results", rt.handleResults)
	mux.HandleFunc("GET /results/export", rt.handleExport)
	mux.HandleFunc("GET /suggest", rt.handleSuggest)
	mux.HandleFunc("GET /categories", rt.handleCategories)
	mux.HandleFunc("GET /documents", rt.handleDocuments)
	mux.HandleFunc("GET /proxy-document", rt.handleProxyDocument)
	if rt.refreshBus != nil {
		mux.HandleFunc("POST /admin/refresh-sellers", rt.handleRefreshSellers)
	}
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = rateLimit(rt.limiter, handler)
	handler = accessLog(rt.logger, handler)
	handler = requestID(handler)
	return handler
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) handleResults(w http.ResponseWriter, r *http.Request) {
	page, err := queryIntDefault(r, "page", defaultPage)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "page must be a positive integer"})
		return
	}
	limit, err := queryIntDefault(r, "limit", defaultLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
		return
	}

	result, err := rt.lister.List(r.Context(), page, limit)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	book, err := rt.exporter.ExportXLSX(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tender_records.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(book)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(book)
}

func (rt *Router) handleSuggest(w http.ResponseWriter, r *http.Request) {
	typ := domain.SuggestionType(strings.TrimSpace(r.URL.Query().Get("type")))
	query := r.URL.Query().Get("q")
	mode := domain.SellerSuggestMode(strings.TrimSpace(r.URL.Query().Get("mode")))

	options, err := rt.suggester.Suggest(r.Context(), typ, query, mode)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.ObserveSuggest(string(typ), string(mode))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"options": options})
}

func (rt *Router) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	categories, err := rt.categories.Categories(r.Context(), userID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (rt *Router) handleDocuments(w http.ResponseWriter, r *http.Request) {
	recordID := strings.TrimSpace(r.URL.Query().Get("recordId"))
	docs, err := rt.documents.ListDocuments(r.Context(), recordID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": docs,
	})
}

// handleProxyDocument relays the remote body verbatim but forces the
// Content-Type so browsers render documents inline instead of trusting
// whatever the host declared.
func (rt *Router) handleProxyDocument(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))

	doc, err := rt.fetcher.Fetch(r.Context(), url)
	if rt.metrics != nil {
		size := 0
		if doc != nil {
			size = len(doc.Body)
		}
		rt.metrics.ObserveProxyFetch(proxy.Describe(err), size)
	}
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

// handleRefreshSellers asks the aggregator to rebuild the seller directory.
// Fire and forget: the rebuild happens out of band and the updated snapshot
// arrives via the refreshed notification.
func (rt *Router) handleRefreshSellers(w http.ResponseWriter, r *http.Request) {
	if err := rt.refreshBus.PublishRefreshRequested(r.Context()); err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request_failed",
			"path", r.URL.Path,
			"status", status,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// queryIntDefault distinguishes an absent parameter (use the default) from a
// present but malformed or non-positive one (reject).
func queryIntDefault(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, domain.ErrInvalidInput
	}
	return value, nil
}
