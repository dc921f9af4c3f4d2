// Package bootstrap assembles the dependency graph for the two binaries.
// Wiring lives here so cmd/ stays a thin lifecycle shell.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/tenderwatch/tender-aggregator/internal/adapters/http"
	"github.com/tenderwatch/tender-aggregator/internal/config"
	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/core/usecase"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/proxy"
	natsbus "github.com/tenderwatch/tender-aggregator/internal/infrastructure/queue/nats"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/repository/postgres"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/resilience"
	"github.com/tenderwatch/tender-aggregator/internal/infrastructure/sellerindex"
	"github.com/tenderwatch/tender-aggregator/internal/observability/logging"
	"github.com/tenderwatch/tender-aggregator/internal/observability/metrics"
)

// API is the assembled request-serving application.
type API struct {
	Config  *config.Config
	Logger  *slog.Logger
	Handler http.Handler

	db        *sql.DB
	bus       *natsbus.Bus
	index     *sellerindex.Index
	directory *postgres.SellerDirectoryRepository
	metrics   *metrics.Metrics
}

func NewAPI(ctx context.Context, cfg *config.Config) (*API, error) {
	logger := logging.NewJSONLogger("api", cfg.LogLevel)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	records := postgres.NewRecordRepository(db)
	documents := postgres.NewDocumentRepository(db)
	directory := postgres.NewSellerDirectoryRepository(db)

	// A missing or empty directory is not fatal: prefix suggestions come
	// back empty until the aggregator publishes its first refresh.
	entries, err := directory.All(ctx)
	if err != nil {
		logger.Warn("seller_directory_load_failed", "error", err)
		entries = nil
	}
	index := sellerindex.New(entries)

	m := metrics.New("api")
	m.SetSellerIndexSize(index.Size())

	bus, err := natsbus.New(cfg.NATSURL, cfg.NATSRefreshSubject, cfg.NATSRefreshedSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect refresh bus: %w", err)
	}

	fetcher := proxy.NewFetcher(proxy.Options{
		Timeout:   cfg.ProxyTimeout(),
		UserAgent: cfg.ProxyUserAgent,
		Guard:     resilience.NewGuard(resilience.DefaultConfig()),
	})

	listing := usecase.NewListingService(records)
	router := httpadapter.NewRouter(httpadapter.Deps{
		Logger:         logger,
		Metrics:        m,
		RateLimitRPS:   cfg.APIRateLimitRPS,
		RateLimitBurst: cfg.APIRateLimitBurst,
		Lister:         listing,
		Categories:     listing,
		Suggester:      usecase.NewSuggestService(records, index, domain.SellerSuggestMode(cfg.SuggestSellerMode)),
		Documents:      usecase.NewDocumentService(documents),
		Exporter:       usecase.NewExportService(records),
		Fetcher:        fetcher,
		RefreshBus:     bus,
	})

	return &API{
		Config:    cfg,
		Logger:    logger,
		Handler:   router.Handler(),
		db:        db,
		bus:       bus,
		index:     index,
		directory: directory,
		metrics:   m,
	}, nil
}

// WatchSellerDirectory blocks on the refreshed subject and swaps the index
// snapshot whenever the aggregator announces a rewrite. Run it in its own
// goroutine; it returns when ctx is cancelled.
func (a *API) WatchSellerDirectory(ctx context.Context) error {
	return a.bus.SubscribeSellersRefreshed(ctx, func(ctx context.Context) error {
		entries, err := a.directory.All(ctx)
		if err != nil {
			return fmt.Errorf("reload seller directory: %w", err)
		}
		a.index.Replace(entries)
		a.metrics.SetSellerIndexSize(a.index.Size())
		a.Logger.Info("seller_index_reloaded", "entries", a.index.Size())
		return nil
	})
}

func (a *API) Close() {
	a.bus.Close()
	if err := a.db.Close(); err != nil {
		a.Logger.Warn("db_close_failed", "error", err)
	}
}

// Aggregator is the assembled seller-directory refresh worker.
type Aggregator struct {
	Config *config.Config
	Logger *slog.Logger

	refresher *usecase.RefreshService
	db        *sql.DB
	bus       *natsbus.Bus
}

func NewAggregator(cfg *config.Config) (*Aggregator, error) {
	logger := logging.NewJSONLogger("aggregator", cfg.LogLevel)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	bus, err := natsbus.New(cfg.NATSURL, cfg.NATSRefreshSubject, cfg.NATSRefreshedSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect refresh bus: %w", err)
	}

	return &Aggregator{
		Config:    cfg,
		Logger:    logger,
		refresher: usecase.NewRefreshService(postgres.NewRecordRepository(db), postgres.NewSellerDirectoryRepository(db), bus),
		db:        db,
		bus:       bus,
	}, nil
}

// Run performs one refresh immediately, then serves refresh triggers until
// ctx is cancelled.
func (a *Aggregator) Run(ctx context.Context) error {
	if err := a.refresher.Refresh(ctx); err != nil {
		a.Logger.Error("initial_refresh_failed", "error", err)
	} else {
		a.Logger.Info("initial_refresh_done")
	}
	return a.bus.SubscribeRefreshRequested(ctx, func(ctx context.Context) error {
		a.Logger.Info("refresh_requested")
		return a.refresher.Refresh(ctx)
	})
}

func (a *Aggregator) Close() {
	a.bus.Close()
	if err := a.db.Close(); err != nil {
		a.Logger.Warn("db_close_failed", "error", err)
	}
}
