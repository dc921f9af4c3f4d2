package ports

import (
	"context"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

// RecordRepository is the read contract against the external record store.
// Implementations wrap failures as domain.ErrStoreQuery.
type RecordRepository interface {
	CountSuccess(ctx context.Context) (int, error)
	ListSuccess(ctx context.Context, offset, limit int) ([]domain.Record, error)
	AllSuccess(ctx context.Context) ([]domain.Record, error)
	// DistinctBuyerValues returns distinct non-empty ministry or department
	// values among success records matching query as a case-insensitive
	// substring.
	DistinctBuyerValues(ctx context.Context, typ domain.SuggestionType, query string, limit int) ([]string, error)
	// SellerCandidates returns the distinct seller names appearing in any of
	// the three ranked seller slots of success records, matched by
	// case-insensitive substring.
	SellerCandidates(ctx context.Context, query string) ([]string, error)
	DistinctCategories(ctx context.Context, userID string) ([]string, error)
	// SellerWinCounts aggregates how often each seller ranked L1 across
	// success records, names uppercased.
	SellerWinCounts(ctx context.Context) ([]domain.SellerEntry, error)
}

// DocumentRepository reads document references.
type DocumentRepository interface {
	ListByRecord(ctx context.Context, recordID string) ([]domain.DocumentReference, error)
}

// SellerDirectoryRepository persists the precomputed seller directory.
type SellerDirectoryRepository interface {
	All(ctx context.Context) ([]domain.SellerEntry, error)
	Replace(ctx context.Context, entries []domain.SellerEntry) error
}

// SellerIndex is the in-process read-only ranking snapshot. PrefixSearch
// expects an already-uppercased prefix and returns entries ordered by win
// count descending, name ascending on ties.
type SellerIndex interface {
	PrefixSearch(prefix string, limit int) []domain.SellerEntry
	Size() int
}

// DocumentFetcher retrieves a remote document on the caller's behalf.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error)
}

// RefreshBus carries directory refresh signals between the api and the
// aggregator binaries.
type RefreshBus interface {
	PublishRefreshRequested(ctx context.Context) error
	SubscribeRefreshRequested(ctx context.Context, handler func(context.Context) error) error
	PublishSellersRefreshed(ctx context.Context) error
	SubscribeSellersRefreshed(ctx context.Context, handler func(context.Context) error) error
}
