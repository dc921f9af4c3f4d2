package ports

import (
	"context"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

// RecordLister is the inbound contract for paginated record listing.
type RecordLister interface {
	List(ctx context.Context, page, limit int) (*domain.RecordPage, error)
}

// CategoryLister returns the distinct item categories visible to a caller.
type CategoryLister interface {
	Categories(ctx context.Context, userID string) ([]string, error)
}

// Suggester is the inbound contract for type-scoped autocomplete.
type Suggester interface {
	Suggest(ctx context.Context, typ domain.SuggestionType, query string, mode domain.SellerSuggestMode) ([]string, error)
}

// DocumentLister returns the document references of one record in display order.
type DocumentLister interface {
	ListDocuments(ctx context.Context, recordID string) ([]domain.DocumentReference, error)
}

// RecordExporter renders all success records as a spreadsheet.
type RecordExporter interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

// DirectoryRefresher recomputes the seller directory from the record store.
type DirectoryRefresher interface {
	Refresh(ctx context.Context) error
}
