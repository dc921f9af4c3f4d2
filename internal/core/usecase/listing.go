package usecase

import (
	"context"
	"fmt"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
)

// ListingService pages through success records, newest first.
type ListingService struct {
	records ports.RecordRepository
}

func NewListingService(records ports.RecordRepository) *ListingService {
	return &ListingService{records: records}
}

// List returns the window [(page-1)*limit, page*limit) of success records
// ordered by creation time descending, plus the total success count.
//
// The count and the window are two independent store round trips. A row
// inserted between them can make Total disagree with the data across pages;
// that eventual-consistency gap is part of the contract, not a defect.
func (s *ListingService) List(ctx context.Context, page, limit int) (*domain.RecordPage, error) {
	if page < 1 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list records", fmt.Errorf("page must be >= 1, got %d", page))
	}
	if limit < 1 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list records", fmt.Errorf("limit must be >= 1, got %d", limit))
	}

	total, err := s.records.CountSuccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	data, err := s.records.ListSuccess(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch record window: %w", err)
	}
	if data == nil {
		data = []domain.Record{}
	}

	return &domain.RecordPage{Data: data, Total: total}, nil
}

// Categories returns the distinct item categories visible to the caller.
// Identity resolution happens upstream; an empty userID means the global set.
func (s *ListingService) Categories(ctx context.Context, userID string) ([]string, error) {
	categories, err := s.records.DistinctCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
