package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
)

// DocumentService lists the source documents of a record in display order.
type DocumentService struct {
	documents ports.DocumentRepository
}

func NewDocumentService(documents ports.DocumentRepository) *DocumentService {
	return &DocumentService{documents: documents}
}

// ListDocuments returns the record's document references ordered by their
// stored order index, ascending. A record without documents yields an empty
// list, not an error.
func (s *DocumentService) ListDocuments(ctx context.Context, recordID string) ([]domain.DocumentReference, error) {
	if recordID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list documents", errors.New("record id is required"))
	}

	docs, err := s.documents.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.DocumentReference{}
	}
	return docs, nil
}
