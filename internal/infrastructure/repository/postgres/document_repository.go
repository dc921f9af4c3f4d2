package postgres

import (
	"context"
	"database/sql"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

// DocumentRepository reads the tender_documents table written by the
// extraction pipeline.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListByRecord returns the record's document references ordered strictly by
// their stored order index, ascending.
func (r *DocumentRepository) ListByRecord(ctx context.Context, recordID string) ([]domain.DocumentReference, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, record_id, filename, source_url, source_tag, order_index
FROM tender_documents
WHERE record_id = $1
ORDER BY order_index ASC
`, recordID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "list record documents", err)
	}
	defer rows.Close()

	var docs []domain.DocumentReference
	for rows.Next() {
		var (
			doc domain.DocumentReference
			tag sql.NullString
		)
		if err := rows.Scan(&doc.ID, &doc.RecordID, &doc.Filename, &doc.SourceURL, &tag, &doc.OrderIndex); err != nil {
			return nil, domain.WrapError(domain.ErrStoreQuery, "scan document reference", err)
		}
		doc.SourceTag = tag.String
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "list record documents", err)
	}
	return docs, nil
}
