package postgres

import (
	"context"
	"database/sql"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

// SellerDirectoryRepository persists the precomputed seller win-frequency
// directory. The api reads it into an in-memory snapshot; the aggregator
// rewrites it wholesale after each recount.
type SellerDirectoryRepository struct {
	db *sql.DB
}

func NewSellerDirectoryRepository(db *sql.DB) *SellerDirectoryRepository {
	return &SellerDirectoryRepository{db: db}
}

func (r *SellerDirectoryRepository) All(ctx context.Context) ([]domain.SellerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT seller_name, win_count
FROM seller_directory
ORDER BY win_count DESC, seller_name ASC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "load seller directory", err)
	}
	defer rows.Close()

	var entries []domain.SellerEntry
	for rows.Next() {
		var entry domain.SellerEntry
		if err := rows.Scan(&entry.Name, &entry.WinCount); err != nil {
			return nil, domain.WrapError(domain.ErrStoreQuery, "scan seller directory entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "load seller directory", err)
	}
	return entries, nil
}

// Replace rewrites the directory in one transaction so readers loading a
// snapshot never observe a half-written table.
func (r *SellerDirectoryRepository) Replace(ctx context.Context, entries []domain.SellerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrStoreQuery, "begin directory rewrite", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seller_directory`); err != nil {
		return domain.WrapError(domain.ErrStoreQuery, "clear seller directory", err)
	}
	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, `
INSERT INTO seller_directory (seller_name, win_count) VALUES ($1, $2)
`, entry.Name, entry.WinCount)
		if err != nil {
			return domain.WrapError(domain.ErrStoreQuery, "insert seller directory entry", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrStoreQuery, "commit directory rewrite", err)
	}
	return nil
}
