package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

// RecordRepository reads the tender_records table. The extraction pipeline
// owns writes and the schema; this side only queries, always filtered to
// successfully extracted rows.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, bid_number, item_category, ministry, department, l1_seller, l2_seller, l3_seller, extraction_status, created_at`

func (r *RecordRepository) CountSuccess(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT count(*) FROM tender_records WHERE extraction_status = 'success'
`).Scan(&total)
	if err != nil {
		return 0, domain.WrapError(domain.ErrStoreQuery, "count success records", err)
	}
	return total, nil
}

func (r *RecordRepository) ListSuccess(ctx context.Context, offset, limit int) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+recordColumns+`
FROM tender_records
WHERE extraction_status = 'success'
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "list success records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *RecordRepository) AllSuccess(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+recordColumns+`
FROM tender_records
WHERE extraction_status = 'success'
ORDER BY created_at DESC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "list all success records", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DistinctBuyerValues matches query as a case-insensitive substring against
// the ministry or department column of success rows.
func (r *RecordRepository) DistinctBuyerValues(ctx context.Context, typ domain.SuggestionType, query string, limit int) ([]string, error) {
	var column string
	switch typ {
	case domain.SuggestMinistry:
		column = "ministry"
	case domain.SuggestDepartment:
		column = "department"
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "distinct buyer values",
			fmt.Errorf("unsupported suggestion type %q", typ))
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT `+column+`
FROM tender_records
WHERE extraction_status = 'success'
  AND `+column+` IS NOT NULL
  AND `+column+` <> ''
  AND `+column+` ILIKE '%' || $1 || '%'
LIMIT $2
`, escapeLike(query), limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "distinct buyer values", err)
	}
	defer rows.Close()

	return scanStrings(rows, "distinct buyer values")
}

// SellerCandidates unions the three ranked seller slots of success rows and
// returns the distinct names matching query as a case-insensitive substring.
func (r *RecordRepository) SellerCandidates(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT seller FROM (
	SELECT l1_seller AS seller FROM tender_records WHERE extraction_status = 'success'
	UNION
	SELECT l2_seller FROM tender_records WHERE extraction_status = 'success'
	UNION
	SELECT l3_seller FROM tender_records WHERE extraction_status = 'success'
) sellers
WHERE seller IS NOT NULL
  AND seller <> ''
  AND seller ILIKE '%' || $1 || '%'
`, escapeLike(query))
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "seller candidates", err)
	}
	defer rows.Close()

	return scanStrings(rows, "seller candidates")
}

// DistinctCategories returns the item categories visible to userID. Identity
// checks happen upstream; an empty userID yields the global set, otherwise
// the categories the caller tracks.
func (r *RecordRepository) DistinctCategories(ctx context.Context, userID string) ([]string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == "" {
		rows, err = r.db.QueryContext(ctx, `
SELECT DISTINCT item_category
FROM tender_records
WHERE extraction_status = 'success'
  AND item_category IS NOT NULL
  AND item_category <> ''
ORDER BY item_category
`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT category
FROM user_categories
WHERE user_id = $1
ORDER BY category
`, userID)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "distinct categories", err)
	}
	defer rows.Close()

	return scanStrings(rows, "distinct categories")
}

// SellerWinCounts aggregates L1 placements per seller across success rows,
// uppercased to match the directory's storage form.
func (r *RecordRepository) SellerWinCounts(ctx context.Context) ([]domain.SellerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT upper(trim(l1_seller)) AS seller, count(*) AS wins
FROM tender_records
WHERE extraction_status = 'success'
  AND l1_seller IS NOT NULL
  AND l1_seller <> ''
GROUP BY upper(trim(l1_seller))
ORDER BY wins DESC, seller ASC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "seller win counts", err)
	}
	defer rows.Close()

	var entries []domain.SellerEntry
	for rows.Next() {
		var entry domain.SellerEntry
		if err := rows.Scan(&entry.Name, &entry.WinCount); err != nil {
			return nil, domain.WrapError(domain.ErrStoreQuery, "scan seller win count", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "seller win counts", err)
	}
	return entries, nil
}

// escapeLike neutralizes LIKE metacharacters in user text so the query is
// matched literally. Postgres treats backslash as the default escape char.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}

func scanRecords(rows *sql.Rows) ([]domain.Record, error) {
	var records []domain.Record
	for rows.Next() {
		var (
			record     domain.Record
			category   sql.NullString
			ministry   sql.NullString
			department sql.NullString
			l1, l2, l3 sql.NullString
			status     string
		)
		err := rows.Scan(
			&record.ID, &record.BidNumber, &category, &ministry, &department,
			&l1, &l2, &l3, &status, &record.CreatedAt,
		)
		if err != nil {
			return nil, domain.WrapError(domain.ErrStoreQuery, "scan record", err)
		}
		record.ItemCategory = category.String
		record.Ministry = ministry.String
		record.Department = department.String
		record.L1Seller = l1.String
		record.L2Seller = l2.String
		record.L3Seller = l3.String
		record.Status = domain.ExtractionStatus(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, "iterate records", err)
	}
	return records, nil
}

func scanStrings(rows *sql.Rows, operation string) ([]string, error) {
	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, domain.WrapError(domain.ErrStoreQuery, operation, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreQuery, operation, err)
	}
	return values, nil
}
