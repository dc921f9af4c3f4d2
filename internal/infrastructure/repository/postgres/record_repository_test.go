package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

func newRecordRepoWithMock(t *testing.T) (*RecordRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &RecordRepository{db: db}, mock, func() { _ = db.Close() }
}

func recordRows(times ...time.Time) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "bid_number", "item_category", "ministry", "department",
		"l1_seller", "l2_seller", "l3_seller", "extraction_status", "created_at",
	})
	for i, ts := range times {
		rows.AddRow(
			string(rune('a'+i)), "GEM/2026/B/100", "Office Chairs", "Ministry of Defence", "Dept of Procurement",
			"Alpha Traders", nil, nil, "success", ts,
		)
	}
	return rows
}

func TestCountSuccessFiltersByStatus(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT count\(\*\) FROM tender_records WHERE extraction_status = 'success'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.CountSuccess(context.Background())
	if err != nil {
		t.Fatalf("CountSuccess() error = %v", err)
	}
	if total != 42 {
		t.Fatalf("expected 42, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListSuccessAppliesWindowAndOrdering(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 4).
		WillReturnRows(recordRows(now, now.Add(-time.Hour)))

	records, err := repo.ListSuccess(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("ListSuccess() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Status != domain.StatusSuccess {
		t.Fatalf("expected success status, got %q", records[0].Status)
	}
	if records[0].L2Seller != "" {
		t.Fatalf("expected NULL seller scanned as empty string, got %q", records[0].L2Seller)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListSuccessWrapsStoreFailure(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`FROM tender_records`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListSuccess(context.Background(), 0, 10)
	if !domain.IsKind(err, domain.ErrStoreQuery) {
		t.Fatalf("expected ErrStoreQuery, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDistinctBuyerValuesSelectsColumnByType(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT DISTINCT ministry\s+FROM tender_records`).
		WithArgs("def", 8).
		WillReturnRows(sqlmock.NewRows([]string{"ministry"}).AddRow("Ministry of Defence"))

	values, err := repo.DistinctBuyerValues(context.Background(), domain.SuggestMinistry, "def", 8)
	if err != nil {
		t.Fatalf("DistinctBuyerValues() error = %v", err)
	}
	if len(values) != 1 || values[0] != "Ministry of Defence" {
		t.Fatalf("expected ministry value, got %v", values)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBuyerAndSellerQueriesEscapeLikeWildcards(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	// "%", "_" and "\" in user text must match literally, not as LIKE
	// metacharacters.
	mock.ExpectQuery(`SELECT DISTINCT ministry\s+FROM tender_records`).
		WithArgs(`50\% off\_dept \\unit`, 8).
		WillReturnRows(sqlmock.NewRows([]string{"ministry"}))

	if _, err := repo.DistinctBuyerValues(context.Background(), domain.SuggestMinistry, `50% off_dept \unit`, 8); err != nil {
		t.Fatalf("DistinctBuyerValues() error = %v", err)
	}

	mock.ExpectQuery(`SELECT l1_seller AS seller FROM tender_records`).
		WithArgs(`a\_b`).
		WillReturnRows(sqlmock.NewRows([]string{"seller"}))

	if _, err := repo.SellerCandidates(context.Background(), "a_b"); err != nil {
		t.Fatalf("SellerCandidates() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDistinctBuyerValuesRejectsSellerType(t *testing.T) {
	repo, _, done := newRecordRepoWithMock(t)
	defer done()

	_, err := repo.DistinctBuyerValues(context.Background(), domain.SuggestSeller, "alpha", 8)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for seller type, got %v", err)
	}
}

func TestSellerCandidatesUnionsAllThreeSlots(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT l1_seller AS seller FROM tender_records`).
		WithArgs("alpha").
		WillReturnRows(sqlmock.NewRows([]string{"seller"}).
			AddRow("Alpha Traders").
			AddRow("Beta Alpha Co"))

	candidates, err := repo.SellerCandidates(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("SellerCandidates() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %v", candidates)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDistinctCategoriesScopesToUserWhenPresent(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`FROM user_categories\s+WHERE user_id = \$1`).
		WithArgs("user-7").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Office Chairs"))

	categories, err := repo.DistinctCategories(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("DistinctCategories() error = %v", err)
	}
	if len(categories) != 1 || categories[0] != "Office Chairs" {
		t.Fatalf("expected scoped categories, got %v", categories)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSellerWinCountsGroupsAndOrders(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`GROUP BY upper\(trim\(l1_seller\)\)\s+ORDER BY wins DESC, seller ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"seller", "wins"}).
			AddRow("ALPHATECH", 10).
			AddRow("ALPHAWORKS", 3))

	entries, err := repo.SellerWinCounts(context.Background())
	if err != nil {
		t.Fatalf("SellerWinCounts() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "ALPHATECH" || entries[0].WinCount != 10 {
		t.Fatalf("expected ordered win counts, got %v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountSuccessSurfacesScanFailure(t *testing.T) {
	repo, mock, done := newRecordRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT count\(\*\)`).WillReturnError(sql.ErrConnDone)

	_, err := repo.CountSuccess(context.Background())
	if !domain.IsKind(err, domain.ErrStoreQuery) {
		t.Fatalf("expected ErrStoreQuery, got %v", err)
	}
}
