package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

func newDirectoryRepoWithMock(t *testing.T) (*SellerDirectoryRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &SellerDirectoryRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestAllLoadsDirectoryInRankingOrder(t *testing.T) {
	repo, mock, done := newDirectoryRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`FROM seller_directory\s+ORDER BY win_count DESC, seller_name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"seller_name", "win_count"}).
			AddRow("ALPHATECH", 10).
			AddRow("ALPHAWORKS", 3))

	entries, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "ALPHATECH" {
		t.Fatalf("expected ranked entries, got %v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplaceRewritesDirectoryTransactionally(t *testing.T) {
	repo, mock, done := newDirectoryRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM seller_directory`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO seller_directory`).
		WithArgs("ALPHATECH", 10).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO seller_directory`).
		WithArgs("ALPHAWORKS", 3).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), []domain.SellerEntry{
		{Name: "ALPHATECH", WinCount: 10},
		{Name: "ALPHAWORKS", WinCount: 3},
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestReplaceRollsBackOnInsertFailure(t *testing.T) {
	repo, mock, done := newDirectoryRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM seller_directory`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO seller_directory`).
		WithArgs("ALPHATECH", 10).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), []domain.SellerEntry{{Name: "ALPHATECH", WinCount: 10}})
	if !domain.IsKind(err, domain.ErrStoreQuery) {
		t.Fatalf("expected ErrStoreQuery, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
