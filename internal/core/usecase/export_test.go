package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSXWritesHeaderAndOneRowPerRecord(t *testing.T) {
	svc := NewExportService(&fakeRecordRepo{success: successFixture(3)})

	payload, err := svc.ExportXLSX(context.Background())
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	book, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer func() {
		_ = book.Close()
	}()

	rows, err := book.GetRows("Records")
	if err != nil {
		t.Fatalf("read exported sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 1 header + 3 record rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Bid Number" {
		t.Fatalf("expected header row first, got %v", rows[0])
	}
}
