package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
)

var exportHeader = []string{
	"Bid Number", "Item Category", "Ministry", "Department",
	"L1 Seller", "L2 Seller", "L3 Seller", "Created At",
}

// ExportService renders all success records as a spreadsheet, newest first.
type ExportService struct {
	records ports.RecordRepository
}

func NewExportService(records ports.RecordRepository) *ExportService {
	return &ExportService{records: records}
}

func (s *ExportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	records, err := s.records.AllSuccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}

	book := excelize.NewFile()
	defer func() {
		_ = book.Close()
	}()

	const sheet = "Records"
	index, err := book.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create export sheet: %w", err)
	}
	book.SetActiveSheet(index)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := book.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export row %d: %w", i+2, err)
		}
		row := []any{
			record.BidNumber, record.ItemCategory, record.Ministry, record.Department,
			record.L1Seller, record.L2Seller, record.L3Seller,
			record.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize export workbook: %w", err)
	}
	return buf.Bytes(), nil
}
