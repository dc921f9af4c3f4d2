package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
)

// RefreshService rebuilds the seller directory from the record store and
// notifies listeners so they can reload their in-memory snapshots. It runs
// inside the aggregator binary; request handling never mutates the directory.
type RefreshService struct {
	records   ports.RecordRepository
	directory ports.SellerDirectoryRepository
	bus       ports.RefreshBus
}

func NewRefreshService(records ports.RecordRepository, directory ports.SellerDirectoryRepository, bus ports.RefreshBus) *RefreshService {
	return &RefreshService{
		records:   records,
		directory: directory,
		bus:       bus,
	}
}

func (s *RefreshService) Refresh(ctx context.Context) error {
	counts, err := s.records.SellerWinCounts(ctx)
	if err != nil {
		return fmt.Errorf("aggregate seller wins: %w", err)
	}

	if err := s.directory.Replace(ctx, counts); err != nil {
		return fmt.Errorf("replace seller directory: %w", err)
	}

	if err := s.bus.PublishSellersRefreshed(ctx); err != nil {
		// The directory is already rewritten; listeners catch up on the next
		// notification or restart.
		slog.Warn("sellers_refreshed_publish_failed", "error", err)
	}

	slog.Info("seller_directory_refreshed", "sellers", len(counts))
	return nil
}
