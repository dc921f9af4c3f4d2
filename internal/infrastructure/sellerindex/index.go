// Package sellerindex holds the in-process snapshot of the seller directory.
// Request handling only reads it; the snapshot is replaced wholesale when the
// aggregator announces a refresh.
package sellerindex

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

type snapshot struct {
	// entries sorted by win count descending, name ascending on ties, so a
	// prefix scan yields results already in answer order.
	entries []domain.SellerEntry
}

type Index struct {
	snap atomic.Pointer[snapshot]
}

func New(entries []domain.SellerEntry) *Index {
	idx := &Index{}
	idx.Replace(entries)
	return idx
}

// Replace swaps in a freshly built snapshot. Safe to call while readers are
// iterating the previous one.
func (idx *Index) Replace(entries []domain.SellerEntry) {
	normalized := make([]domain.SellerEntry, 0, len(entries))
	for _, entry := range entries {
		name := strings.ToUpper(strings.TrimSpace(entry.Name))
		if name == "" {
			continue
		}
		normalized = append(normalized, domain.SellerEntry{Name: name, WinCount: entry.WinCount})
	}
	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].WinCount != normalized[j].WinCount {
			return normalized[i].WinCount > normalized[j].WinCount
		}
		return normalized[i].Name < normalized[j].Name
	})
	idx.snap.Store(&snapshot{entries: normalized})
}

// PrefixSearch returns up to limit entries whose name starts with prefix,
// ordered by win count descending, name ascending on ties. The prefix must
// already be uppercased; matching is strictly prefix-anchored.
func (idx *Index) PrefixSearch(prefix string, limit int) []domain.SellerEntry {
	snap := idx.snap.Load()
	if snap == nil || prefix == "" || limit <= 0 {
		return nil
	}

	out := make([]domain.SellerEntry, 0, limit)
	for _, entry := range snap.entries {
		if !strings.HasPrefix(entry.Name, prefix) {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (idx *Index) Size() int {
	snap := idx.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}
