package sellerindex

import (
	"reflect"
	"testing"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
)

func TestPrefixSearchOrdersByWinCountDescending(t *testing.T) {
	idx := New([]domain.SellerEntry{
		{Name: "ALPHAWORKS", WinCount: 3},
		{Name: "ALPHATECH", WinCount: 10},
		{Name: "ZALPHA", WinCount: 50},
	})

	got := idx.PrefixSearch("ALPHA", 8)
	want := []domain.SellerEntry{
		{Name: "ALPHATECH", WinCount: 10},
		{Name: "ALPHAWORKS", WinCount: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPrefixSearchExcludesMidStringMatches(t *testing.T) {
	idx := New([]domain.SellerEntry{{Name: "ZALPHA", WinCount: 50}})

	if got := idx.PrefixSearch("ALPHA", 8); len(got) != 0 {
		t.Fatalf("ZALPHA contains the query but is not a prefix match, got %v", got)
	}
}

func TestPrefixSearchBreaksTiesByName(t *testing.T) {
	idx := New([]domain.SellerEntry{
		{Name: "ALPHA BETA", WinCount: 5},
		{Name: "ALPHA ACME", WinCount: 5},
	})

	got := idx.PrefixSearch("ALPHA", 8)
	if len(got) != 2 || got[0].Name != "ALPHA ACME" || got[1].Name != "ALPHA BETA" {
		t.Fatalf("expected deterministic name ordering on equal counts, got %v", got)
	}
}

func TestPrefixSearchTruncatesToLimit(t *testing.T) {
	entries := []domain.SellerEntry{
		{Name: "ALPHA1", WinCount: 9}, {Name: "ALPHA2", WinCount: 8},
		{Name: "ALPHA3", WinCount: 7}, {Name: "ALPHA4", WinCount: 6},
	}
	idx := New(entries)

	if got := idx.PrefixSearch("ALPHA", 2); len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestReplaceNormalizesAndSwapsSnapshot(t *testing.T) {
	idx := New([]domain.SellerEntry{{Name: "old seller", WinCount: 1}})
	if idx.Size() != 1 {
		t.Fatalf("expected size 1, got %d", idx.Size())
	}

	idx.Replace([]domain.SellerEntry{
		{Name: "  new seller  ", WinCount: 2},
		{Name: "", WinCount: 9},
	})

	if idx.Size() != 1 {
		t.Fatalf("expected empty names dropped, size 1, got %d", idx.Size())
	}
	got := idx.PrefixSearch("NEW", 8)
	if len(got) != 1 || got[0].Name != "NEW SELLER" {
		t.Fatalf("expected uppercased trimmed entry, got %v", got)
	}
	if old := idx.PrefixSearch("OLD", 8); len(old) != 0 {
		t.Fatalf("expected old snapshot gone, got %v", old)
	}
}
