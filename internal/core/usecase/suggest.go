package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tenderwatch/tender-aggregator/internal/core/domain"
	"github.com/tenderwatch/tender-aggregator/internal/core/ports"
)

const (
	// suggestLimit caps every suggestion response.
	suggestLimit = 8
	// minQueryLen gates store access for very short queries. Shorter input
	// yields an empty list, not an error.
	minQueryLen = 2
)

// SuggestService answers type-scoped autocomplete queries. Seller queries
// run through one of two strategies: substring matching over the record
// rows with prefix-first ranking, or prefix lookups against the seller
// directory ordered by win frequency.
type SuggestService struct {
	records     ports.RecordRepository
	index       ports.SellerIndex
	defaultMode domain.SellerSuggestMode
}

func NewSuggestService(records ports.RecordRepository, index ports.SellerIndex, defaultMode domain.SellerSuggestMode) *SuggestService {
	if defaultMode != domain.SellerModePrefix {
		defaultMode = domain.SellerModeSubstring
	}
	return &SuggestService{
		records:     records,
		index:       index,
		defaultMode: defaultMode,
	}
}

func (s *SuggestService) Suggest(ctx context.Context, typ domain.SuggestionType, query string, mode domain.SellerSuggestMode) ([]string, error) {
	query = strings.TrimSpace(query)
	// Length gates on characters, not bytes: one Devanagari initial is three
	// bytes but still a single-character query.
	if utf8.RuneCountInString(query) < minQueryLen {
		return []string{}, nil
	}

	switch typ {
	case domain.SuggestMinistry, domain.SuggestDepartment:
		values, err := s.records.DistinctBuyerValues(ctx, typ, query, suggestLimit)
		if err != nil {
			return nil, fmt.Errorf("suggest %s: %w", typ, err)
		}
		return compactNonEmpty(values, suggestLimit), nil
	case domain.SuggestSeller:
		if mode != domain.SellerModeSubstring && mode != domain.SellerModePrefix {
			mode = s.defaultMode
		}
		if mode == domain.SellerModePrefix {
			return s.suggestSellerPrefix(query), nil
		}
		return s.suggestSellerSubstring(ctx, query)
	default:
		// Unrecognized types answer with an empty list, never an error.
		return []string{}, nil
	}
}

// suggestSellerSubstring gathers all three seller slots across matching
// success records, deduplicates case-insensitively, then ranks entries whose
// name starts with the query ahead of mid-string matches. Ties break on
// plain ordinal order.
func (s *SuggestService) suggestSellerSubstring(ctx context.Context, query string) ([]string, error) {
	candidates, err := s.records.SellerCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("suggest seller: %w", err)
	}

	needle := strings.ToLower(query)
	seen := make(map[string]struct{}, len(candidates))
	matched := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		folded := strings.ToLower(candidate)
		if !strings.Contains(folded, needle) {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		matched = append(matched, candidate)
	}

	sort.Slice(matched, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(matched[i]), needle)
		pj := strings.HasPrefix(strings.ToLower(matched[j]), needle)
		if pi != pj {
			return pi
		}
		return matched[i] < matched[j]
	})

	if len(matched) > suggestLimit {
		matched = matched[:suggestLimit]
	}
	return matched, nil
}

// suggestSellerPrefix consults only the directory snapshot. Matching is
// strictly prefix-anchored on the uppercased query; record rows are never
// touched.
func (s *SuggestService) suggestSellerPrefix(query string) []string {
	entries := s.index.PrefixSearch(strings.ToUpper(query), suggestLimit)
	options := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		options = append(options, entry.Name)
	}
	return options
}

func compactNonEmpty(values []string, limit int) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}
