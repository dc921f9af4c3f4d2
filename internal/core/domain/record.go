package domain

import "time"

type ExtractionStatus string

const (
	StatusPending ExtractionStatus = "pending"
	StatusSuccess ExtractionStatus = "success"
	StatusFailed  ExtractionStatus = "failed"
)

// Record is one extracted tender/bid. Rows are written by the external
// extraction pipeline; this service only reads them, and only rows with
// StatusSuccess are eligible for listing, suggestion or export.
type Record struct {
	ID           string           `json:"id"`
	BidNumber    string           `json:"bid_number"`
	ItemCategory string           `json:"item_category,omitempty"`
	Ministry     string           `json:"ministry,omitempty"`
	Department   string           `json:"department,omitempty"`
	L1Seller     string           `json:"l1_seller,omitempty"`
	L2Seller     string           `json:"l2_seller,omitempty"`
	L3Seller     string           `json:"l3_seller,omitempty"`
	Status       ExtractionStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Sellers returns the three ranked seller names, top rank first.
// Empty slots are included; callers filter them.
func (r Record) Sellers() [3]string {
	return [3]string{r.L1Seller, r.L2Seller, r.L3Seller}
}

// RecordPage is one listing window plus the total count of success records.
// The count and the window come from two separate store round trips, so
// Total may drift from the sum of page lengths while the store is being
// written to. That gap is accepted.
type RecordPage struct {
	Data  []Record `json:"data"`
	Total int      `json:"total"`
}

// DocumentReference points at one source document of a record. OrderIndex
// defines the exact display order (ascending).
type DocumentReference struct {
	ID         string `json:"id"`
	RecordID   string `json:"record_id"`
	Filename   string `json:"filename"`
	SourceURL  string `json:"source_url"`
	SourceTag  string `json:"source_tag,omitempty"`
	OrderIndex int    `json:"order_index"`
}

// SellerEntry is one row of the seller directory: a display name plus how
// often that seller ranked L1 across success records. Names are stored
// uppercase so prefix lookups need no per-query normalization.
type SellerEntry struct {
	Name     string `json:"name"`
	WinCount int    `json:"win_count"`
}

type SuggestionType string

const (
	SuggestMinistry   SuggestionType = "ministry"
	SuggestDepartment SuggestionType = "department"
	SuggestSeller     SuggestionType = "seller"
)

// SellerSuggestMode names the two historically coexisting seller suggestion
// strategies. Both stay available; config picks the deployment default and
// callers may override per request.
type SellerSuggestMode string

const (
	// SellerModeSubstring matches the query anywhere in the seller name
	// across success records and ranks prefix matches first.
	SellerModeSubstring SellerSuggestMode = "substring"
	// SellerModePrefix consults only the seller directory, anchored at the
	// start of the name, ordered by win count.
	SellerModePrefix SellerSuggestMode = "prefix"
)
