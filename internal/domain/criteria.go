package domain

// SortMode selects the final ordering of a filtered result list.
type SortMode string

// Supported sort modes. Anything else preserves the incoming
// (backend relevance) order.
const (
	SortBestMatch SortMode = "best-match"
	SortRelevance SortMode = "relevance"
	SortRating    SortMode = "rating"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// Criteria is one structured refinement request. An empty selection on any
// dimension means "no constraint on that dimension", never "match nothing".
type Criteria struct {
	Categories  []string `json:"categories,omitempty"`
	PriceRanges []string `json:"priceRanges,omitempty"`
	MinRating   float64  `json:"minRating,omitempty"`
	Locations   []string `json:"locations,omitempty"`
	Features    []string `json:"features,omitempty"`
	OpenNow     bool     `json:"openNow,omitempty"`
	Sort        SortMode `json:"sort,omitempty"`
}

// IsZero reports whether no dimension carries a constraint and no explicit
// sort mode is selected.
func (c Criteria) IsZero() bool {
	return len(c.Categories) == 0 &&
		len(c.PriceRanges) == 0 &&
		c.MinRating == 0 &&
		len(c.Locations) == 0 &&
		len(c.Features) == 0 &&
		!c.OpenNow &&
		c.Sort == ""
}
