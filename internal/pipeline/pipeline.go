// Package pipeline applies structured filter criteria to a scored result
// list and produces the final ordering. Filtering is conjunctive across
// dimensions and disjunctive within one: a restaurant survives only if it
// matches at least one selected value in every non-empty dimension.
package pipeline

import (
	"slices"
	"sort"

	"github.com/chowgpt/chowgo/internal/domain"
)

// Open-window heuristic for the open-now filter. A stand-in for real
// opening-hours parsing: every restaurant counts as open 11:00-22:00.
const (
	openHour  = 11
	closeHour = 22
)

// Price bucket labels keyed by the first integer found in a price label.
var priceBuckets = []struct {
	below int
	label string
}{
	{150, "Under R150"},
	{300, "R150-R300"},
	{600, "R300-R600"},
}

const priceBucketTop = "R600+"

// Pipeline filters and orders restaurant lists. Pure apart from the clock
// read the open-now check needs.
type Pipeline struct {
	clock domain.Clock
}

// New creates a pipeline. A nil clock falls back to the system clock.
func New(clock domain.Clock) *Pipeline {
	if clock == nil {
		clock = domain.SystemClock()
	}
	return &Pipeline{clock: clock}
}

// Apply filters restaurants by the criteria and orders the survivors by
// the selected sort mode. It never fails: fully filtered-out input yields
// an empty list. Re-applying the same criteria to its own output returns
// the same output.
func (p *Pipeline) Apply(
	restaurants []domain.Restaurant, c domain.Criteria, query string,
) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(restaurants))
	for i := range restaurants {
		if p.matches(&restaurants[i], c) {
			out = append(out, restaurants[i])
		}
	}

	sortRestaurants(out, c.Sort)
	return out
}

func (p *Pipeline) matches(r *domain.Restaurant, c domain.Criteria) bool {
	if len(c.Categories) > 0 && !matchesCategory(r, c.Categories) {
		return false
	}
	if len(c.PriceRanges) > 0 && !slices.Contains(c.PriceRanges, PriceBucket(r.Price)) {
		return false
	}
	if c.MinRating > 0 && r.TotalScore < c.MinRating {
		return false
	}
	if len(c.Locations) > 0 && !slices.Contains(c.Locations, r.Neighborhood) {
		return false
	}
	if len(c.Features) > 0 && !matchesFeature(r, c.Features) {
		return false
	}
	if c.OpenNow && !p.openNow() {
		return false
	}
	return true
}

func matchesCategory(r *domain.Restaurant, selected []string) bool {
	for _, cat := range selected {
		if r.HasCategory(cat) {
			return true
		}
	}
	return false
}

func matchesFeature(r *domain.Restaurant, selected []string) bool {
	for _, want := range selected {
		for _, set := range r.FeatureSets() {
			if slices.Contains(set, want) {
				return true
			}
		}
	}
	return false
}

// openNow applies the fixed open-window heuristic to the current hour.
func (p *Pipeline) openNow() bool {
	h := p.clock.Now().Hour()
	return h >= openHour && h < closeHour
}

// sortRestaurants orders the list in place by the sort mode. Every mode
// uses a stable sort so ties preserve the incoming (backend relevance)
// order; unknown or empty modes keep the incoming order untouched.
func sortRestaurants(rs []domain.Restaurant, mode domain.SortMode) {
	switch mode {
	case domain.SortBestMatch:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].MatchScore() > rs[j].MatchScore()
		})
	case domain.SortRating:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].TotalScore > rs[j].TotalScore
		})
	case domain.SortPriceAsc:
		sort.SliceStable(rs, func(i, j int) bool {
			return firstInt(rs[i].Price) < firstInt(rs[j].Price)
		})
	case domain.SortPriceDesc:
		sort.SliceStable(rs, func(i, j int) bool {
			return firstInt(rs[i].Price) > firstInt(rs[j].Price)
		})
	case domain.SortRelevance:
		// Backend relevance order is the incoming order.
	}
}

// PriceBucket maps a free-form price label onto one of the fixed
// price-range labels. Canonical labels pass through unchanged; anything
// else maps via the first integer found in it, and labels without a
// number land in the default mid bucket.
func PriceBucket(label string) string {
	if label == priceBucketTop {
		return label
	}
	for _, b := range priceBuckets {
		if label == b.label {
			return label
		}
	}

	n := firstInt(label)
	if n == 0 {
		return priceBuckets[1].label
	}
	for _, b := range priceBuckets {
		if n < b.below {
			return b.label
		}
	}
	return priceBucketTop
}

// firstInt returns the first run of digits in s as an integer, 0 if none.
func firstInt(s string) int {
	n, seen := 0, false
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int(s[i]-'0')
			seen = true
			continue
		}
		if seen {
			break
		}
	}
	if !seen {
		return 0
	}
	return n
}
