// Package normalize is the single validation and coercion boundary between
// loosely shaped backend payloads and the canonical restaurant record.
// Every downstream component consumes only its output.
package normalize

import (
	"strconv"

	"github.com/chowgpt/chowgo/internal/domain"
)

// Defaults applied when a field is absent or malformed.
const (
	DefaultRating = 4.0
	DefaultPrice  = "R150-R300"
)

// Record maps one backend result record into a canonical Restaurant.
// Field resolution is an ordered fallback: canonical key, then known
// aliases, then a computed default. It never fails; a malformed field
// degrades to its default instead of aborting the whole record.
func Record(raw map[string]any) domain.Restaurant {
	r := domain.Restaurant{
		ID:           str(raw, "id", "placeId", "restaurantId"),
		Name:         str(raw, "title", "name"),
		Category:     str(raw, "categoryName", "category"),
		Categories:   strs(raw, "categories"),
		TotalScore:   numOr(DefaultRating, raw, "totalScore", "rating"),
		ReviewsCount: count(raw, "reviewsCount", "reviewCount"),
		Price:        strOr(DefaultPrice, raw, "price", "priceRange"),
		Neighborhood: str(raw, "neighborhood", "location", "city"),

		ReviewsTags:    strs(raw, "reviewsTags"),
		Highlights:     tagGroup(raw, "highlights", "Highlights"),
		Offerings:      tagGroup(raw, "offerings", "Offerings"),
		ServiceOptions: tagGroup(raw, "serviceOptions", "Service options"),

		Reviews: reviews(raw),

		VectorScore:  scorePtr(raw, "vectorScore"),
		KeywordScore: scorePtr(raw, "keywordScore"),
		LLMScore:     scorePtr(raw, "llmScore"),
		LLMReasoning: str(raw, "llmReasoning"),
	}

	if s, ok := lookupNum(raw, "aiMatchScore"); ok {
		v := clampInt(int(s), 0, 100)
		r.AIMatchScore = &v
	}

	if r.TotalScore < 0 || r.TotalScore > 5 {
		r.TotalScore = DefaultRating
	}

	return r
}

// Records maps a slice of backend result records.
func Records(raws []map[string]any) []domain.Restaurant {
	out := make([]domain.Restaurant, len(raws))
	for i, raw := range raws {
		out[i] = Record(raw)
	}
	return out
}

func str(raw map[string]any, keys ...string) string {
	return strOr("", raw, keys...)
}

func strOr(def string, raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return def
}

func lookupNum(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func numOr(def float64, raw map[string]any, keys ...string) float64 {
	if v, ok := lookupNum(raw, keys...); ok {
		return v
	}
	return def
}

func count(raw map[string]any, keys ...string) int {
	v, ok := lookupNum(raw, keys...)
	if !ok || v < 0 {
		return 0
	}
	return int(v)
}

func strs(raw map[string]any, key string) []string {
	list, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tagGroup resolves a feature tag list either from a flat string list or
// from the nested additionalInfo shape of the original scrape records:
// additionalInfo.{group} is a list of single-key maps of flag -> bool.
func tagGroup(raw map[string]any, key, infoKey string) []string {
	if flat := strs(raw, key); len(flat) > 0 {
		return flat
	}

	info, ok := raw["additionalInfo"].(map[string]any)
	if !ok {
		return nil
	}
	group, ok := info[infoKey].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range group {
		flags, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for name, enabled := range flags {
			if on, ok := enabled.(bool); ok && on {
				out = append(out, name)
			}
		}
	}
	return out
}

func reviews(raw map[string]any) []domain.Review {
	list, ok := raw["reviews"].([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Review, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.Review{
			Name:        str(m, "name", "reviewerName"),
			Text:        str(m, "text", "textTranslated"),
			Stars:       numOr(0, m, "stars", "rating"),
			PublishedAt: str(m, "publishedAtDate", "publishAt"),
		})
	}
	return out
}

func scorePtr(raw map[string]any, key string) *float64 {
	v, ok := lookupNum(raw, key)
	if !ok {
		return nil
	}
	c := clampFloat(v, 0, 100)
	return &c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
