package normalize

import (
	"reflect"
	"testing"
)

func TestRecord_CanonicalKeys(t *testing.T) {
	r := Record(map[string]any{
		"id":           "42",
		"title":        "Harbour House",
		"categoryName": "Seafood restaurant",
		"totalScore":   4.6,
		"reviewsCount": float64(2841),
		"price":        "R300-R600",
		"neighborhood": "V&A Waterfront",
	})

	if r.ID != "42" {
		t.Errorf("ID = %q", r.ID)
	}
	if r.Name != "Harbour House" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Category != "Seafood restaurant" {
		t.Errorf("Category = %q", r.Category)
	}
	if r.TotalScore != 4.6 {
		t.Errorf("TotalScore = %v", r.TotalScore)
	}
	if r.ReviewsCount != 2841 {
		t.Errorf("ReviewsCount = %d", r.ReviewsCount)
	}
	if r.Price != "R300-R600" {
		t.Errorf("Price = %q", r.Price)
	}
	if r.Neighborhood != "V&A Waterfront" {
		t.Errorf("Neighborhood = %q", r.Neighborhood)
	}
}

func TestRecord_AliasFallback(t *testing.T) {
	r := Record(map[string]any{
		"placeId":     "abc",
		"name":        "Mzansi",
		"category":    "African restaurant",
		"rating":      4.7,
		"reviewCount": float64(856),
		"priceRange":  "R150-R300",
		"location":    "Langa",
	})

	if r.ID != "abc" {
		t.Errorf("ID alias not resolved: %q", r.ID)
	}
	if r.Name != "Mzansi" {
		t.Errorf("Name alias not resolved: %q", r.Name)
	}
	if r.Category != "African restaurant" {
		t.Errorf("Category alias not resolved: %q", r.Category)
	}
	if r.TotalScore != 4.7 {
		t.Errorf("rating alias not resolved: %v", r.TotalScore)
	}
	if r.ReviewsCount != 856 {
		t.Errorf("reviewCount alias not resolved: %d", r.ReviewsCount)
	}
	if r.Price != "R150-R300" {
		t.Errorf("priceRange alias not resolved: %q", r.Price)
	}
	if r.Neighborhood != "Langa" {
		t.Errorf("location alias not resolved: %q", r.Neighborhood)
	}
}

func TestRecord_Defaults(t *testing.T) {
	r := Record(map[string]any{"id": "1"})

	if r.TotalScore != DefaultRating {
		t.Errorf("TotalScore default = %v, want %v", r.TotalScore, DefaultRating)
	}
	if r.Price != DefaultPrice {
		t.Errorf("Price default = %q, want %q", r.Price, DefaultPrice)
	}
	if r.ReviewsCount != 0 {
		t.Errorf("ReviewsCount default = %d, want 0", r.ReviewsCount)
	}
}

func TestRecord_MalformedFieldsDegrade(t *testing.T) {
	r := Record(map[string]any{
		"id":           "1",
		"totalScore":   "not a number",
		"reviewsCount": float64(-5),
		"price":        "",
	})

	if r.TotalScore != DefaultRating {
		t.Errorf("malformed totalScore = %v, want default %v", r.TotalScore, DefaultRating)
	}
	if r.ReviewsCount != 0 {
		t.Errorf("negative reviewsCount = %d, want 0", r.ReviewsCount)
	}
	if r.Price != DefaultPrice {
		t.Errorf("empty price = %q, want default %q", r.Price, DefaultPrice)
	}
}

func TestRecord_RatingOutOfRange(t *testing.T) {
	for _, score := range []float64{-1, 5.5, 100} {
		r := Record(map[string]any{"id": "1", "totalScore": score})
		if r.TotalScore != DefaultRating {
			t.Errorf("totalScore %v passed through as %v, want default", score, r.TotalScore)
		}
	}
}

func TestRecord_NumericString(t *testing.T) {
	r := Record(map[string]any{"id": "1", "totalScore": "4.2"})
	if r.TotalScore != 4.2 {
		t.Errorf("numeric string not coerced: %v", r.TotalScore)
	}
}

func TestRecord_AdditionalInfoTagGroups(t *testing.T) {
	r := Record(map[string]any{
		"id": "1",
		"additionalInfo": map[string]any{
			"Highlights": []any{
				map[string]any{"Great view": true},
				map[string]any{"Romantic": true},
				map[string]any{"Karaoke": false},
			},
			"Service options": []any{
				map[string]any{"Outdoor seating": true},
			},
		},
	})

	if !reflect.DeepEqual(r.Highlights, []string{"Great view", "Romantic"}) {
		t.Errorf("Highlights = %v", r.Highlights)
	}
	if !reflect.DeepEqual(r.ServiceOptions, []string{"Outdoor seating"}) {
		t.Errorf("ServiceOptions = %v", r.ServiceOptions)
	}
}

func TestRecord_FlatTagListWinsOverNested(t *testing.T) {
	r := Record(map[string]any{
		"id":         "1",
		"highlights": []any{"Live music"},
		"additionalInfo": map[string]any{
			"Highlights": []any{map[string]any{"Romantic": true}},
		},
	})

	if !reflect.DeepEqual(r.Highlights, []string{"Live music"}) {
		t.Errorf("flat list should win: %v", r.Highlights)
	}
}

func TestRecord_AIMatchScoreClamped(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{150, 100},
		{-20, 0},
		{88, 88},
	}

	for _, tt := range tests {
		r := Record(map[string]any{"id": "1", "aiMatchScore": tt.in})
		if r.AIMatchScore == nil || *r.AIMatchScore != tt.want {
			t.Errorf("aiMatchScore %v -> %v, want %d", tt.in, r.AIMatchScore, tt.want)
		}
	}
}

func TestRecord_AIMatchScoreAbsent(t *testing.T) {
	r := Record(map[string]any{"id": "1"})
	if r.AIMatchScore != nil {
		t.Errorf("absent aiMatchScore materialized as %d", *r.AIMatchScore)
	}
}

func TestRecord_Reviews(t *testing.T) {
	r := Record(map[string]any{
		"id": "1",
		"reviews": []any{
			map[string]any{"name": "Thandi M", "text": "Great fish", "stars": 5.0, "publishedAtDate": "2025-11-02"},
			"not a review",
		},
	})

	if len(r.Reviews) != 1 {
		t.Fatalf("Reviews = %v, want 1 entry", r.Reviews)
	}
	if r.Reviews[0].Name != "Thandi M" || r.Reviews[0].Stars != 5.0 {
		t.Errorf("review fields: %+v", r.Reviews[0])
	}
}

func TestRecords(t *testing.T) {
	out := Records([]map[string]any{
		{"id": "1", "title": "A"},
		{"id": "2", "title": "B"},
	})

	if len(out) != 2 || out[0].Name != "A" || out[1].Name != "B" {
		t.Errorf("Records = %+v", out)
	}
}
