// Package scoring computes the heuristic match score used when the backend
// did not supply an authoritative aiMatchScore. It is a bounded,
// deterministic fallback: the same (id, query) pair always yields the same
// score, with or without network access.
package scoring

import (
	"strings"

	"github.com/chowgpt/chowgo/internal/domain"
)

// Score bounds and the baseline for restaurants missing from the table.
const (
	DefaultBaseline = 70
	MinScore        = 20
	MaxScore        = 99
)

// baselines holds the fixed per-restaurant baseline scores.
var baselines = map[string]int{
	"1":  97, // Harbour House
	"2":  91, // The Codfather
	"3":  95, // La Colombe
	"4":  84, // Mzansi
	"5":  78, // Panama Jacks
	"6":  65, // Spur Steak Ranch
	"7":  72, // Ocean Basket
	"8":  42, // Truth Coffee
	"9":  88, // Gold Restaurant
	"10": 60, // Eastern Food Bazaar
	"11": 93, // The Test Kitchen
	"12": 90, // Kloof Street House
}

// adjustments maps an intent keyword to signed per-restaurant deltas.
// Matched keywords simply sum onto the baseline; no keyword cancels
// another's effect.
var adjustments = map[string]map[string]int{
	"romantic": {
		"1": +4, "3": +5, "9": +3, "11": +4, "12": +6,
		"6": -8, "7": -6, "8": -12, "10": -10,
	},
	"seafood": {
		"1": +3, "2": +6, "5": +5, "7": +4,
		"6": -3, "8": -8, "10": -4,
	},
	"family": {
		"4": +5, "5": +3, "6": +8, "7": +6,
		"3": -6, "8": -2, "11": -7, "12": -4,
	},
	"budget": {
		"6": +4, "7": +5, "8": +3, "10": +8,
		"1": -6, "3": -10, "9": -5, "11": -9,
	},
	"luxury": {
		"1": +5, "3": +6, "9": +4, "11": +6, "12": +3,
		"6": -6, "7": -7, "8": -5, "10": -9,
	},
}

// Score returns the heuristic match score for a restaurant, in
// [MinScore, MaxScore]. The optional free-text query is scanned
// case-insensitively for intent keywords; every matching keyword's
// adjustment for this restaurant is summed onto the baseline before
// clamping.
func Score(id, query string) int {
	score, ok := baselines[id]
	if !ok {
		score = DefaultBaseline
	}

	if query != "" {
		q := strings.ToLower(query)
		for keyword, deltas := range adjustments {
			if strings.Contains(q, keyword) {
				score += deltas[id]
			}
		}
	}

	return clamp(score)
}

// Fill sets the heuristic score on every restaurant the backend left
// unscored. Records carrying an authoritative aiMatchScore are untouched.
func Fill(restaurants []domain.Restaurant, query string) {
	for i := range restaurants {
		if restaurants[i].AIMatchScore != nil {
			continue
		}
		s := Score(restaurants[i].ID, query)
		restaurants[i].AIMatchScore = &s
	}
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
