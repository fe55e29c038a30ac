package domain

// Review is a single customer review attached to a restaurant record.
type Review struct {
	Name        string  `json:"name,omitempty"`
	Text        string  `json:"text,omitempty"`
	Stars       float64 `json:"stars,omitempty"`
	PublishedAt string  `json:"publishedAt,omitempty"`
}

// Restaurant is the canonical restaurant record every component downstream
// of the normalizer consumes. Backend payloads are loosely shaped; only the
// normalizer is allowed to build these.
type Restaurant struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Categories   []string `json:"categories,omitempty"`
	TotalScore   float64  `json:"totalScore"`
	ReviewsCount int      `json:"reviewsCount"`
	Price        string   `json:"price"`
	Neighborhood string   `json:"neighborhood"`

	ReviewsTags    []string `json:"reviewsTags,omitempty"`
	Highlights     []string `json:"highlights,omitempty"`
	Offerings      []string `json:"offerings,omitempty"`
	ServiceOptions []string `json:"serviceOptions,omitempty"`

	Reviews []Review `json:"reviews,omitempty"`

	// Score fields are optional: present only when the backend ran the
	// corresponding pipeline stage. All lie in [0,100].
	VectorScore  *float64 `json:"vectorScore,omitempty"`
	KeywordScore *float64 `json:"keywordScore,omitempty"`
	LLMScore     *float64 `json:"llmScore,omitempty"`
	AIMatchScore *int     `json:"aiMatchScore,omitempty"`
	LLMReasoning string   `json:"llmReasoning,omitempty"`
}

// MatchScore returns the effective match score: the backend-supplied
// aiMatchScore when present, otherwise 0 (callers fill the heuristic in).
func (r *Restaurant) MatchScore() int {
	if r.AIMatchScore != nil {
		return *r.AIMatchScore
	}
	return 0
}

// FeatureSets returns every tag list a feature filter may match against.
func (r *Restaurant) FeatureSets() [][]string {
	return [][]string{r.ReviewsTags, r.Highlights, r.Offerings, r.ServiceOptions}
}

// HasCategory reports whether the restaurant belongs to the given category,
// checking the primary category and the secondary list.
func (r *Restaurant) HasCategory(category string) bool {
	if r.Category == category {
		return true
	}
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}
