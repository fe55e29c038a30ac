package chowgo

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SortMode selects the ordering of a result list.
type SortMode string

// Supported sort modes. An unset mode preserves the backend relevance order.
const (
	SortBestMatch SortMode = "best-match"
	SortRelevance SortMode = "relevance"
	SortRating    SortMode = "rating"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// Review is one customer review on a restaurant record.
type Review struct {
	Name        string
	Text        string
	Stars       float64
	PublishedAt string
}

// Restaurant is a canonical scored restaurant record.
type Restaurant struct {
	ID           string
	Name         string
	Category     string
	Categories   []string
	TotalScore   float64
	ReviewsCount int
	Price        string
	Neighborhood string

	ReviewsTags    []string
	Highlights     []string
	Offerings      []string
	ServiceOptions []string

	Reviews []Review

	VectorScore  *float64
	KeywordScore *float64
	LLMScore     *float64
	MatchScore   int
	LLMReasoning string
}

// FilterCriteria is a structured refinement request. An empty selection on
// any dimension means no constraint on that dimension.
type FilterCriteria struct {
	Categories  []string
	PriceRanges []string
	MinRating   float64
	Locations   []string
	Features    []string
	OpenNow     bool
	Sort        SortMode
}

// SearchOptions configures a search call.
type SearchOptions struct {
	Filters *FilterCriteria
	Limit   int
}

// SearchMetadata describes how the backend produced a result set.
type SearchMetadata struct {
	OriginalQuery         string
	RewrittenQuery        string
	SearchSteps           []string
	TotalProcessingTimeMs int64
}

// SearchResultSet is one resolved, filtered, ordered search.
type SearchResultSet struct {
	Query       string
	Restaurants []Restaurant
	Metadata    SearchMetadata
}

// ChatMessage is one chat transcript entry.
type ChatMessage struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Explanation is the AI match explanation for one restaurant.
type Explanation struct {
	RestaurantID      string
	UserQuery         string
	OverallAssessment string
	WhatMatches       []string
	ThingsToConsider  []string
	ResponseTimeMs    int64
}
