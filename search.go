package chowgo

import (
	"context"
	"fmt"
	"time"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/metrics"
	"github.com/chowgpt/chowgo/internal/normalize"
	"github.com/chowgpt/chowgo/internal/scoring"
	"github.com/chowgpt/chowgo/internal/transport/rest"
)

// Search sends a free-text dining query to the backend, normalizes and
// scores the results, applies the optional filters, and persists the
// outcome as the session's search state. Responses resolving after a newer
// request already stored its results are rejected with ErrStaleResponse
// rather than silently overwriting state.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (rs SearchResultSet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if opts == nil {
		opts = &SearchOptions{}
	}
	criteria := criteriaToInternal(opts.Filters)
	generation := c.sessions.NextGeneration()

	data, err := c.api.Search(ctx, rest.SearchRequest{
		Query:   query,
		Filters: criteriaPtr(criteria),
		Limit:   opts.Limit,
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return SearchResultSet{}, fmt.Errorf("search: %w", err)
	}
	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchRequestDuration.Observe(time.Since(start).Seconds())

	restaurants := normalize.Records(data.Restaurants)
	// Records the backend left unscored degrade to the deterministic
	// heuristic; authoritative aiMatchScore values pass through untouched.
	scoring.Fill(restaurants, query)

	result := domain.ResultSet{
		Query:       query,
		Restaurants: restaurants,
		Metadata: domain.SearchMetadata{
			OriginalQuery:         data.SearchMetadata.OriginalQuery,
			RewrittenQuery:        data.SearchMetadata.RewrittenQuery,
			SearchSteps:           data.SearchMetadata.SearchSteps,
			TotalProcessingTimeMs: data.SearchMetadata.TotalProcessingTimeMs,
		},
		Generation: generation,
	}
	if result.Metadata.OriginalQuery == "" {
		result.Metadata.OriginalQuery = query
	}

	if err := c.sessions.SaveSearch(ctx, c.sessionID, result); err != nil {
		return SearchResultSet{}, fmt.Errorf("search: %w", err)
	}

	filtered := c.pipe.Apply(restaurants, criteria, query)
	return resultSetFromInternal(&result, filtered), nil
}

// Refine re-applies structured filters to the session's last stored search
// without touching the network. Returns ErrNoSearchState when no search
// has resolved yet (or its TTL elapsed).
func (c *Client) Refine(ctx context.Context, filters *FilterCriteria) (rs SearchResultSet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("refine", start, err) }()

	stored, err := c.sessions.LoadSearch(ctx, c.sessionID)
	if err != nil {
		return SearchResultSet{}, fmt.Errorf("refine: %w", err)
	}

	criteria := criteriaToInternal(filters)
	filtered := c.pipe.Apply(stored.Restaurants, criteria, stored.Query)
	return resultSetFromInternal(&stored, filtered), nil
}

// Explain asks the backend why a restaurant matches the user's query.
func (c *Client) Explain(ctx context.Context, restaurantID, userQuery string) (ex Explanation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("explain", start, err) }()

	data, err := c.api.Explain(ctx, restaurantID, userQuery)
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}
	return Explanation{
		RestaurantID:      data.RestaurantID,
		UserQuery:         data.UserQuery,
		OverallAssessment: data.Explanation.OverallAssessment,
		WhatMatches:       data.Explanation.WhatMatches,
		ThingsToConsider:  data.Explanation.ThingsToConsider,
		ResponseTimeMs:    data.ResponseTimeMs,
	}, nil
}

// criteriaPtr hands the backend the filters only when any are set.
func criteriaPtr(c domain.Criteria) *domain.Criteria {
	if c.IsZero() {
		return nil
	}
	return &c
}
