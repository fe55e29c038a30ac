package chowgo

import "github.com/chowgpt/chowgo/internal/domain"

func criteriaToInternal(f *FilterCriteria) domain.Criteria {
	if f == nil {
		return domain.Criteria{}
	}
	return domain.Criteria{
		Categories:  f.Categories,
		PriceRanges: f.PriceRanges,
		MinRating:   f.MinRating,
		Locations:   f.Locations,
		Features:    f.Features,
		OpenNow:     f.OpenNow,
		Sort:        domain.SortMode(f.Sort),
	}
}

func restaurantFromInternal(r *domain.Restaurant) Restaurant {
	out := Restaurant{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		Categories:     r.Categories,
		TotalScore:     r.TotalScore,
		ReviewsCount:   r.ReviewsCount,
		Price:          r.Price,
		Neighborhood:   r.Neighborhood,
		ReviewsTags:    r.ReviewsTags,
		Highlights:     r.Highlights,
		Offerings:      r.Offerings,
		ServiceOptions: r.ServiceOptions,
		VectorScore:    r.VectorScore,
		KeywordScore:   r.KeywordScore,
		LLMScore:       r.LLMScore,
		MatchScore:     r.MatchScore(),
		LLMReasoning:   r.LLMReasoning,
	}
	if len(r.Reviews) > 0 {
		out.Reviews = make([]Review, len(r.Reviews))
		for i, rev := range r.Reviews {
			out.Reviews[i] = Review(rev)
		}
	}
	return out
}

func resultSetFromInternal(rs *domain.ResultSet, restaurants []domain.Restaurant) SearchResultSet {
	out := SearchResultSet{
		Query: rs.Query,
		Metadata: SearchMetadata{
			OriginalQuery:         rs.Metadata.OriginalQuery,
			RewrittenQuery:        rs.Metadata.RewrittenQuery,
			SearchSteps:           rs.Metadata.SearchSteps,
			TotalProcessingTimeMs: rs.Metadata.TotalProcessingTimeMs,
		},
		Restaurants: make([]Restaurant, len(restaurants)),
	}
	for i := range restaurants {
		out.Restaurants[i] = restaurantFromInternal(&restaurants[i])
	}
	return out
}

func messagesFromInternal(msgs []domain.Message) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{
			Role:      Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}
	return out
}
