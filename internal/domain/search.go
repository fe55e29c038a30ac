package domain

// SearchMetadata describes how the backend produced a result set.
type SearchMetadata struct {
	OriginalQuery         string   `json:"originalQuery"`
	RewrittenQuery        string   `json:"rewrittenQuery,omitempty"`
	SearchSteps           []string `json:"searchSteps,omitempty"`
	TotalProcessingTimeMs int64    `json:"totalProcessingTime"`
}

// ResultSet is one resolved search: the query, the ordered scored
// restaurants, and the backend's pipeline metadata. Generation is a
// client-side sequence number used to reject stale responses: a response
// may only replace stored state if its generation is not older than the
// one already stored.
type ResultSet struct {
	Query       string         `json:"query"`
	Restaurants []Restaurant   `json:"restaurants"`
	Metadata    SearchMetadata `json:"metadata"`
	Generation  uint64         `json:"generation"`
}
