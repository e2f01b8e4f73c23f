package result

import "github.com/kailas-cloud/lexsearch/internal/domain/document"

// Response is the canonical search response. Hits keep backend relevance order
// unless re-ranked.
type Response struct {
	Total        int                 `json:"total"`
	Hits         []document.Document `json:"hits"`
	Aggregations map[string]any      `json:"aggregations,omitempty"`
}

// DateRange is the corpus-wide span of legal dates.
type DateRange struct {
	Oldest string `json:"oldest"`
	Newest string `json:"newest"`
}
