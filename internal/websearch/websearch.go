// Package websearch provides the web, news, and reverse-image search clients
// behind the aggregation tasks. Two backends exist: SerpAPI (default, full
// surface) and Google Custom Search (web-only).
package websearch

import (
	"context"

	"backgrounder/internal/types"
)

// MaxResults caps how many hits a single query contributes.
const MaxResults = 8

// Client runs web and news searches.
type Client interface {
	// Search runs a standard web search. Hits on the excluded profile
	// domain are dropped so LinkedIn discovery stays with the providers.
	Search(ctx context.Context, query string) ([]types.SearchHit, error)
	// SearchNews runs a news search. Hits carry Source "news".
	SearchNews(ctx context.Context, query string) ([]types.SearchHit, error)
	// SearchRaw runs a web search with no domain filtering and no cap
	// beyond num. The social and reference scans depend on LinkedIn and
	// platform hits that Search would drop.
	SearchRaw(ctx context.Context, query string, num int) ([]types.SearchHit, error)
}

// EntitySearcher exposes the knowledge-graph surface used by company
// verification. Backends without a knowledge graph return organic hits only.
type EntitySearcher interface {
	SearchEntity(ctx context.Context, query string) (*EntityResult, error)
}

// KnowledgeGraph is Google's own identification of a searched entity.
type KnowledgeGraph struct {
	Title       string
	Description string
	Website     string
}

// EntityResult is the outcome of an entity search.
type EntityResult struct {
	Knowledge *KnowledgeGraph // nil when the backend produced none
	Organic   []types.SearchHit
}

// LensClient runs reverse image searches. Only the SerpAPI backend
// implements it.
type LensClient interface {
	ReverseImage(ctx context.Context, imageURL string) (*LensResult, error)
}

// LensMatch is one page where the probe image (or a near-duplicate) appears.
type LensMatch struct {
	Title     string
	Link      string
	Source    string
	Thumbnail string
}

// LensEntity is a knowledge-graph identification of the pictured person.
type LensEntity struct {
	Title string
	Link  string
}

// LensResult is the raw outcome of a reverse image search.
type LensResult struct {
	VisualMatches  []LensMatch
	ExactMatches   []LensMatch
	KnowledgeGraph []LensEntity
}
