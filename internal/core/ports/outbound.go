package ports

import (
	"context"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

// PageFetcher retrieves the raw HTML of a public page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SectionDiscoverer lists the sections to ingest, ordered and deduplicated.
type SectionDiscoverer interface {
	Discover(ctx context.Context) ([]domain.Section, error)
}

// SectionScraper extracts the rendered body text of one section page.
type SectionScraper interface {
	Scrape(ctx context.Context, section domain.Section) (string, error)
}

// Chunker splits scraped text into bounded-size embedding units.
type Chunker interface {
	Split(text string) []string
}

// Embedder maps text into the shared embedding space. Ingestion and query
// must go through the same implementation so vectors stay comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is the persisted similarity index.
type VectorIndex interface {
	Clear(ctx context.Context) error
	Upsert(ctx context.Context, records []domain.ChunkRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]domain.EvidenceMatch, error)
}

// Completer produces one model completion for an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error)
}
