package port

import (
	"context"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// Retriever wraps a vector similarity search over the listing index.
// Results come back in descending similarity order; no filtering is
// applied at this stage.
type Retriever interface {
	// Search returns up to k listings most similar to the raw query text.
	Search(ctx context.Context, query string, k int) ([]domain.ScoredListing, error)

	// Ready verifies the index is loaded and non-empty. Called once at
	// startup; a failure is fatal and the process must not serve traffic.
	Ready(ctx context.Context) error

	// Count reports how many records the index holds.
	Count(ctx context.Context) (int, error)
}

// Indexer is the write side of the listing index, used by ingestion only.
type Indexer interface {
	// Upsert stores listings with their embedding vectors.
	Upsert(ctx context.Context, listings []domain.Listing, vectors [][]float32) error
}
