package store

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
)

const listingColumns = `slug, project_name, project_type, project_category, status, bhk,
	price, price_in_cr, carpet_area, bathrooms, balcony, furnished_type, lift,
	possession_date, city, locality, address, amenities, content, created_at, updated_at`

// VectorStore implements port.Retriever and port.Indexer over a pgvector
// listings table. Query text is embedded through the AI provider before
// the nearest-neighbor search.
type VectorStore struct {
	store *PostgresStore
	ai    port.AIProvider
}

// NewVectorStore creates a pgvector-backed retriever.
func NewVectorStore(store *PostgresStore, ai port.AIProvider) *VectorStore {
	return &VectorStore{store: store, ai: ai}
}

// Search embeds the query and returns the k most similar listings by
// cosine distance, best first.
func (v *VectorStore) Search(ctx context.Context, query string, k int) ([]domain.ScoredListing, error) {
	vec, err := v.ai.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	sql := fmt.Sprintf(`SELECT %s, 1 - (embedding <=> $1) AS similarity
		FROM listings
		ORDER BY embedding <=> $1
		LIMIT $2`, listingColumns)

	var results []domain.ScoredListing
	if err := v.store.db.SelectContext(ctx, &results, sql, pgvector.NewVector(vec), k); err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return results, nil
}

// Ready verifies the listings table exists and holds at least one vector.
func (v *VectorStore) Ready(ctx context.Context) error {
	n, err := v.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrIndexUnavailable, err)
	}
	if n == 0 {
		return port.ErrIndexEmpty
	}
	return nil
}

// Count reports how many listings the index holds.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings WHERE embedding IS NOT NULL`); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// Upsert stores listings with their embedding vectors, keyed by slug.
func (v *VectorStore) Upsert(ctx context.Context, listings []domain.Listing, vectors [][]float32) error {
	if len(listings) == 0 {
		return nil
	}
	if len(listings) != len(vectors) {
		return fmt.Errorf("upsert listings: %d listings but %d vectors", len(listings), len(vectors))
	}

	tx, err := v.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO listings (slug, project_name, project_type, project_category, status, bhk,
			price, price_in_cr, carpet_area, bathrooms, balcony, furnished_type, lift,
			possession_date, city, locality, address, amenities, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (slug) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			status = EXCLUDED.status,
			bhk = EXCLUDED.bhk,
			price = EXCLUDED.price,
			price_in_cr = EXCLUDED.price_in_cr,
			possession_date = EXCLUDED.possession_date,
			city = EXCLUDED.city,
			locality = EXCLUDED.locality,
			address = EXCLUDED.address,
			amenities = EXCLUDED.amenities,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx,
			l.Slug, l.ProjectName, l.ProjectType, l.ProjectCategory, l.Status, l.BHK,
			l.Price, l.PriceInCr, l.CarpetArea, l.Bathrooms, l.Balcony, l.FurnishedType, l.Lift,
			l.PossessionDate, l.City, l.Locality, l.Address, l.Amenities, l.Content,
			pgvector.NewVector(vectors[i]),
		); err != nil {
			return fmt.Errorf("upsert listing %s: %w", l.Slug, err)
		}
	}

	return tx.Commit()
}
