// Command ingest loads listing CSV exports, embeds each record's text,
// and upserts vectors plus structured metadata into the index backend.
// With -stats it only reports how many records the index holds.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/nobrokerage/go-property-chatbot/internal/adapter/ai"
	"github.com/nobrokerage/go-property-chatbot/internal/adapter/store"
	"github.com/nobrokerage/go-property-chatbot/internal/ingest"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
	"github.com/nobrokerage/go-property-chatbot/pkg/config"
)

const embedBatchSize = 64

func main() {
	dataDir := flag.String("data", "./data", "directory of listing CSV files")
	stats := flag.Bool("stats", false, "print index record count and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	ctx := context.Background()

	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{BaseURL: cfg.OllamaEmbedURL, Model: cfg.OllamaEmbedModel, Token: cfg.OllamaEmbedToken},
		ai.OllamaEndpointConfig{BaseURL: cfg.OllamaGenerateURL, Model: cfg.OllamaGenerateModel, Token: cfg.OllamaGenerateToken},
	)

	indexer, counter, cleanup, err := buildIndexer(ctx, cfg, ollamaAI)
	if err != nil {
		slog.Error("failed to open listing index", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if *stats {
		n, err := counter.Count(ctx)
		if err != nil {
			slog.Error("count failed", "error", err)
			os.Exit(1)
		}
		slog.Info("📦 index stats", "records", n)
		return
	}

	listings, err := ingest.ReadDir(*dataDir)
	if err != nil {
		slog.Error("failed to read listings", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded listings", "count", len(listings), "dir", *dataDir)

	for start := 0; start < len(listings); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]

		texts := make([]string, len(batch))
		for i, l := range batch {
			texts[i] = l.Content
		}

		vectors, err := ollamaAI.EmbedBatch(ctx, texts)
		if err != nil {
			slog.Error("embed batch failed", "start", start, "error", err)
			os.Exit(1)
		}

		if err := indexer.Upsert(ctx, batch, vectors); err != nil {
			slog.Error("upsert batch failed", "start", start, "error", err)
			os.Exit(1)
		}

		slog.Info("indexed batch", "from", start, "to", end)
	}

	slog.Info("✅ ingestion complete", "records", len(listings))
}

// buildIndexer opens the configured backend for writing. The qdrant
// collection is created on first use.
func buildIndexer(ctx context.Context, cfg *config.Config, ollamaAI port.AIProvider) (port.Indexer, port.Retriever, func(), error) {
	switch cfg.IndexBackend {
	case config.BackendQdrant:
		qd, err := store.NewQdrantStore(cfg.QdrantAddr, cfg.QdrantCollection, ollamaAI)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := qd.EnsureCollection(ctx, cfg.EmbeddingDimension); err != nil {
			qd.Close()
			return nil, nil, nil, err
		}
		return qd, qd, func() { qd.Close() }, nil
	default:
		pg, err := store.NewPostgresStore(cfg.DatabaseURL, cfg.MaxConnections, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, nil, err
		}
		vs := store.NewVectorStore(pg, ollamaAI)
		return vs, vs, func() { pg.Close() }, nil
	}
}
