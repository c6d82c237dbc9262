// Command chat is a line-oriented loop for exercising the pipeline by
// hand: one query per line, summary printed, "exit" or "quit" to leave.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nobrokerage/go-property-chatbot/internal/adapter/ai"
	"github.com/nobrokerage/go-property-chatbot/internal/adapter/store"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
	"github.com/nobrokerage/go-property-chatbot/internal/service"
	"github.com/nobrokerage/go-property-chatbot/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{BaseURL: cfg.OllamaEmbedURL, Model: cfg.OllamaEmbedModel, Token: cfg.OllamaEmbedToken},
		ai.OllamaEndpointConfig{BaseURL: cfg.OllamaGenerateURL, Model: cfg.OllamaGenerateModel, Token: cfg.OllamaGenerateToken},
	)

	retriever, cleanup, err := buildRetriever(cfg, ollamaAI)
	if err != nil {
		slog.Error("failed to open listing index", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	readyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := retriever.Ready(readyCtx); err != nil {
		slog.Error("listing index not ready", "error", err)
		os.Exit(1)
	}

	chatService := service.NewChatService(retriever, service.NewSummarizer(ollamaAI), cfg.TopK)

	fmt.Println("NoBrokerage Chatbot — grounded summary + cards.")
	fmt.Println("Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter user query: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if q := strings.ToLower(query); q == "exit" || q == "quit" {
			break
		}

		result, err := chatService.Handle(context.Background(), query)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Println("\n=== Summary ===")
		fmt.Println(result.Summary)
	}
}

func buildRetriever(cfg *config.Config, ollamaAI port.AIProvider) (port.Retriever, func(), error) {
	switch cfg.IndexBackend {
	case config.BackendQdrant:
		qd, err := store.NewQdrantStore(cfg.QdrantAddr, cfg.QdrantCollection, ollamaAI)
		if err != nil {
			return nil, nil, err
		}
		return qd, func() { qd.Close() }, nil
	default:
		pg, err := store.NewPostgresStore(cfg.DatabaseURL, cfg.MaxConnections, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		return store.NewVectorStore(pg, ollamaAI), func() { pg.Close() }, nil
	}
}
