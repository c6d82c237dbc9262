package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/nobrokerage/go-property-chatbot/internal/adapter/ai"
	"github.com/nobrokerage/go-property-chatbot/internal/adapter/store"
	"github.com/nobrokerage/go-property-chatbot/internal/handler"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
	"github.com/nobrokerage/go-property-chatbot/internal/service"
	"github.com/nobrokerage/go-property-chatbot/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting NoBrokerage Chatbot",
		"port", cfg.Port,
		"index_backend", cfg.IndexBackend,
		"ollama_embed", cfg.OllamaEmbedURL,
		"ollama_generate", cfg.OllamaGenerateURL,
	)

	// ── AI provider ──────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaGenerateURL,
			Model:   cfg.OllamaGenerateModel,
			Token:   cfg.OllamaGenerateToken,
		},
	)

	// ── Listing index ────────────────────────────────────────────────────
	retriever, cleanup, err := buildRetriever(cfg, ollamaAI)
	if err != nil {
		slog.Error("failed to open listing index", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Missing or empty persisted index is fatal: refuse to serve traffic.
	readyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := retriever.Ready(readyCtx); err != nil {
		slog.Error("listing index not ready", "error", err)
		os.Exit(1)
	}

	// ── Services ─────────────────────────────────────────────────────────
	summarizer := service.NewSummarizer(ollamaAI)
	chatService := service.NewChatService(retriever, summarizer, cfg.TopK)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
			"model":  ollamaAI.ModelName(),
		})
	})

	api := app.Group("/api/v1")

	chatHandler := handler.NewChatHandler(chatService)
	chatHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildRetriever opens the configured index backend and returns it with
// its cleanup function.
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
