package port

import "context"

// AIProvider abstracts the embedding and text-generation backend.
// Implementations can target Ollama, OpenAI, or any compatible API.
type AIProvider interface {
	// ModelName returns the identifier of the generation model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Generate sends a complete prompt and returns the raw model output.
	// Single-shot: no streaming, no conversation state between calls.
	Generate(ctx context.Context, prompt string) (string, error)
}
