package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
)

const (
	// DefaultTopK is the retrieval depth for one query.
	DefaultTopK = 12

	noAlternativesSummary = "No matching properties found and no alternatives available."
)

// ChatService composes the full pipeline: interpret, retrieve, filter,
// build context, summarize, patch card links.
type ChatService struct {
	retriever  port.Retriever
	summarizer *Summarizer
	topK       int
}

// NewChatService creates a chat service over the given retriever and
// summarizer. topK <= 0 falls back to DefaultTopK.
func NewChatService(retriever port.Retriever, summarizer *Summarizer, topK int) *ChatService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ChatService{retriever: retriever, summarizer: summarizer, topK: topK}
}

// Handle answers one query end to end. Errors surface only from the two
// external calls (retrieval and generation); everything else degrades to
// a well-formed payload per the fallback policy.
func (s *ChatService) Handle(ctx context.Context, query string) (domain.ChatResult, error) {
	slog.Info("chat query", "query", query)

	intent := ParseIntent(query)

	candidates, err := s.retriever.Search(ctx, query, s.topK)
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("semantic search: %w", err)
	}

	filtered := ApplyFilters(candidates, intent)

	// Fallback: nothing survived the deterministic filter, so let the
	// model summarize the best raw matches instead of answering empty.
	used := filtered
	if len(used) == 0 {
		used = candidates
		if len(used) > domain.MaxCards {
			used = used[:domain.MaxCards]
		}
	}

	if len(used) == 0 {
		slog.Info("no candidates retrieved", "query", query)
		return domain.ChatResult{Summary: noAlternativesSummary, Cards: []domain.Card{}}, nil
	}

	slog.Info("candidates selected",
		"retrieved", len(candidates),
		"filtered", len(filtered),
		"used", len(used),
	)

	result, err := s.summarizer.Summarize(ctx, query, BuildContext(used))
	if err != nil {
		return domain.ChatResult{}, err
	}

	patchCardLinks(result.Cards, used)
	return result, nil
}

// patchCardLinks synthesizes a call-to-action URL from the underlying
// record's slug for every card the model left blank. Cards pair with
// records strictly by position; if the model reorders cards relative to
// the context lines, links may mis-attribute. Known limitation.
func patchCardLinks(cards []domain.Card, records []domain.ScoredListing) {
	for i := range cards {
		if i >= len(records) {
			break
		}
		if cards[i].CTAURL == "" {
			cards[i].CTAURL = "/project/" + records[i].Slug
		}
	}
}
