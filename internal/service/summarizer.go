package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
	"github.com/nobrokerage/go-property-chatbot/internal/port"
	"github.com/nobrokerage/go-property-chatbot/pkg/jsonx"
)

// parseErrorSummary is returned when the model output contains no
// recoverable JSON at all.
const parseErrorSummary = "Error: Could not parse LLM output as JSON."

const summaryPromptFormat = `You are an assistant for NoBrokerage.com. You will be given property records.
**INSTRUCTIONS:**
- Use ONLY the information in the provided records (do not hallucinate).
- Produce a JSON object with two keys: "summary" and "cards".
- "summary": 2-4 sentences summarizing matching properties, including price, BHK, readiness, localities, counts.
- "cards": list of at most 6 objects with keys: title, city_locality, bhk, price, project_name, possession_status, top_amenities (list of 1-3 strings), cta_url.
- If no records match, return:
{"summary":"No matching properties found. I expanded the search and found X alternatives.","cards":[]}
Records:
%s

User query:
%s
`

// Summarizer turns a context block and the original query into a grounded
// summary plus cards via one generation call. The use-only-these-records
// guarantee is enforced by prompt instruction, not code.
type Summarizer struct {
	ai port.AIProvider
}

// NewSummarizer creates a summarizer backed by the given provider.
func NewSummarizer(ai port.AIProvider) *Summarizer {
	return &Summarizer{ai: ai}
}

// Summarize builds the grounding prompt, invokes generation once (no
// retry loop), and parses the output into a validated result. Malformed
// output degrades to a fixed parse-error payload rather than an error.
func (s *Summarizer) Summarize(ctx context.Context, query, contextText string) (domain.ChatResult, error) {
	prompt := fmt.Sprintf(summaryPromptFormat, contextText, query)

	raw, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return domain.ChatResult{}, fmt.Errorf("generate summary: %w", err)
	}

	result := parseModelOutput(raw)
	enforceInvariants(&result, query)
	return result, nil
}

// parseModelOutput decodes the raw model text, recovering JSON buried in
// prose or code fences, and degrading to the parse-error sentinel.
func parseModelOutput(raw string) domain.ChatResult {
	var result domain.ChatResult
	if err := jsonx.Unmarshal(raw, &result); err != nil {
		slog.Warn("unparseable model output", "error", err)
		return domain.ChatResult{Summary: parseErrorSummary, Cards: []domain.Card{}}
	}
	return result
}

// enforceInvariants applies the post-parse guarantees: a non-empty
// summary, at most MaxCards cards, and at most 3 amenities per card.
func enforceInvariants(r *domain.ChatResult, query string) {
	if r.Summary == "" {
		r.Summary = fmt.Sprintf("No matching properties found for '%s'.", query)
	}
	if r.Cards == nil {
		r.Cards = []domain.Card{}
	}
	if len(r.Cards) > domain.MaxCards {
		r.Cards = r.Cards[:domain.MaxCards]
	}
	for i := range r.Cards {
		if len(r.Cards[i].TopAmenities) > 3 {
			r.Cards[i].TopAmenities = r.Cards[i].TopAmenities[:3]
		}
	}
}
