package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// fakeRetriever returns a canned candidate set and records the last k.
type fakeRetriever struct {
	results []domain.ScoredListing
	err     error
	lastK   int
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]domain.ScoredListing, error) {
	f.lastK = k
	return f.results, f.err
}

func (f *fakeRetriever) Ready(ctx context.Context) error { return nil }

func (f *fakeRetriever) Count(ctx context.Context) (int, error) { return len(f.results), nil }

func priced(slug, city, bhk string, rupees float64) domain.ScoredListing {
	l := listing(slug, city, bhk, domain.StatusReadyToMove)
	l.Price = &rupees
	return l
}

func TestHandle_FilteredResultsUsed(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredListing{
		priced("match-pune-1", "Pune", "2BHK", 7000000),
		priced("other-mumbai-1", "Mumbai", "2BHK", 7000000),
	}}
	ai := &fakeAI{response: `{"summary":"One flat in Pune.","cards":[{"title":"Match","cta_url":""}]}`}
	svc := NewChatService(retriever, NewSummarizer(ai), 0)

	result, err := svc.Handle(context.Background(), "2bhk under 80L in pune")

	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, retriever.lastK)
	assert.Equal(t, "One flat in Pune.", result.Summary)

	// Context held only the filtered record.
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "match-pune-1")
	assert.NotContains(t, ai.prompts[0], "other-mumbai-1")
}

func TestHandle_FallbackToFirstSixRaw(t *testing.T) {
	var results []domain.ScoredListing
	for i := 0; i < 10; i++ {
		results = append(results, priced(fmt.Sprintf("mumbai-flat-%d", i), "Mumbai", "3BHK", 20000000))
	}
	retriever := &fakeRetriever{results: results}
	ai := &fakeAI{response: `{"summary":"Nothing exact, here are alternatives.","cards":[]}`}
	svc := NewChatService(retriever, NewSummarizer(ai), 12)

	// Intent filters everything out: wrong city, wrong BHK, over budget.
	_, err := svc.Handle(context.Background(), "2bhk under 50L in pune")

	require.NoError(t, err)
	require.Len(t, ai.prompts, 1)
	for i := 0; i < 6; i++ {
		assert.Contains(t, ai.prompts[0], fmt.Sprintf("mumbai-flat-%d", i))
	}
	assert.NotContains(t, ai.prompts[0], "mumbai-flat-6")
	// Original retrieval order preserved in the fallback context.
	assert.Contains(t, ai.prompts[0], "ITEM_1 ")
	assert.Contains(t, ai.prompts[0], "ITEM_6 ")
}

func TestHandle_EmptyRetrievalShortCircuits(t *testing.T) {
	retriever := &fakeRetriever{}
	ai := &fakeAI{response: `{"summary":"should never be called","cards":[]}`}
	svc := NewChatService(retriever, NewSummarizer(ai), 12)

	result, err := svc.Handle(context.Background(), "castles on the moon")

	require.NoError(t, err)
	assert.Equal(t, "No matching properties found and no alternatives available.", result.Summary)
	assert.Empty(t, result.Cards)
	assert.Empty(t, ai.prompts, "generation must not be invoked")
}

func TestHandle_PatchesBlankCardLinks(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredListing{
		priced("sunrise-towers-pune", "Pune", "2BHK", 7000000),
		priced("lakeview-pune", "Pune", "2BHK", 7500000),
	}}
	ai := &fakeAI{response: `{"summary":"Two options.","cards":[
		{"title":"Sunrise","cta_url":""},
		{"title":"Lakeview","cta_url":"/custom/lakeview"}
	]}`}
	svc := NewChatService(retriever, NewSummarizer(ai), 12)

	result, err := svc.Handle(context.Background(), "2bhk in pune")

	require.NoError(t, err)
	require.Len(t, result.Cards, 2)
	assert.Equal(t, "/project/sunrise-towers-pune", result.Cards[0].CTAURL)
	// Model-provided links are left alone.
	assert.Equal(t, "/custom/lakeview", result.Cards[1].CTAURL)
}

func TestHandle_MoreCardsThanRecords(t *testing.T) {
	retriever := &fakeRetriever{results: []domain.ScoredListing{
		priced("only-one-pune", "Pune", "2BHK", 7000000),
	}}
	ai := &fakeAI{response: `{"summary":"ok","cards":[
		{"title":"a","cta_url":""},
		{"title":"phantom","cta_url":""}
	]}`}
	svc := NewChatService(retriever, NewSummarizer(ai), 12)

	result, err := svc.Handle(context.Background(), "2bhk in pune")

	require.NoError(t, err)
	require.Len(t, result.Cards, 2)
	assert.Equal(t, "/project/only-one-pune", result.Cards[0].CTAURL)
	// No source record at this position: link stays blank.
	assert.Equal(t, "", result.Cards[1].CTAURL)
}

func TestHandle_RetrieverErrorPropagates(t *testing.T) {
	retriever := &fakeRetriever{err: fmt.Errorf("index offline")}
	svc := NewChatService(retriever, NewSummarizer(&fakeAI{}), 12)

	_, err := svc.Handle(context.Background(), "2bhk in pune")
	assert.Error(t, err)
}
