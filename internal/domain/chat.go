package domain

// MaxCards bounds the number of cards in a single response.
const MaxCards = 6

// Card is one structured result in a chat response. The JSON keys match
// what the summarizer instructs the model to emit.
type Card struct {
	Title            string   `json:"title"`
	CityLocality     string   `json:"city_locality"`
	BHK              string   `json:"bhk"`
	Price            string   `json:"price"`
	ProjectName      string   `json:"project_name"`
	PossessionStatus string   `json:"possession_status"`
	TopAmenities     []string `json:"top_amenities"`
	CTAURL           string   `json:"cta_url"`
}

// ChatResult is the final payload of one query: a grounded summary plus
// up to MaxCards cards. Summary is never empty; Cards is empty only when
// no records were available at all.
type ChatResult struct {
	Summary string `json:"summary"`
	Cards   []Card `json:"cards"`
}
