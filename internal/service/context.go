package service

import (
	"fmt"
	"strings"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// BuildContext serializes the records into the text block the model is
// allowed to reference: one labeled, pipe-delimited line per record, in
// input order. Nothing outside this text may appear in the answer.
func BuildContext(records []domain.ScoredListing) string {
	lines := make([]string, len(records))
	for i, r := range records {
		l := r.Listing
		title := l.ProjectName
		if title == "" {
			title = l.Slug
		}
		if title == "" {
			title = "Unknown"
		}
		lines[i] = fmt.Sprintf(
			"ITEM_%d || title: %s || city: %s || locality: %s || bhk: %s || price: %s || status: %s || possession: %s || amenities: %s || slug: %s",
			i+1, title, l.City, l.Locality, l.BHK, formatPrice(l), l.Status, l.PossessionDate, l.Amenities, l.Slug,
		)
	}
	return strings.Join(lines, "\n")
}

// formatPrice prefers the crore-denominated amount with two decimals,
// falls back to the raw rupee amount, and reports N/A when neither is set.
func formatPrice(l domain.Listing) string {
	switch {
	case l.PriceInCr != nil:
		return fmt.Sprintf("₹%.2f Cr", *l.PriceInCr)
	case l.Price != nil:
		return fmt.Sprintf("₹%d", int64(*l.Price))
	default:
		return "N/A"
	}
}
