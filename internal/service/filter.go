package service

import (
	"strings"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// rupeesPerCrore converts a crore-denominated price to absolute rupees.
const rupeesPerCrore = 1e7

// ApplyFilters re-checks retrieved candidates against their structured
// metadata, keeping only those that pass every present intent field. The
// embedding model cannot guarantee these constraints; this stage can.
// Returns an order-preserving subsequence, possibly empty.
func ApplyFilters(candidates []domain.ScoredListing, intent domain.Intent) []domain.ScoredListing {
	if intent.IsEmpty() {
		return candidates
	}

	kept := make([]domain.ScoredListing, 0, len(candidates))
	for _, c := range candidates {
		if keep(c.Listing, intent) {
			kept = append(kept, c)
		}
	}
	return kept
}

func keep(l domain.Listing, intent domain.Intent) bool {
	if intent.City != nil && !containsFold(l.City, *intent.City) {
		return false
	}
	if intent.BHK != nil && !containsFold(l.BHK, *intent.BHK) {
		return false
	}
	if intent.BudgetRupees != nil && !withinBudget(l, *intent.BudgetRupees) {
		return false
	}
	if intent.Status != nil && !containsFold(l.Status, *intent.Status) {
		return false
	}
	if intent.Locality != nil && !matchesLocality(l, *intent.Locality) {
		return false
	}
	return true
}

// withinBudget checks the absolute price, or the crore-denominated price
// converted to rupees when the absolute one is absent. A candidate with
// no price at all is rejected while a budget constraint is active.
func withinBudget(l domain.Listing, budget float64) bool {
	switch {
	case l.Price != nil:
		return *l.Price <= budget
	case l.PriceInCr != nil:
		return *l.PriceInCr*rupeesPerCrore <= budget
	default:
		return false
	}
}

// matchesLocality looks for the intent locality in the candidate's
// locality, address, slug and project name, in that fixed order.
func matchesLocality(l domain.Listing, locality string) bool {
	for _, field := range []string{l.Locality, l.Address, l.Slug, l.ProjectName} {
		if field != "" && containsFold(field, locality) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
