package domain

// Construction status labels used in both intents and listing metadata.
const (
	StatusReadyToMove       = "READY_TO_MOVE"
	StatusUnderConstruction = "UNDER_CONSTRUCTION"
)

// Intent is the structured filter derived from one free-text query.
// A nil field means "no constraint", never "excluded".
type Intent struct {
	BudgetRupees *float64 `json:"budget_rupees,omitempty"`
	BHK          *string  `json:"bhk,omitempty"`
	City         *string  `json:"city,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Locality     *string  `json:"locality,omitempty"`
}

// IsEmpty reports whether no constraint was extracted at all.
func (i Intent) IsEmpty() bool {
	return i.BudgetRupees == nil && i.BHK == nil && i.City == nil &&
		i.Status == nil && i.Locality == nil
}
