package domain

import "time"

// Listing is one property entry as stored in the vector index metadata.
// Records are written once by ingestion and are read-only at query time.
type Listing struct {
	Slug            string    `json:"slug"             db:"slug"`
	ProjectName     string    `json:"project_name"     db:"project_name"`
	ProjectType     string    `json:"project_type"     db:"project_type"`
	ProjectCategory string    `json:"project_category" db:"project_category"`
	Status          string    `json:"status"           db:"status"`
	BHK             string    `json:"bhk"              db:"bhk"`
	Price           *float64  `json:"price,omitempty"  db:"price"`
	PriceInCr       *float64  `json:"price_in_cr,omitempty" db:"price_in_cr"`
	CarpetArea      *float64  `json:"carpet_area,omitempty" db:"carpet_area"`
	Bathrooms       *float64  `json:"bathrooms,omitempty"   db:"bathrooms"`
	Balcony         *float64  `json:"balcony,omitempty"     db:"balcony"`
	FurnishedType   string    `json:"furnished_type"   db:"furnished_type"`
	Lift            bool      `json:"lift"             db:"lift"`
	PossessionDate  string    `json:"possession_date"  db:"possession_date"`
	City            string    `json:"city"             db:"city"`
	Locality        string    `json:"locality"         db:"locality"`
	Address         string    `json:"address"          db:"address"`
	Amenities       string    `json:"amenities"        db:"amenities"`
	Content         string    `json:"content"          db:"content"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"       db:"updated_at"`
}

// ScoredListing is a listing returned by semantic search with its
// similarity score. Retrievers return these in descending score order.
type ScoredListing struct {
	Listing
	Similarity float64 `json:"similarity" db:"similarity"`
}
