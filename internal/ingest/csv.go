// Package ingest reads raw listing CSV exports and turns them into index
// records: structured metadata plus the text that gets embedded.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// ReadDir parses every .csv file in dir into listings.
func ReadDir(dir string) ([]domain.Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var listings []domain.Listing
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		batch, err := ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		listings = append(listings, batch...)
	}
	return listings, nil
}

// ReadFile parses one CSV file with a header row into listings.
func ReadFile(path string) ([]domain.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var listings []domain.Listing
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		l := fromRow(cols, row)
		if l.Slug == "" && l.ProjectName == "" {
			continue
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// fromRow maps one CSV row to a listing, deriving city/locality from the
// slug when the columns are missing and computing the crore price.
func fromRow(cols map[string]int, row []string) domain.Listing {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanString(row[i])
	}

	bhk := get("type")
	if bhk == "" {
		bhk = get("customBHK")
	}

	l := domain.Listing{
		Slug:            get("slug"),
		ProjectName:     get("projectName"),
		ProjectType:     get("projectType"),
		ProjectCategory: get("projectCategory"),
		Status:          get("status"),
		BHK:             bhk,
		Price:           cleanNumeric(get("price")),
		CarpetArea:      cleanNumeric(get("carpetArea")),
		Bathrooms:       cleanNumeric(get("bathrooms")),
		Balcony:         cleanNumeric(get("balcony")),
		FurnishedType:   get("furnishedType"),
		Lift:            parseBool(get("lift")),
		PossessionDate:  get("possessionDate"),
		City:            get("city"),
		Locality:        get("locality"),
		Address:         get("Address info"),
		Amenities:       get("aboutProperty"),
	}

	if l.Price != nil {
		cr := math.Round(*l.Price/1e7*100) / 100
		l.PriceInCr = &cr
	}

	// Fall back to slug segments for location: "...-<locality>-<city>-<n>".
	parts := strings.Split(l.Slug, "-")
	if l.Locality == "" && len(parts) >= 3 {
		l.Locality = capitalize(parts[len(parts)-3])
	}
	if l.City == "" && len(parts) >= 2 {
		l.City = capitalize(parts[len(parts)-2])
	}

	l.Content = BuildContent(l)
	return l
}

// BuildContent assembles the text representation that gets embedded.
// Whitespace is collapsed so one record is one compact paragraph.
func BuildContent(l domain.Listing) string {
	text := fmt.Sprintf(
		"Project Name: %s Type: %s Status: %s Price: %s Carpet Area: %s Bathrooms: %s Balcony: %s Furnishing: %s Lift: %t Location: %s, %s Address: %s Amenities: %s",
		l.ProjectName, l.BHK, l.Status,
		numString(l.Price), numString(l.CarpetArea), numString(l.Bathrooms), numString(l.Balcony),
		l.FurnishedType, l.Lift, l.Locality, l.City, l.Address, l.Amenities,
	)
	return strings.Join(strings.Fields(text), " ")
}

func cleanString(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}

func cleanNumeric(s string) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.ToLower(s))
	return err == nil && b
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func numString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
