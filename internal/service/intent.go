package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nobrokerage/go-property-chatbot/internal/domain"
)

// Intent extraction is deliberately heuristic: five independent
// case-insensitive regex extractions over the whole query. A field that
// fails to match is simply absent; nothing here ever errors. Known
// imprecision: "ready" matches as a bare substring, so words containing
// it (e.g. "already") map to READY_TO_MOVE.

var (
	budgetRe   = regexp.MustCompile(`under\s*[₹rs.]*\s*([0-9]+(?:\.[0-9]+)?)\s*(cr|crore|l|lakhs|lakh|k)?`)
	bareNumRe  = regexp.MustCompile(`[0-9]{6,}`)
	bhkRe      = regexp.MustCompile(`([0-9]+)\s*-?\s*bhk`)
	localityRe = regexp.MustCompile(`(?:in|near|at)\s+([a-z0-9\- ]{3,30})`)
)

// knownCities maps lowercase spellings to canonical names. Alternate
// romanizations normalize to one canonical form.
var knownCities = []struct{ match, canonical string }{
	{"pune", "Pune"},
	{"mumbai", "Mumbai"},
	{"delhi", "Delhi"},
	{"bangalore", "Bangalore"},
	{"bangaluru", "Bangalore"},
	{"chennai", "Chennai"},
	{"hyderabad", "Hyderabad"},
	{"kolkata", "Kolkata"},
}

// statusPhrases are stripped from the tail of a locality capture so that
// "in Pune ready to move" yields "Pune" rather than the whole run.
var statusPhrases = []string{"ready to move", "ready-to-move", "under construction", "under-construction", "ready", "uc"}

// ParseIntent extracts a structured filter intent from a free-text query.
// Every extraction is independent; none depends on the others succeeding.
func ParseIntent(query string) domain.Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	return domain.Intent{
		BudgetRupees: parseBudget(q),
		BHK:          parseBHK(q),
		City:         parseCity(q),
		Status:       parseStatus(q),
		Locality:     parseLocality(q),
	}
}

// parseBudget handles "under ₹1.2 Cr", "under 80l", "under 12000000" and
// the like, returning the value in rupees. Falls back to any bare integer
// of 6+ digits.
func parseBudget(q string) *float64 {
	s := strings.ReplaceAll(q, ",", "")
	if m := budgetRe.FindStringSubmatch(s); m != nil {
		num, ok := tryParseNumber(m[1])
		if !ok {
			return nil
		}
		switch m[2] {
		case "cr", "crore":
			num *= 1e7
		case "l", "lakh", "lakhs":
			num *= 1e5
		case "k":
			num *= 1e3
		}
		return &num
	}
	if m := bareNumRe.FindString(s); m != "" {
		if num, ok := tryParseNumber(m); ok {
			return &num
		}
	}
	return nil
}

// parseBHK matches "2bhk", "2 BHK", "2-bhk" and formats as "2BHK".
func parseBHK(q string) *string {
	m := bhkRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	label := m[1] + "BHK"
	return &label
}

func parseCity(q string) *string {
	for _, c := range knownCities {
		if strings.Contains(q, c.match) {
			canonical := c.canonical
			return &canonical
		}
	}
	return nil
}

func parseStatus(q string) *string {
	var status string
	switch {
	case strings.Contains(q, "ready"):
		status = domain.StatusReadyToMove
	case strings.Contains(q, "under construction"), strings.Contains(q, "under-construction"), strings.Contains(q, "uc"):
		status = domain.StatusUnderConstruction
	default:
		return nil
	}
	return &status
}

// parseLocality captures the run of letters/digits/spaces/hyphens after
// the first "in", "near" or "at", title-cased. Trailing construction
// status phrases are cut off the capture since status is extracted
// separately.
func parseLocality(q string) *string {
	m := localityRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	captured := strings.TrimSpace(m[1])
	for _, phrase := range statusPhrases {
		if idx := strings.Index(captured, phrase); idx >= 0 {
			captured = strings.TrimSpace(captured[:idx])
		}
	}
	if len(captured) < 3 {
		return nil
	}
	t := titleCase(captured)
	return &t
}

// tryParseNumber converts a string to float64, treating unparseable input
// as a first-class absent value.
func tryParseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
