// Package jsonx parses JSON out of raw language-model output, which may
// arrive as pure JSON, JSON inside a markdown code fence, or JSON buried
// in surrounding prose.
package jsonx

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Unmarshal decodes the first JSON value found in input into target.
// Recovery ladder: direct parse, then markdown code fence, then the first
// balanced brace-delimited substring, then the same with trailing commas
// stripped. Returns an error only if every strategy fails.
func Unmarshal(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	for _, candidate := range candidates(input) {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
		cleaned := trailingCommaRe.ReplaceAllString(candidate, "$1")
		if cleaned != candidate {
			if err := json.Unmarshal([]byte(cleaned), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no parseable JSON in input: %s", truncate(input, 100))
}

// candidates lists substrings of input worth attempting to parse,
// most specific first.
func candidates(input string) []string {
	var out []string
	if m := fenceRe.FindStringSubmatch(input); len(m) > 1 {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			out = append(out, body)
		}
	}
	if obj := firstBalanced(input, '{', '}'); obj != "" {
		out = append(out, obj)
	}
	if arr := firstBalanced(input, '[', ']'); arr != "" {
		out = append(out, arr)
	}
	return out
}

// firstBalanced returns the first balanced open..close span in input,
// respecting string literals and escapes.
func firstBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := -1

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close && depth > 0:
			depth--
			if depth == 0 {
				return input[start : i+len(string(close))]
			}
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
