// internal/text/text.go
//
// Pure text transforms shared by the game engine and asset pipeline.
// Responsibilities:
//   - Slugify: lowercase underscore keys for dedup/asset lookup.
//   - Singularize: best-effort suffix-based plural stripping.
//   - NiceRoundWeight: snap weights to human-friendly 1/2/5/10 steps.
//   - Canonicalize: stable canonical item names ("2 cats" -> "cat").
//
// All functions are total: no errors, no panics, empty-safe.

package text

import (
	"math"
	"regexp"
	"strings"
)

var (
	nonSlugPattern   = regexp.MustCompile(`[^a-zA-Z0-9\s_-]`)
	spacesPattern    = regexp.MustCompile(`\s+`)
	nonAlnumPattern  = regexp.MustCompile(`[^a-z0-9\s]`)
	leadingDigits    = regexp.MustCompile(`^\d+\s+`)
	leadingArticle   = regexp.MustCompile(`^(a|an|the)\s+`)
)

// Slugify lowercases, strips non-alphanumerics (keeping _ and -), collapses
// whitespace, and joins with underscores. Empty input yields "" and is the
// caller's problem.
func Slugify(value string) string {
	cleaned := nonSlugPattern.ReplaceAllString(strings.ToLower(value), " ")
	cleaned = strings.TrimSpace(spacesPattern.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return ""
	}
	return strings.ReplaceAll(cleaned, " ", "_")
}

// Singularize strips common plural suffixes from tokens longer than 3 runes:
// "...ies" -> "...y", "...ses" -> "...s", trailing "s" (not "ss") dropped.
// This is a heuristic, not a dictionary; irregular nouns come out wrong and
// that is accepted.
func Singularize(token string) string {
	if len(token) > 3 && strings.HasSuffix(token, "ies") {
		return token[:len(token)-3] + "y"
	}
	if len(token) > 3 && strings.HasSuffix(token, "ses") {
		return token[:len(token)-2]
	}
	if len(token) > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") {
		return token[:len(token)-1]
	}
	return token
}

// NiceRoundWeight rounds a positive value to the nearest "nice" number from
// {1,2,5,10} x 10^k. Values at or below 1 return 1.
func NiceRoundWeight(value float64) int {
	if value <= 1 {
		return 1
	}
	exponent := math.Floor(math.Log10(value))
	magnitude := math.Pow(10, exponent)
	normalized := value / magnitude

	var nice float64
	switch {
	case normalized < 1.5:
		nice = 1
	case normalized < 3.5:
		nice = 2
	case normalized < 7.5:
		nice = 5
	default:
		nice = 10
	}
	out := int(nice * magnitude)
	if out < 1 {
		return 1
	}
	return out
}

// Canonicalize produces the stable key used for no-repeat checks and asset
// lookup: lowercase, strip punctuation, drop a leading count or article,
// singularize each token, join with underscores. Empty results map to
// "unknown_item". Canonicalizing an already-canonical string is a no-op.
func Canonicalize(raw string) string {
	text := strings.TrimSpace(strings.ToLower(raw))
	text = nonAlnumPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spacesPattern.ReplaceAllString(text, " "))

	text = leadingDigits.ReplaceAllString(text, "")
	text = leadingArticle.ReplaceAllString(text, "")

	var tokens []string
	for _, t := range strings.Split(text, " ") {
		if t == "" {
			continue
		}
		tokens = append(tokens, Singularize(t))
	}

	canonical := strings.Trim(strings.Join(tokens, "_"), "_")
	if canonical == "" {
		return "unknown_item"
	}
	return canonical
}
