// Package tokens approximates language-model token usage for budgeting.
package tokens

import "unicode/utf8"

// CharsPerToken is the characters-per-token ratio used by Estimate.
const CharsPerToken = 4

// Estimate approximates the token count of serialized text as ceil(runes/4).
// Runes are counted rather than bytes so that multi-byte names are not
// over-counted. This is a budgeting heuristic, not a tokenizer.
func Estimate(text string) int {
	return FromRunes(utf8.RuneCountInString(text))
}

// EstimateBytes is Estimate for a byte slice.
func EstimateBytes(data []byte) int {
	return FromRunes(utf8.RuneCount(data))
}

// FromRunes converts a rune count into an estimated token count.
func FromRunes(runes int) int {
	if runes <= 0 {
		return 0
	}
	return (runes + CharsPerToken - 1) / CharsPerToken
}

// Stats holds before/after token statistics for a compression run.
type Stats struct {
	Before int
	After  int
}

// Saved returns the number of tokens saved.
func (s Stats) Saved() int {
	return s.Before - s.After
}

// PercentReduction returns the percentage reduction (0-100).
func (s Stats) PercentReduction() float64 {
	if s.Before == 0 {
		return 0
	}
	return float64(s.Saved()) / float64(s.Before) * 100
}
