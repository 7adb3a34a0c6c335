// Package chunk splits a compressed style set into category-aligned chunks
// that each fit a token budget.
package chunk

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/HartBrook/figstyle/internal/styles"
	"github.com/HartBrook/figstyle/internal/tokens"
)

// DefaultMaxTokens is the per-chunk budget used when none is configured.
const DefaultMaxTokens = 100_000

// Estimate returns the estimated token cost of the set's serialized form.
func Estimate(set *styles.CompressedStyleSet) (int, error) {
	data, err := set.Serialize()
	if err != nil {
		return 0, fmt.Errorf("serialize style set: %w", err)
	}
	return tokens.EstimateBytes(data), nil
}

// Plan partitions set into chunks of at most maxTokens estimated tokens.
//
// A set that already fits is returned as the only element, unchanged. Larger
// sets are filled greedily in category order (colors, typography, effects,
// spacing); an item that would push the working chunk over budget closes it
// and opens the next one. An item that exceeds the budget on its own is kept
// whole in a chunk of its own. Concatenating the chunks' category slices in
// order reproduces the input exactly.
//
// A maxTokens of zero or less disables splitting.
func Plan(set *styles.CompressedStyleSet, maxTokens int) ([]*styles.CompressedStyleSet, error) {
	total, err := Estimate(set)
	if err != nil {
		return nil, err
	}
	if maxTokens <= 0 || total <= maxTokens {
		return []*styles.CompressedStyleSet{set}, nil
	}

	base, err := emptyRunes(reservedSummary(set))
	if err != nil {
		return nil, err
	}

	var chunks []*styles.CompressedStyleSet
	w := newWorking(base)

	for _, category := range styles.Categories {
		for i := 0; i < set.CategoryLen(category); i++ {
			size, err := itemRunes(set, category, i)
			if err != nil {
				return nil, err
			}

			w.add(set, category, i, size)
			if w.tokens() <= maxTokens {
				continue
			}
			if w.len() == 1 {
				warnOversized(set, category, i, w.tokens(), maxTokens)
				continue
			}

			w.removeLast(category)
			chunks = append(chunks, w.finalize(len(chunks)+1, set.Summary.OriginalFileSize))

			w = newWorking(base)
			w.add(set, category, i, size)
			if w.tokens() > maxTokens {
				warnOversized(set, category, i, w.tokens(), maxTokens)
			}
		}
	}

	if w.len() > 0 {
		chunks = append(chunks, w.finalize(len(chunks)+1, set.Summary.OriginalFileSize))
	}
	return chunks, nil
}

func warnOversized(set *styles.CompressedStyleSet, category string, i, cost, maxTokens int) {
	slog.Warn("chunk over budget",
		"category", category,
		"index", i,
		"name", itemName(set, category, i),
		"tokens", cost,
		"max_tokens", maxTokens,
	)
}

// working tracks a chunk under construction together with the rune length
// its JSON encoding would have. encoding/json renders each array element
// independently, so the length is the empty-set length plus the element
// lengths plus one comma between neighbours.
type working struct {
	set   *styles.CompressedStyleSet
	base  int
	sizes map[string][]int
}

func newWorking(base int) *working {
	return &working{
		set:   styles.NewSet(),
		base:  base,
		sizes: make(map[string][]int, len(styles.Categories)),
	}
}

func (w *working) add(src *styles.CompressedStyleSet, category string, i, size int) {
	switch category {
	case styles.CategoryColors:
		w.set.Colors = append(w.set.Colors, src.Colors[i])
	case styles.CategoryTypography:
		w.set.Typography = append(w.set.Typography, src.Typography[i])
	case styles.CategoryEffects:
		w.set.Effects = append(w.set.Effects, src.Effects[i])
	case styles.CategorySpacing:
		w.set.Spacing = append(w.set.Spacing, src.Spacing[i])
	}
	w.sizes[category] = append(w.sizes[category], size)
}

func (w *working) removeLast(category string) {
	switch category {
	case styles.CategoryColors:
		w.set.Colors = w.set.Colors[:len(w.set.Colors)-1]
	case styles.CategoryTypography:
		w.set.Typography = w.set.Typography[:len(w.set.Typography)-1]
	case styles.CategoryEffects:
		w.set.Effects = w.set.Effects[:len(w.set.Effects)-1]
	case styles.CategorySpacing:
		w.set.Spacing = w.set.Spacing[:len(w.set.Spacing)-1]
	}
	sizes := w.sizes[category]
	w.sizes[category] = sizes[:len(sizes)-1]
}

func (w *working) len() int {
	return w.set.Len()
}

func (w *working) runes() int {
	n := w.base
	for _, sizes := range w.sizes {
		for _, s := range sizes {
			n += s
		}
		if len(sizes) > 1 {
			n += len(sizes) - 1
		}
	}
	return n
}

func (w *working) tokens() int {
	return tokens.FromRunes(w.runes())
}

func (w *working) finalize(number, originalFileSize int) *styles.CompressedStyleSet {
	out := w.set
	out.Summary = styles.Summary{
		TotalColors:      len(out.Colors),
		TotalTypography:  len(out.Typography),
		TotalEffects:     len(out.Effects),
		TotalSpacing:     len(out.Spacing),
		OriginalFileSize: originalFileSize,
		ChunkNumber:      number,
	}
	return out
}

// reservedSummary returns a summary at least as wide as any finalized chunk
// summary of set: no chunk holds more items of a category than set does, and
// there are never more chunks than items.
func reservedSummary(set *styles.CompressedStyleSet) styles.Summary {
	return styles.Summary{
		TotalColors:      len(set.Colors),
		TotalTypography:  len(set.Typography),
		TotalEffects:     len(set.Effects),
		TotalSpacing:     len(set.Spacing),
		OriginalFileSize: set.Summary.OriginalFileSize,
		ChunkNumber:      max(1, set.Len()),
	}
}

// emptyRunes returns the rune length of an empty set carrying summary.
func emptyRunes(summary styles.Summary) (int, error) {
	empty := styles.NewSet()
	empty.Summary = summary
	data, err := empty.Serialize()
	if err != nil {
		return 0, fmt.Errorf("serialize empty set: %w", err)
	}
	return utf8.RuneCount(data), nil
}

func itemRunes(set *styles.CompressedStyleSet, category string, i int) (int, error) {
	var item any
	switch category {
	case styles.CategoryColors:
		item = set.Colors[i]
	case styles.CategoryTypography:
		item = set.Typography[i]
	case styles.CategoryEffects:
		item = set.Effects[i]
	case styles.CategorySpacing:
		item = set.Spacing[i]
	}
	data, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("serialize %s[%d]: %w", category, i, err)
	}
	return utf8.RuneCount(data), nil
}

func itemName(set *styles.CompressedStyleSet, category string, i int) string {
	switch category {
	case styles.CategoryColors:
		return set.Colors[i].Name
	case styles.CategoryTypography:
		return set.Typography[i].Name
	case styles.CategoryEffects:
		return set.Effects[i].Name
	case styles.CategorySpacing:
		return set.Spacing[i].Name
	}
	return ""
}
