package styles

import "encoding/json"

// Category names, in the order chunks are filled.
const (
	CategoryColors     = "colors"
	CategoryTypography = "typography"
	CategoryEffects    = "effects"
	CategorySpacing    = "spacing"
)

// Categories lists the token categories in their fixed processing order.
var Categories = []string{CategoryColors, CategoryTypography, CategoryEffects, CategorySpacing}

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GradientStop is one color stop of a gradient paint.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    string  `json:"color"`
}

// ColorToken is the canonical form of a fill/paint style.
type ColorToken struct {
	Name            string         `json:"name"`
	PaintType       string         `json:"paintType"`
	Opacity         *float64       `json:"opacity,omitempty"`
	BlendMode       string         `json:"blendMode,omitempty"`
	Color           string         `json:"color,omitempty"`
	Hex             string         `json:"hex,omitempty"`
	CSS             string         `json:"css,omitempty"`
	GradientStops   []GradientStop `json:"gradientStops,omitempty"`
	GradientHandles []Vector       `json:"gradientHandles,omitempty"`
	ImageRef        string         `json:"imageRef,omitempty"`
	ScaleMode       string         `json:"scaleMode,omitempty"`
	SourceNodeID    string         `json:"sourceNodeId,omitempty"`
	TileType        string         `json:"tileType,omitempty"`
	ScalingFactor   *float64       `json:"scalingFactor,omitempty"`
	FallbackHex     string         `json:"fallbackHex,omitempty"`
}

// resolvable reports whether the token carries any usable color data.
func (t *ColorToken) resolvable() bool {
	return t.Color != "" || len(t.GradientStops) > 0 || t.ImageRef != "" || t.FallbackHex != ""
}

// TypographyToken is the canonical form of a text style. Every field is set.
type TypographyToken struct {
	Name          string  `json:"name"`
	FontSize      float64 `json:"fontSize"`
	FontFamily    string  `json:"fontFamily"`
	FontWeight    string  `json:"fontWeight"`
	LineHeight    string  `json:"lineHeight"`
	LetterSpacing string  `json:"letterSpacing"`
}

// EffectToken is the canonical form of an effect style, taken from its first
// effect. Fields outside the effect's type family stay empty.
type EffectToken struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Radius    *float64 `json:"radius,omitempty"`
	BlendMode string   `json:"blendMode,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`

	// Shadows.
	Color                string   `json:"color,omitempty"`
	Offset               *Vector  `json:"offset,omitempty"`
	Spread               *float64 `json:"spread,omitempty"`
	ShowShadowBehindNode *bool    `json:"showShadowBehindNode,omitempty"`

	// Blurs.
	BlurType    string   `json:"blurType,omitempty"`
	StartRadius *float64 `json:"startRadius,omitempty"`
	StartOffset *Vector  `json:"startOffset,omitempty"`
	EndOffset   *Vector  `json:"endOffset,omitempty"`

	// Noise and texture.
	NoiseSize      *float64 `json:"noiseSize,omitempty"`
	NoiseType      string   `json:"noiseType,omitempty"`
	Density        *float64 `json:"density,omitempty"`
	SecondaryColor string   `json:"secondaryColor,omitempty"`
	Opacity        *float64 `json:"opacity,omitempty"`
	ClipToShape    *bool    `json:"clipToShape,omitempty"`

	// AllEffects keeps the full stack when a style layers several effects.
	AllEffects []any `json:"allEffects,omitempty"`
}

// SpacingToken is derived from the first layout grid of a grid style.
type SpacingToken struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Pattern     string   `json:"pattern,omitempty"`
	SectionSize *float64 `json:"sectionSize,omitempty"`
	GutterSize  *float64 `json:"gutterSize,omitempty"`
	Offset      *float64 `json:"offset,omitempty"`
	Count       *int     `json:"count,omitempty"`
	Alignment   string   `json:"alignment,omitempty"`
	Color       string   `json:"color,omitempty"`
}

// Summary carries per-category counts. ChunkNumber is 1-based and only set
// on sets produced by the chunk planner.
type Summary struct {
	TotalColors      int `json:"totalColors"`
	TotalTypography  int `json:"totalTypography"`
	TotalEffects     int `json:"totalEffects"`
	TotalSpacing     int `json:"totalSpacing"`
	OriginalFileSize int `json:"originalFileSize"`
	ChunkNumber      int `json:"chunkNumber,omitempty"`
}

// CompressedStyleSet is the canonical token set. Category slices are never
// nil so that they always serialize as arrays.
type CompressedStyleSet struct {
	Colors     []ColorToken      `json:"colors"`
	Typography []TypographyToken `json:"typography"`
	Effects    []EffectToken     `json:"effects"`
	Spacing    []SpacingToken    `json:"spacing"`
	Summary    Summary           `json:"summary"`
}

// NewSet returns an empty set with non-nil category slices.
func NewSet() *CompressedStyleSet {
	return &CompressedStyleSet{
		Colors:     []ColorToken{},
		Typography: []TypographyToken{},
		Effects:    []EffectToken{},
		Spacing:    []SpacingToken{},
	}
}

// Len returns the total number of tokens in the set.
func (s *CompressedStyleSet) Len() int {
	return len(s.Colors) + len(s.Typography) + len(s.Effects) + len(s.Spacing)
}

// CategoryLen returns the number of tokens in one category.
func (s *CompressedStyleSet) CategoryLen(category string) int {
	switch category {
	case CategoryColors:
		return len(s.Colors)
	case CategoryTypography:
		return len(s.Typography)
	case CategoryEffects:
		return len(s.Effects)
	case CategorySpacing:
		return len(s.Spacing)
	}
	return 0
}

// Serialize returns the compact JSON encoding used for prompts and budgeting.
func (s *CompressedStyleSet) Serialize() ([]byte, error) {
	return json.Marshal(s)
}
