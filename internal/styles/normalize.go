package styles

import (
	"encoding/json"
	"math"
	"strings"
)

const (
	defaultFontSize      = 16
	defaultFontFamily    = "system"
	defaultFontWeight    = "normal"
	defaultLineHeight    = "normal"
	defaultLetterSpacing = "normal"

	unknownType = "unknown"
)

// Normalize projects a raw style collection onto the canonical token model.
// It never fails: malformed fields are omitted and unusable entries dropped.
// The input is not modified.
func Normalize(raw *RawStyleCollection) *CompressedStyleSet {
	set := NewSet()
	if raw == nil {
		return set
	}

	for _, s := range raw.Styles.Fill {
		if tok, ok := normalizeFill(s); ok {
			set.Colors = append(set.Colors, tok)
		}
	}
	for _, s := range raw.Styles.Text {
		set.Typography = append(set.Typography, normalizeText(s))
	}
	for _, s := range raw.Styles.Effect {
		if tok, ok := normalizeEffect(s); ok {
			set.Effects = append(set.Effects, tok)
		}
	}
	for _, s := range raw.Styles.Grid {
		if tok, ok := normalizeGrid(s); ok {
			set.Spacing = append(set.Spacing, tok)
		}
	}

	set.Summary = Summary{
		TotalColors:      len(set.Colors),
		TotalTypography:  len(set.Typography),
		TotalEffects:     len(set.Effects),
		TotalSpacing:     len(set.Spacing),
		OriginalFileSize: rawSize(raw),
	}
	return set
}

func rawSize(raw *RawStyleCollection) int {
	data, err := json.Marshal(raw)
	if err != nil {
		return 0
	}
	return len(data)
}

// paintExtractors fills the type-specific fields of a color token.
var paintExtractors = map[string]func(v Values, tok *ColorToken){
	"SOLID":            extractSolid,
	"GRADIENT_LINEAR":  extractGradient,
	"GRADIENT_RADIAL":  extractGradient,
	"GRADIENT_ANGULAR": extractGradient,
	"GRADIENT_DIAMOND": extractGradient,
	"IMAGE":            extractImage,
	"PATTERN":          extractPattern,
}

func normalizeFill(s RawStyle) (ColorToken, bool) {
	v := s.Values
	paintType, ok := v.String("type")
	if !ok || paintType == "" {
		paintType = unknownType
	}

	tok := ColorToken{Name: s.Name, PaintType: paintType}
	if op, ok := v.Number("opacity"); ok {
		tok.Opacity = &op
	}
	if bm, ok := v.String("blendMode"); ok {
		tok.BlendMode = bm
	}
	if extract, ok := paintExtractors[paintType]; ok {
		extract(v, &tok)
	}
	tok.FallbackHex = fallbackHex(v)

	return tok, tok.resolvable()
}

// fallbackHex prefers an upstream hex string, then a css string.
func fallbackHex(v Values) string {
	if hex, ok := v.String("hex"); ok && hex != "" {
		return normalizeHex(hex)
	}
	if css, ok := v.String("css"); ok && css != "" {
		return css
	}
	return ""
}

func extractSolid(v Values, tok *ColorToken) {
	if c, ok := v.Map("color"); ok {
		if rgba, ok := ParseRGBA(c); ok {
			tok.Color = rgba.Compact()
			tok.Hex = rgba.Hex()
		}
	}
	if hex, ok := v.String("hex"); ok && hex != "" {
		tok.Hex = normalizeHex(hex)
	}
	if css, ok := v.String("css"); ok && css != "" {
		tok.CSS = css
	}
}

func extractGradient(v Values, tok *ColorToken) {
	stops, _ := v.Slice("gradientStops")
	for _, raw := range stops {
		stop, ok := toValues(raw)
		if !ok {
			continue
		}
		color, ok := colorValue(stop, "color")
		if !ok {
			continue
		}
		pos, _ := stop.Number("position")
		tok.GradientStops = append(tok.GradientStops, GradientStop{Position: pos, Color: color})
	}
	handles, _ := v.Slice("gradientHandlePositions")
	for _, raw := range handles {
		h, ok := toValues(raw)
		if !ok {
			continue
		}
		if vec, ok := parseVector(h); ok {
			tok.GradientHandles = append(tok.GradientHandles, vec)
		}
	}
}

func extractImage(v Values, tok *ColorToken) {
	if ref, ok := v.String("imageRef"); ok {
		tok.ImageRef = ref
	}
	if mode, ok := v.String("scaleMode"); ok {
		tok.ScaleMode = mode
	}
}

func extractPattern(v Values, tok *ColorToken) {
	if id, ok := v.String("sourceNodeId"); ok {
		tok.SourceNodeID = id
	}
	if tile, ok := v.String("tileType"); ok {
		tok.TileType = tile
	}
	if f, ok := v.Number("scalingFactor"); ok {
		tok.ScalingFactor = &f
	}
	if ref, ok := v.String("imageRef"); ok {
		tok.ImageRef = ref
	}
}

func normalizeText(s RawStyle) TypographyToken {
	v := s.Values
	tok := TypographyToken{
		Name:          s.Name,
		FontSize:      defaultFontSize,
		FontFamily:    defaultFontFamily,
		FontWeight:    defaultFontWeight,
		LineHeight:    defaultLineHeight,
		LetterSpacing: defaultLetterSpacing,
	}

	if size, ok := v.Number("fontSize"); ok && size > 0 {
		tok.FontSize = size
	}
	if family, ok := v.String("fontFamily"); ok && family != "" {
		tok.FontFamily = family
	}
	if weight, ok := numberOrString(v["fontWeight"]); ok {
		tok.FontWeight = weight
	}
	if lh, ok := lineHeight(v); ok {
		tok.LineHeight = lh
	}
	if ls, ok := letterSpacing(v); ok {
		tok.LetterSpacing = ls
	}
	return tok
}

// lineHeight accepts an explicit lineHeight value, then Figma's px and
// percent-of-font-size fields.
func lineHeight(v Values) (string, bool) {
	if lh, ok := v.Map("lineHeight"); ok {
		if n, ok := lh.Number("value"); ok {
			unit, _ := lh.String("unit")
			return formatNumber(n) + cssUnit(unit), true
		}
	}
	if s, ok := v.String("lineHeight"); ok && s != "" {
		return s, true
	}
	if n, ok := v.Number("lineHeight"); ok {
		return formatNumber(n), true
	}
	if unit, _ := v.String("lineHeightUnit"); unit == "INTRINSIC_%" {
		return defaultLineHeight, true
	}
	if px, ok := v.Number("lineHeightPx"); ok {
		return formatNumber(roundTo(px, 2)) + "px", true
	}
	if pct, ok := v.Number("lineHeightPercentFontSize"); ok {
		return formatNumber(roundTo(pct, 2)) + "%", true
	}
	return "", false
}

func letterSpacing(v Values) (string, bool) {
	if ls, ok := v.Map("letterSpacing"); ok {
		if n, ok := ls.Number("value"); ok {
			unit, _ := ls.String("unit")
			return formatNumber(n) + cssUnit(unit), true
		}
	}
	if s, ok := v.String("letterSpacing"); ok && s != "" {
		return s, true
	}
	if n, ok := v.Number("letterSpacing"); ok {
		return formatNumber(roundTo(n, 2)) + "px", true
	}
	return "", false
}

func cssUnit(unit string) string {
	switch strings.ToUpper(unit) {
	case "PIXELS", "PX":
		return "px"
	case "PERCENT", "%":
		return "%"
	}
	return ""
}

// effectExtractors fills the type-specific fields of an effect token.
var effectExtractors = map[string]func(v Values, tok *EffectToken){
	"DROP_SHADOW":     extractShadow,
	"INNER_SHADOW":    extractShadow,
	"LAYER_BLUR":      extractBlur,
	"BACKGROUND_BLUR": extractBlur,
	"NOISE":           extractNoise,
	"TEXTURE":         extractTexture,
}

func normalizeEffect(s RawStyle) (EffectToken, bool) {
	effects, _ := s.Values.Slice("effects")
	if len(effects) == 0 {
		return EffectToken{}, false
	}
	first, _ := toValues(effects[0])

	effectType, ok := first.String("type")
	if !ok || effectType == "" {
		effectType = unknownType
	}
	if effectType == unknownType {
		return EffectToken{}, false
	}

	tok := EffectToken{Name: s.Name, Type: effectType}
	if r, ok := first.Number("radius"); ok {
		tok.Radius = &r
	}
	if bm, ok := first.String("blendMode"); ok {
		tok.BlendMode = bm
	}
	if vis, ok := first.Bool("visible"); ok {
		tok.Visible = &vis
	}
	if extract, ok := effectExtractors[effectType]; ok {
		extract(first, &tok)
	}
	if len(effects) > 1 {
		tok.AllEffects = cloneValue(effects).([]any)
	}
	return tok, true
}

func extractShadow(v Values, tok *EffectToken) {
	if c, ok := colorValue(v, "color"); ok {
		tok.Color = c
	}
	if off, ok := v.Map("offset"); ok {
		if vec, ok := parseVector(off); ok {
			tok.Offset = &vec
		}
	}
	if spread, ok := v.Number("spread"); ok {
		tok.Spread = &spread
	}
	if show, ok := v.Bool("showShadowBehindNode"); ok {
		tok.ShowShadowBehindNode = &show
	}
}

func extractBlur(v Values, tok *EffectToken) {
	if bt, ok := v.String("blurType"); ok {
		tok.BlurType = bt
	}
	if sr, ok := v.Number("startRadius"); ok {
		tok.StartRadius = &sr
	}
	if m, ok := v.Map("startOffset"); ok {
		if vec, ok := parseVector(m); ok {
			tok.StartOffset = &vec
		}
	}
	if m, ok := v.Map("endOffset"); ok {
		if vec, ok := parseVector(m); ok {
			tok.EndOffset = &vec
		}
	}
}

func extractNoise(v Values, tok *EffectToken) {
	if size, ok := v.Number("noiseSize"); ok {
		tok.NoiseSize = &size
	}
	if nt, ok := v.String("noiseType"); ok {
		tok.NoiseType = nt
	}
	if d, ok := v.Number("density"); ok {
		tok.Density = &d
	}
	if c, ok := colorValue(v, "secondaryColor"); ok {
		tok.SecondaryColor = c
	}
	if op, ok := v.Number("opacity"); ok {
		tok.Opacity = &op
	}
}

func extractTexture(v Values, tok *EffectToken) {
	if size, ok := v.Number("noiseSize"); ok {
		tok.NoiseSize = &size
	}
	if clip, ok := v.Bool("clipToShape"); ok {
		tok.ClipToShape = &clip
	}
}

func normalizeGrid(s RawStyle) (SpacingToken, bool) {
	grids, _ := s.Values.Slice("grids")
	if len(grids) == 0 {
		return SpacingToken{}, false
	}
	g, _ := toValues(grids[0])

	tok := SpacingToken{Name: s.Name, Type: "grid"}
	if p, ok := g.String("pattern"); ok {
		tok.Pattern = p
	}
	if n, ok := g.Number("sectionSize"); ok {
		tok.SectionSize = &n
	}
	if n, ok := g.Number("gutterSize"); ok {
		tok.GutterSize = &n
	}
	if n, ok := g.Number("offset"); ok {
		tok.Offset = &n
	}
	if n, ok := g.Number("count"); ok {
		count := int(n)
		tok.Count = &count
	}
	if a, ok := g.String("alignment"); ok {
		tok.Alignment = a
	}
	if c, ok := colorValue(g, "color"); ok {
		tok.Color = c
	}

	if tok.Pattern == "" && tok.SectionSize == nil {
		return SpacingToken{}, false
	}
	return tok, true
}

func parseVector(v Values) (Vector, bool) {
	x, okX := v.Number("x")
	y, okY := v.Number("y")
	if !okX && !okY {
		return Vector{}, false
	}
	return Vector{X: x, Y: y}, true
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
