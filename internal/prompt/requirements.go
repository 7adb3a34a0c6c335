package prompt

import "github.com/HartBrook/figstyle/internal/format"

// requirements returns the fixed requirements block for f. Unknown formats
// get a generic block.
func requirements(f format.Format) string {
	if r, ok := formatRequirements[f]; ok {
		return r
	}
	return genericRequirements
}

var formatRequirements = map[format.Format]string{
	format.CSS: `- Declare every token as a CSS custom property on :root
- Prefix names by category: --color-, --font-, --shadow-, --blur-, --spacing-
- Use kebab-case names (e.g. "Brand/Primary Blue" becomes --color-brand-primary-blue)
- Use hex for opaque solid colors and rgba() when opacity is below 1
- Render gradients with linear-gradient(), radial-gradient() or conic-gradient() using the gradient stops
- For each typography token add a .text-<name> class setting font-family, font-size, font-weight, line-height and letter-spacing
- Render drop shadows as box-shadow values and inner shadows with the inset keyword
- Render layer blurs as filter: blur() and background blurs as backdrop-filter: blur()
- Render grid tokens as spacing custom properties (section size, gutter, offset, column count)`,

	format.SCSS: `- Declare every token as an SCSS variable: $color-, $font-, $shadow-, $spacing- prefixes, kebab-case names
- Also group the variables into maps: $colors, $typography, $shadows, $spacing
- For each typography token add a @mixin text-<name> that sets all font properties
- Use hex for opaque solid colors and rgba() when opacity is below 1
- Render drop shadows as box-shadow values and inner shadows with the inset keyword
- Do not emit CSS selectors other than inside mixins`,

	format.CSSVariables: `- Emit a single :root block containing only CSS custom properties
- Do not emit classes, mixins or any other selectors
- Group related properties with a short section comment (Colors, Typography, Effects, Spacing)
- Prefix names by category: --color-, --font-size-, --font-family-, --font-weight-, --line-height-, --letter-spacing-, --shadow-, --spacing-
- Use kebab-case names derived from the token names
- Use hex for opaque solid colors and rgba() when opacity is below 1`,

	format.Tailwind: `- Output a complete Tailwind configuration: module.exports = { theme: { extend: { ... } } }
- Put colors under theme.extend.colors, nesting by name group (e.g. brand: { primary: '#007AFF' })
- Put font families under fontFamily and sizes under fontSize as [size, { lineHeight, letterSpacing, fontWeight }] tuples
- Put shadows under boxShadow and blurs under blur
- Put grid-derived sizes under spacing
- Use kebab-case keys and quote keys that are not valid identifiers
- Do not add plugins or a content array`,

	format.JavaScript: `- Output an ES module exporting one named constant per category: colors, typography, effects, spacing
- Use camelCase keys derived from the token names
- Colors are hex or rgba() strings; typography entries are objects with fontFamily, fontSize, fontWeight, lineHeight and letterSpacing
- Effects are CSS-ready strings (box-shadow or blur()) keyed by token name
- End with export default { colors, typography, effects, spacing }`,

	format.JSON: `- Output a single JSON object with the top-level keys colors, typography, effects and spacing
- Inside each category, key tokens by kebab-case name
- Each token is an object of the form {"value": ..., "type": ..., "description": ...}
- "value" is CSS-ready (hex or rgba() colors, px sizes, box-shadow strings)
- "description" is a short human-readable note on the token's purpose
- The output must parse as strict JSON: double-quoted keys, no trailing commas`,

	format.Android: `- Output an Android resources XML document starting with <?xml version="1.0" encoding="utf-8"?>
- Wrap everything in a single <resources> element
- Declare colors as <color name="snake_case_name">#AARRGGBB</color>
- Declare font sizes, letter spacing and grid sizes as <dimen> entries using sp for text and dp for layout
- Declare each typography token as <style name="TextAppearance.App.PascalCaseName"> with android:textSize, android:fontFamily, android:textStyle and android:letterSpacing items
- Use snake_case resource names derived from the token names`,

	format.SwiftUI: `- Output a Swift source file that starts with import SwiftUI
- Declare colors in extension Color { static let camelCaseName = Color(red:green:blue:opacity:) } using 0-1 component values
- Declare typography in extension Font { static let camelCaseName = Font.custom(family, size:).weight(...) } falling back to Font.system when the family is "system"
- Declare shadows as a struct DesignShadow with color, radius, x and y, plus static instances
- Declare grid-derived sizes in enum Spacing { static let name: CGFloat = ... }
- Use camelCase names derived from the token names`,
}

const genericRequirements = `- Represent every token in the idiomatic form for the target language
- Derive names from the token names using the target language's naming conventions
- Group tokens by category: colors, typography, effects, spacing`
