// Package prompt builds the generation requests sent to a language model.
package prompt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/HartBrook/figstyle/internal/format"
	"github.com/HartBrook/figstyle/internal/styles"
	"github.com/HartBrook/figstyle/internal/tokens"
)

// ChunkContext locates a request within a chunked run. Index is 1-based.
type ChunkContext struct {
	Index int
	Total int
}

// chunked reports whether c describes one part of a multi-part run.
func (c *ChunkContext) chunked() bool {
	return c != nil && c.Total > 1
}

// Request is a self-contained generation request.
type Request struct {
	Format      format.Format
	System      string
	Instruction string
	// Schema is set for structured requests: a JSON Schema the response
	// object must satisfy.
	Schema      map[string]any
	ChunkIndex  int // 1-based; zero when the run is not chunked
	TotalChunks int
}

// Structured reports whether the request expects a schema-constrained object.
func (r Request) Structured() bool {
	return r.Schema != nil
}

// Text returns the complete prompt as one document, for pasting into a
// model by hand.
func (r Request) Text() string {
	return r.System + "\n\n" + r.Instruction
}

// Tokens estimates the prompt's token cost.
func (r Request) Tokens() int {
	return tokens.Estimate(r.Text())
}

// Synthesize builds a text-generation request for set in format f. chunk is
// nil for an unchunked run.
func Synthesize(set *styles.CompressedStyleSet, f format.Format, chunk *ChunkContext) (Request, error) {
	data, err := set.Serialize()
	if err != nil {
		return Request{}, fmt.Errorf("serialize style set: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %s code from the following Figma design tokens.\n\n", f.DisplayName())
	b.WriteString(outputConstraint(f))
	b.WriteString("\n\nDESIGN TOKENS:\n---\n")
	b.Write(data)
	b.WriteString("\n---\n\nREQUIREMENTS:\n")
	b.WriteString(requirements(f))

	req := Request{
		Format: f,
		System: systemPrompt,
	}
	if chunk.chunked() {
		b.WriteString("\n\n")
		b.WriteString(chunkInstructions(f, chunk))
		req.ChunkIndex = chunk.Index
		req.TotalChunks = chunk.Total
	}
	fmt.Fprintf(&b, "\n\nOutput ONLY the %s code.", f.DisplayName())
	req.Instruction = b.String()

	logUsage(req)
	return req, nil
}

// SynthesizeStructured builds a schema-constrained request for the JSON
// token document. It is only used for whole, unchunked sets.
func SynthesizeStructured(set *styles.CompressedStyleSet) (Request, error) {
	data, err := set.Serialize()
	if err != nil {
		return Request{}, fmt.Errorf("serialize style set: %w", err)
	}

	instruction := fmt.Sprintf(`Convert the following Figma design tokens into a design token document.

DESIGN TOKENS:
---
%s
---

REQUIREMENTS:
- Produce one entry per token under its category: colors, typography, spacing, effects.
- Key each entry by a kebab-case token name derived from the Figma style name.
- "value" is the CSS-ready value: hex or rgba() for colors, a shorthand font declaration for typography, a box-shadow or blur() for effects, a px length for spacing.
- "type" is the token type: color, typography, shadow, blur, spacing or grid.
- "description" briefly says where the token is meant to be used.`, data)

	req := Request{
		Format:      format.JSON,
		System:      systemPrompt,
		Instruction: instruction,
		Schema:      TokenSchema(),
	}
	logUsage(req)
	return req, nil
}

func logUsage(req Request) {
	slog.Debug("prompt synthesized",
		"format", req.Format,
		"chunk", req.ChunkIndex,
		"total", req.TotalChunks,
		"structured", req.Structured(),
		"tokens", req.Tokens(),
	)
}

const systemPrompt = `You are a design systems engineer. You convert design tokens exported from Figma into production-ready source code.

RULES:
- Preserve every token; never invent tokens that are not in the input
- Derive names from the Figma style names, keeping their grouping (e.g. "Brand/Primary" becomes brand-primary)
- Keep values exact: do not round colors or change sizes
- Follow the naming conventions of the target platform`

// outputConstraint is the hard rule on what the response may contain.
func outputConstraint(f format.Format) string {
	comments := fmt.Sprintf("Comments are allowed only as %s comments.", f.CommentMarker())
	if !f.IsText() {
		comments = "Do not include comments."
	}
	return fmt.Sprintf("CRITICAL: Output ONLY valid %s code. Do not include explanations, prose or markdown code fences. %s",
		f.Language(), comments)
}

// chunkInstructions tells the model how its part fits into the whole.
func chunkInstructions(f format.Format, chunk *ChunkContext) string {
	lines := []string{
		fmt.Sprintf("CHUNK: This is part %d of %d. The design tokens were split into %d parts that are generated separately and combined afterwards.",
			chunk.Index, chunk.Total, chunk.Total),
		"- Only generate code for the tokens in this part.",
		"- Use exactly the naming conventions you would use for the full token set so that names stay consistent across parts.",
	}

	switch f {
	case format.Tailwind:
		lines = append(lines, "- Still output a complete module.exports configuration object and place every token under theme.extend. The objects of all parts are deep-merged, so only use theme.extend groups for the categories present in this part.")
	case format.JSON:
		lines = append(lines, `- Instead of nesting tokens under category objects, output a flat JSON object whose keys are "<category>.<token-name>" (e.g. "colors.primary-blue") so parts can be merged key by key.`)
	case format.Android:
		lines = append(lines, "- Output a complete <resources> document for this part.")
	}

	if f.IsText() {
		lines = append(lines, "- Begin your output with this line: "+PartComment(f, chunk.Index, chunk.Total))
	}
	return strings.Join(lines, "\n")
}

// PartComment is the chunk-position comment for part index of total.
func PartComment(f format.Format, index, total int) string {
	return f.Comment(fmt.Sprintf("Part %d of %d", index, total))
}
