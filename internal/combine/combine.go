// Package combine merges per-chunk generation results into one artifact.
package combine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/HartBrook/figstyle/internal/format"
)

// Combine merges ordered per-chunk results for f into a single artifact.
// A single result is returned unchanged for every format except JSON, which
// always goes through the merge.
func Combine(results []string, f format.Format) (string, error) {
	if f == format.JSON {
		return CombineJSON(results)
	}
	switch len(results) {
	case 0:
		return "", nil
	case 1:
		return results[0], nil
	}

	switch f {
	case format.CSS, format.SCSS, format.CSSVariables:
		return concatBlock(results, f), nil
	case format.Tailwind:
		if merged, ok := mergeTailwind(results); ok {
			return merged, nil
		}
	}
	return concatLine(results), nil
}

// concatBlock joins results under a combined-output header, separated by
// block-comment chunk boundaries.
func concatBlock(results []string, f format.Format) string {
	var b strings.Builder
	b.WriteString(f.Comment(fmt.Sprintf("Combined output from %d chunks", len(results))))
	b.WriteString("\n\n")
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.Comment(fmt.Sprintf("==== Chunk %d of %d ====", i+1, len(results))))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(r))
	}
	b.WriteString("\n")
	return b.String()
}

// concatLine joins results with line-comment separators.
func concatLine(results []string) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "// ==== Chunk %d of %d ====\n", i+1, len(results))
		b.WriteString(strings.TrimSpace(r))
	}
	b.WriteString("\n")
	return b.String()
}

var configExport = regexp.MustCompile(`(?:module\.exports\s*=|export\s+default)\s*\{`)

// mergeTailwind extracts the body of each chunk's exported configuration
// object and emits them as an ordered list that is deep-merged when the
// configuration is loaded. Nested objects such as theme.extend are merged key
// by key and arrays such as plugins are concatenated, so parts that repeat a
// top-level key do not overwrite each other. It fails if any chunk has no
// recognizable export.
func mergeTailwind(results []string) (string, bool) {
	bodies := make([]string, 0, len(results))
	for _, r := range results {
		body, ok := exportBody(r)
		if !ok {
			return "", false
		}
		bodies = append(bodies, body)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Combined Tailwind configuration from %d chunks\n", len(results))
	b.WriteString("const chunks = [\n")
	for i, body := range bodies {
		fmt.Fprintf(&b, "  // Chunk %d of %d\n", i+1, len(bodies))
		b.WriteString("  {\n    ")
		b.WriteString(body)
		b.WriteString("\n  },\n")
	}
	b.WriteString("];\n\n")
	b.WriteString(tailwindMergeFunc)
	b.WriteString("\nmodule.exports = chunks.reduce(mergeConfig, {});\n")
	return b.String(), true
}

const tailwindMergeFunc = `function mergeConfig(target, source) {
  for (const [key, value] of Object.entries(source)) {
    const current = target[key];
    if (Array.isArray(current) && Array.isArray(value)) {
      target[key] = current.concat(value);
    } else if (isObject(current) && isObject(value)) {
      target[key] = mergeConfig({ ...current }, value);
    } else {
      target[key] = value;
    }
  }
  return target;
}

function isObject(value) {
  return value !== null && typeof value === 'object' && !Array.isArray(value);
}
`

// exportBody returns the text between the export marker's opening brace and
// the last closing brace in text.
func exportBody(text string) (string, bool) {
	loc := configExport.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end < loc[1] {
		return "", false
	}
	body := strings.TrimSpace(text[loc[1]:end])
	if body == "" {
		return "", false
	}
	return body, true
}

// CombineJSON shallow-merges JSON object results in order; later results
// overwrite earlier keys. A result that is not a JSON object is kept as a
// raw string under "chunk_<n>_raw_output".
func CombineJSON(results []string) (string, error) {
	data, err := json.MarshalIndent(Merge(results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode merged tokens: %w", err)
	}
	return string(data) + "\n", nil
}

// Merge is CombineJSON without the final encoding.
func Merge(results []string) map[string]any {
	merged := make(map[string]any)
	for i, r := range results {
		obj, err := decodeObject(r)
		if err != nil {
			merged[RawOutputKey(i+1)] = r
			continue
		}
		for k, v := range obj {
			merged[k] = v
		}
	}
	return merged
}

// RawOutputKey is the fallback key for the unparseable result of chunk n.
func RawOutputKey(n int) string {
	return fmt.Sprintf("chunk_%d_raw_output", n)
}

// decodeObject parses text as a single JSON object, keeping numbers exact.
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON object")
	}
	return obj, nil
}
