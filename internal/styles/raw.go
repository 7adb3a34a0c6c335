// Package styles converts published design styles into the compact canonical
// token model consumed by prompt generation.
package styles

import (
	"encoding/json"
	"strconv"
)

// Style kinds as reported by the design-file API.
const (
	KindFill   = "FILL"
	KindText   = "TEXT"
	KindEffect = "EFFECT"
	KindGrid   = "GRID"
)

// RawStyleCollection is the provider-shaped style payload, grouped by kind.
// It is produced by the Figma client (or read from a saved export) and is
// never modified by this package.
type RawStyleCollection struct {
	FileKey      string    `json:"fileKey,omitempty"`
	Name         string    `json:"name,omitempty"`
	LastModified string    `json:"lastModified,omitempty"`
	Styles       RawStyles `json:"styles"`
}

// RawStyles holds the raw style entries for each kind.
type RawStyles struct {
	Fill   []RawStyle `json:"fill"`
	Text   []RawStyle `json:"text"`
	Effect []RawStyle `json:"effect"`
	Grid   []RawStyle `json:"grid"`
}

// RawStyle is a single published style. Values has a kind-specific shape.
type RawStyle struct {
	Key         string `json:"key,omitempty"`
	NodeID      string `json:"nodeId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Values      Values `json:"values,omitempty"`
}

// Count returns the number of raw styles across all kinds.
func (r *RawStyleCollection) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Styles.Fill) + len(r.Styles.Text) + len(r.Styles.Effect) + len(r.Styles.Grid)
}

// Values is a loosely typed JSON object. Accessors report ok=false for
// missing or mistyped fields instead of failing.
type Values map[string]any

// UnmarshalJSON decodes a JSON object into v. Any other JSON value leaves v
// empty so that one malformed style does not fail the whole collection.
func (v *Values) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		*v = Values{}
		return nil
	}
	*v = m
	return nil
}

// String returns the string value stored at key.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// Number returns the numeric value stored at key.
func (v Values) Number(key string) (float64, bool) {
	return toFloat(v[key])
}

// Bool returns the boolean value stored at key.
func (v Values) Bool(key string) (bool, bool) {
	b, ok := v[key].(bool)
	return b, ok
}

// Map returns the nested object stored at key.
func (v Values) Map(key string) (Values, bool) {
	return toValues(v[key])
}

// Slice returns the array stored at key.
func (v Values) Slice(key string) ([]any, bool) {
	s, ok := v[key].([]any)
	return s, ok
}

func toValues(x any) (Values, bool) {
	switch m := x.(type) {
	case Values:
		return m, m != nil
	case map[string]any:
		return Values(m), m != nil
	}
	return nil, false
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// numberOrString renders a numeric or string value as text.
func numberOrString(x any) (string, bool) {
	if s, ok := x.(string); ok && s != "" {
		return s, true
	}
	if f, ok := toFloat(x); ok {
		return formatNumber(f), true
	}
	return "", false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cloneValue deep-copies decoded JSON so retained data never aliases the input.
func cloneValue(x any) any {
	switch t := x.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = cloneValue(v)
		}
		return out
	case Values:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = cloneValue(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return t
	}
}
