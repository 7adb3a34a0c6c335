package styles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues_UnmarshalObject(t *testing.T) {
	var s RawStyle
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Primary","values":{"type":"SOLID","opacity":0.5}}`), &s))

	typ, ok := s.Values.String("type")
	assert.True(t, ok)
	assert.Equal(t, "SOLID", typ)
	opacity, ok := s.Values.Number("opacity")
	assert.True(t, ok)
	assert.Equal(t, 0.5, opacity)
}

func TestValues_UnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"string", `"oops"`},
		{"number", `42`},
		{"array", `[1, 2]`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s RawStyle
			err := json.Unmarshal([]byte(`{"name":"Broken","values":`+tt.json+`}`), &s)
			require.NoError(t, err)

			assert.Equal(t, "Broken", s.Name)
			assert.Empty(t, s.Values)
			_, ok := s.Values.String("type")
			assert.False(t, ok)
		})
	}
}

func TestRawStyleCollection_MalformedValuesKeepsOtherStyles(t *testing.T) {
	data := []byte(`{
  "fileKey": "ABC123",
  "styles": {
    "fill": [
      {"name": "Broken", "kind": "FILL", "values": "oops"},
      {"name": "Primary Blue", "kind": "FILL", "values": {"type": "SOLID", "hex": "#007AFF"}}
    ],
    "text": [],
    "effect": [],
    "grid": []
  }
}`)

	var raw RawStyleCollection
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.Styles.Fill, 2)

	set := Normalize(&raw)
	names := make([]string, 0, len(set.Colors))
	for _, c := range set.Colors {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Primary Blue")
}
