package prompt

// TokenCategories are the top-level keys of a structured token document.
var TokenCategories = []string{"colors", "typography", "spacing", "effects"}

// TokenEntry is one token in a structured token document.
type TokenEntry struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// TokenEntrySchema returns the JSON Schema of a TokenEntry.
func TokenEntrySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value":       map[string]any{"type": "string"},
			"type":        map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []any{"value", "type"},
	}
}

// TokenSchema returns the JSON Schema of a structured token document: for
// each category, a mapping of token name to TokenEntry.
func TokenSchema() map[string]any {
	properties := make(map[string]any, len(TokenCategories))
	required := make([]any, 0, len(TokenCategories))
	for _, category := range TokenCategories {
		properties[category] = map[string]any{
			"type":                 "object",
			"additionalProperties": TokenEntrySchema(),
		}
		required = append(required, category)
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
