package llm

// RawFieldMapSchema returns the JSON-Schema the oracle reply must satisfy: a flat object
// whose values are scalars, null, or arrays of scalars. Keys are free-form; name
// reconciliation happens in the normalizer.
func RawFieldMapSchema() map[string]any {
	scalar := map[string]any{"type": []string{"string", "number", "boolean", "null"}}
	return map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"anyOf": []any{
				scalar,
				map[string]any{"type": "array", "items": scalar},
			},
		},
	}
}
