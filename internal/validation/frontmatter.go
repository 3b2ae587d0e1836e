package validation

// FrontMatterSchema describes the recognized metadata header keys and their
// expected value shapes. Keys outside the set are allowed and ignored, which
// keeps the contract open for theme- or host-specific extensions.
func FrontMatterSchema() map[string]any {
	text := map[string]any{"type": "string"}
	labelList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	toggle := map[string]any{"type": "boolean"}

	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"layout":           text,
			"title":            text,
			"categories":       labelList,
			"tags":             labelList,
			"header":           toggle,
			"breadcrumb":       toggle,
			"meta_description": text,
			"author":           text,
		},
		"required":             []any{"title"},
		"additionalProperties": true,
	}
}

// ValidateFrontMatter checks a raw header mapping against the recognized key
// schema, returning a PayloadValidationError describing every violation.
func ValidateFrontMatter(raw map[string]any) error {
	return ValidatePayload(FrontMatterSchema(), raw)
}
