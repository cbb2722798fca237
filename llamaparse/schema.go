package llamaparse

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateSchema compiles the raw JSON-schema argument, rejecting malformed
// input before any upload happens. An empty schema is valid (no schema).
func ValidateSchema(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := jsonschema.CompileString("schema.json", raw); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return nil
}
