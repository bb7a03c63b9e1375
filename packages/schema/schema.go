// Package schema validates JSON response bodies against JSON Schema documents.
package schema

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid  bool
	Errors []string
}

// Validate checks body against the schema in schemaPath.
func Validate(body []byte, schemaPath string) (*Result, error) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ValidateBytes(body, schemaData)
}

// ValidateBytes checks body against an in-memory schema document.
func ValidateBytes(body, schemaData []byte) (*Result, error) {
	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &Result{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, e.String())
	}
	return out, nil
}
