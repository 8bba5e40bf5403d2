package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed params.schema.json
var paramsSchemaJSON string

var paramsSchema = jsonschema.MustCompileString("params.schema.json", paramsSchemaJSON)

// validateDocument checks v against the parameter schema. v is re-encoded as
// JSON first so YAML documents and Config values validate the same way.
func validateDocument(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return paramsSchema.Validate(doc)
}
