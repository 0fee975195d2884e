/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the defaults we need for
// model-facing schemas: inline definitions, no $ref indirection.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator with project defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// For allocates a zero value of T and reflects it using a default
// generator.
func For[T any]() *jsonschema.Schema {
	var zero T
	return NewGenerator().Reflect(&zero)
}

// MapFor reflects T and round-trips the schema through JSON into a plain
// map, the form remote evaluation definitions expect for their item
// schema.
func MapFor[T any]() (map[string]any, error) {
	data, err := json.Marshal(For[T]())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return m, nil
}

// JSONFor reflects T and returns the schema as indented JSON text for
// embedding in prompts.
func JSONFor[T any]() (string, error) {
	data, err := json.MarshalIndent(For[T](), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}
	return string(data), nil
}
