package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "tileworld://config/schema.json"

//go:embed schema.json
var schemaSource []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// parseDocument decodes data into the generic JSON value model so YAML and
// JSON documents validate against the same schema.
func parseDocument(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			return map[string]any{}, nil
		}
		// Round trip through JSON to normalise YAML scalars.
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		doc = nil
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func validateDocument(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}
