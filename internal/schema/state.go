// Package schema validates pipeline state documents before they are decoded.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const StateSchemaVersion = "1"

var (
	stateSchemaBytes = []byte(`{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "terminated": {"type": "boolean"},
    "url": {"type": "string"},
    "scraped_content": {
      "type": ["object", "null"],
      "properties": {
        "url": {"type": ["string", "null"]},
        "images": {
          "type": ["array", "null"],
          "items": {"$ref": "#/definitions/image"}
        },
        "metadata": {"type": ["object", "null"]}
      },
      "additionalProperties": true
    },
    "image_metadata": {"type": ["object", "null"]},
    "platform": {"type": "string"},
    "user_id": {"type": "string"},
    "connection_id": {"type": ["integer", "null"]},
    "post_text": {"type": "string"},
    "publish_result": {"type": ["object", "null"]},
    "updated_at": {"type": "string", "format": "date-time"}
  },
  "additionalProperties": true,
  "definitions": {
    "image": {
      "description": "A bare URL string or an object; other shapes are ignored by the selector.",
      "if": {"type": "object"},
      "then": {
        "properties": {
          "src": {"type": ["string", "null"]},
          "url": {"type": ["string", "null"]},
          "alt": {"type": ["string", "null"]},
          "caption": {"type": ["string", "null"]},
          "width": {"type": ["integer", "number", "string", "boolean", "null"]},
          "height": {"type": ["integer", "number", "string", "boolean", "null"]}
        },
        "additionalProperties": true
      }
    }
  }
}`)

	stateSchemaOnce     sync.Once
	stateSchemaCompiled *jsonschema.Schema
	stateSchemaErr      error
)

// StateSchema returns the raw JSON schema for pipeline state documents.
func StateSchema() []byte {
	return append([]byte(nil), stateSchemaBytes...)
}

func compiledState() (*jsonschema.Schema, error) {
	stateSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource("pipeline_state.json", bytes.NewReader(stateSchemaBytes)); err != nil {
			stateSchemaErr = fmt.Errorf("add pipeline state schema: %w", err)
			return
		}
		stateSchemaCompiled, stateSchemaErr = compiler.Compile("pipeline_state.json")
	})
	return stateSchemaCompiled, stateSchemaErr
}

// ValidateStateDocument checks data against the pipeline state schema.
func ValidateStateDocument(data []byte) error {
	compiled, err := compiledState()
	if err != nil {
		return err
	}
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshal state json: %w", err)
	}
	return compiled.Validate(payload)
}
