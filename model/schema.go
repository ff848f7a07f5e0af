package model

import (
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// tasksSchema describes the persisted shape of the "todos" slot: an array
// of task objects carrying exactly the four task attributes.
const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "completed", "createdAt"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "title": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"},
      "createdAt": {"type": "integer", "minimum": 0}
    }
  }
}`

var (
	tasksSchemaOnce     sync.Once
	tasksSchemaCompiled *jsonschema.Schema
)

func compiledTasksSchema() *jsonschema.Schema {
	tasksSchemaOnce.Do(func() {
		schema, err := jsonschema.CompileString("tasks.schema.json", tasksSchema)
		if err != nil {
			// Embedded schema is a constant; a compile failure means the
			// constant itself is broken, so fall back to minimal checks.
			return
		}
		tasksSchemaCompiled = schema
	})
	return tasksSchemaCompiled
}

// ValidateTasksJSON checks raw bytes against the tasks document schema.
// A nil return means the document is safe to decode into []Task.
func ValidateTasksJSON(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	schema := compiledTasksSchema()
	if schema == nil {
		return validateTasksMinimal(doc)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("tasks document: %w", err)
	}
	return nil
}

// validateTasksMinimal mirrors the schema's required checks without the
// compiler, for the degenerate case where compilation is unavailable.
func validateTasksMinimal(doc interface{}) error {
	items, ok := doc.([]interface{})
	if !ok {
		return fmt.Errorf("tasks document: not an array")
	}
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return fmt.Errorf("tasks document: item %d is not an object", i)
		}
		if s, ok := obj["id"].(string); !ok || s == "" {
			return fmt.Errorf("tasks document: item %d has no id", i)
		}
		if s, ok := obj["title"].(string); !ok || s == "" {
			return fmt.Errorf("tasks document: item %d has no title", i)
		}
		if _, ok := obj["completed"].(bool); !ok {
			return fmt.Errorf("tasks document: item %d has no completed flag", i)
		}
		if _, ok := obj["createdAt"].(float64); !ok {
			return fmt.Errorf("tasks document: item %d has no createdAt", i)
		}
	}
	return nil
}
