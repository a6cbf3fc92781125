// ABOUTME: JSON Schemas for persisted project files
// ABOUTME: Violations are reported for diagnostics only; loading still normalizes
package storage

import (
	"github.com/xeipuuv/gojsonschema"
)

const calloutsSchema = `{
  "type": "object",
  "properties": {
    "inline": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "startOffset", "endOffset", "instruction"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "startOffset": {"type": "integer", "minimum": 0},
          "endOffset": {"type": "integer", "minimum": 1},
          "instruction": {"type": "string"},
          "text": {"type": "string"}
        }
      }
    },
    "overall": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "instruction"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "instruction": {"type": "string"}
        }
      }
    }
  }
}`

const scopeSchema = `{
  "type": "object",
  "required": ["mode"],
  "properties": {
    "mode": {"enum": ["full", "range"]},
    "selection": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "required": ["anchorKey", "focusKey"],
          "properties": {
            "anchorKey": {"type": "string", "minLength": 1},
            "anchorOffset": {"type": "number"},
            "anchorType": {"type": "string"},
            "focusKey": {"type": "string", "minLength": 1},
            "focusOffset": {"type": "number"},
            "focusType": {"type": "string"},
            "isBackward": {"type": "boolean"}
          }
        }
      ]
    }
  }
}`

const contextsSchema = `{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "path"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "path": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// checkSchema validates data against schema and returns human-readable problems.
func checkSchema(schema string, data []byte) []string {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems
}

func (p *Project) reportSchema(file, schema string, data []byte) {
	for _, problem := range checkSchema(schema, data) {
		p.logger.Debug("schema mismatch", "file", file, "problem", problem)
	}
}
