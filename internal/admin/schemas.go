package admin

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for write payloads. Compiled once at startup; a malformed
// schema is a programming error and panics.
const questionSchema = `{
	"type": "object",
	"required": ["type", "text"],
	"properties": {
		"order":      {"type": "integer", "minimum": 0},
		"type":       {"type": "string", "enum": ["text", "photo", "choice", "info"]},
		"text":       {"type": "string", "minLength": 1},
		"choices":    {"type": "string"},
		"image":      {"type": "string"},
		"fieldName":  {"type": "string"},
		"isRequired": {"type": "boolean"},
		"isActive":   {"type": "boolean"}
	},
	"additionalProperties": false
}`

const statusSchema = `{
	"type": "object",
	"required": ["status"],
	"properties": {
		"status": {"type": "string", "enum": ["approved", "rejected"]}
	},
	"additionalProperties": false
}`

const settingsSchema = `{
	"type": "object",
	"properties": {
		"token":        {"type": "string"},
		"botName":      {"type": "string"},
		"welcomeImage": {"type": "string"},
		"isActive":     {"type": "boolean"}
	},
	"additionalProperties": false
}`

var (
	questionValidator = mustCompileSchema(questionSchema)
	statusValidator   = mustCompileSchema(statusSchema)
	settingsValidator = mustCompileSchema(settingsSchema)
)

func mustCompileSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("admin: invalid schema: %v", err))
	}
	return schema
}

// validatePayload checks raw JSON against a compiled schema and returns a
// readable list of violations.
func validatePayload(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}
