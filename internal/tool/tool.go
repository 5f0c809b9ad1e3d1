package tool

import (
	"context"
	"encoding/json"
)

// Tool is a callable unit with a name, a description and a parameter schema,
// invoked by function-calling frameworks with a JSON argument object.
type Tool interface {
	Name() string
	Description() string
	Parameters() []ParameterDef
	Call(ctx context.Context, args json.RawMessage) Result
}

// ParameterDef describes one argument by its wire name.
type ParameterDef struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"` // "string" | "integer" | "number"
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// Schema is the function-calling envelope of a tool.
type Schema struct {
	Type     string         `json:"type" yaml:"type"`
	Function FunctionSchema `json:"function" yaml:"function"`
}

type FunctionSchema struct {
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Parameters  map[string]interface{} `json:"parameters" yaml:"parameters"`
}

// SchemaOf builds the function-calling schema of t.
func SchemaOf(t Tool) Schema {
	return Schema{
		Type: "function",
		Function: FunctionSchema{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  ParameterSchema(t.Parameters()),
		},
	}
}

// ParameterSchema builds a JSON schema object from params.
func ParameterSchema(params []ParameterDef) map[string]interface{} {
	properties := make(map[string]interface{})
	required := make([]string, 0)

	for _, param := range params {
		properties[param.Name] = map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}
