package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCP adds every registered tool to s with its raw JSON schema.
func (r *Registry) RegisterMCP(s *server.MCPServer) error {
	for _, t := range r.List() {
		schema, err := json.Marshal(ParameterSchema(t.Parameters()))
		if err != nil {
			return fmt.Errorf("marshal schema of %s: %w", t.Name(), err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), mcpHandler(t))
	}
	return nil
}

// mcpHandler answers with the JSON encoded Result.Value(), flagged as an
// error result when the call failed.
func mcpHandler(t Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return nil, fmt.Errorf("marshal arguments: %w", err)
		}

		res := t.Call(ctx, args)

		out, err := json.Marshal(res.Value())
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
		if !res.OK() {
			return mcp.NewToolResultError(string(out)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
