package mcpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/config"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
)

// RunSQLInput is the MCP tool input schema for run_sql.
type RunSQLInput struct {
	SQL   string `json:"sql" jsonschema:"SELECT or UPDATE statement against saved_recipes"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum rows to return (1-1000, default: 200)"`
}

type ValidateSQLInput struct {
	SQL string `json:"sql" jsonschema:"statement to check without running it"`
}

// TextOutput carries tool output meant to be read as is.
type TextOutput struct {
	Result string `json:"result"`
}

type ValidateSQLOutput struct {
	OK     bool   `json:"ok"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Query  string `json:"query,omitempty"`
}

// NewRunSQLHandler returns a tool handler that runs guarded SQL.
// Pass the returned function to mcp.AddTool.
func NewRunSQLHandler(sql *tools.GuardedSQL, limits config.RunSQLConfig) func(context.Context, *mcp.CallToolRequest, RunSQLInput) (*mcp.CallToolResult, TextOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RunSQLInput) (*mcp.CallToolResult, TextOutput, error) {
		return nil, TextOutput{Result: RunSQL(ctx, sql, limits, input)}, nil
	}
}

// RunSQL validates and executes one statement. SELECT output is a pipe
// table of at most limit rows.
func RunSQL(ctx context.Context, sql *tools.GuardedSQL, limits config.RunSQLConfig, input RunSQLInput) string {
	if strings.TrimSpace(input.SQL) == "" {
		return "SQL cannot be empty."
	}

	limit := clampLimit(input.Limit, limits)

	validated := sql.Validate(input.SQL)
	if !validated.Accepted {
		return "Blocked: " + validated.Reason
	}

	result, err := sql.Run(ctx, validated, limit)
	if err != nil {
		return fmt.Sprintf("Database error: %v", err)
	}

	if validated.Kind == guardrails.UpdateKind {
		return fmt.Sprintf("✓ %d row(s) affected", result.AffectedRows)
	}
	return result.Table()
}

func clampLimit(limit int, limits config.RunSQLConfig) int {
	if limit == 0 {
		limit = limits.DefaultLimit
	}
	return max(1, min(limit, limits.MaxLimit))
}

func NewValidateSQLHandler(sql *tools.GuardedSQL) func(context.Context, *mcp.CallToolRequest, ValidateSQLInput) (*mcp.CallToolResult, ValidateSQLOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateSQLInput) (*mcp.CallToolResult, ValidateSQLOutput, error) {
		result := sql.Validate(input.SQL)
		return nil, ValidateSQLOutput{
			OK:     result.Accepted,
			Kind:   result.Kind.String(),
			Error:  result.Error.String(),
			Reason: result.Reason,
			Query:  result.Query,
		}, nil
	}
}
