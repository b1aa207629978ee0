package mcpadapter

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/config"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
)

// Tools are the capabilities exposed over MCP. SQL is required; Search and
// Transcripts are optional.
type Tools struct {
	SQL         *tools.GuardedSQL
	Search      *tools.WebSearch
	Transcripts *tools.YouTubeTranscript
	Limits      config.RunSQLConfig
}

func NewServer(version string, t Tools) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "recipe-agent",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_sql",
		Description: "Run a SELECT or UPDATE against the saved_recipes table. Statements pass the SQL guardrail first; deleted recipes are hidden from SELECTs.",
	}, NewRunSQLHandler(t.SQL, t.Limits))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_sql",
		Description: "Check a statement against the SQL guardrail without running it and show the statement that would be executed.",
	}, NewValidateSQLHandler(t.SQL))

	if t.Search != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "web_search",
			Description: "Search the web for recipes, ingredients, cooking techniques, or cocktails.",
		}, NewWebSearchHandler(t.Search))
	}

	if t.Transcripts != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "get_youtube_transcript",
			Description: "Get the transcript of a YouTube cooking video.",
		}, NewTranscriptHandler(t.Transcripts))
	}

	return server
}
