package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
)

type WebSearchInput struct {
	Query      string `json:"query" jsonschema:"search query about recipes, cooking, or cocktails"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results (default: 5)"`
}

type TranscriptInput struct {
	VideoURLOrID string `json:"video_url_or_id" jsonschema:"YouTube URL in any format, or a bare video id"`
}

func NewWebSearchHandler(search *tools.WebSearch) func(context.Context, *mcp.CallToolRequest, WebSearchInput) (*mcp.CallToolResult, TextOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input WebSearchInput) (*mcp.CallToolResult, TextOutput, error) {
		out, err := search.Search(ctx, input.Query, input.MaxResults)
		return nil, TextOutput{Result: out}, err
	}
}

func NewTranscriptHandler(transcripts *tools.YouTubeTranscript) func(context.Context, *mcp.CallToolRequest, TranscriptInput) (*mcp.CallToolResult, TextOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, TextOutput, error) {
		return nil, TextOutput{Result: transcripts.Transcript(ctx, input.VideoURLOrID)}, nil
	}
}
