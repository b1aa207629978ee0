package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/cache"
	"github.com/rs/zerolog"
)

const (
	tavilySearchURL   = "https://api.tavily.com/search"
	defaultMaxResults = 5
)

// ResultCache is satisfied by cache.Cache.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

type WebSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type tavilyRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// WebSearch queries the Tavily search API.
type WebSearch struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
	cache      ResultCache
	logger     *zerolog.Logger
}

// NewWebSearch builds the search tool. cache may be nil.
func NewWebSearch(apiKey string, maxResults int, rc ResultCache, logger *zerolog.Logger) *WebSearch {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &WebSearch{
		apiKey:     apiKey,
		endpoint:   tavilySearchURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		cache:      rc,
		logger:     logger,
	}
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Description() string {
	return "Search the web for recipe information, ingredients, cooking techniques, or cocktail recipes. " +
		"Returns titles, snippets and source URLs."
}

func (w *WebSearch) Parameters() map[string]any {
	return objectSchema([]string{"query"}, map[string]any{
		"query":       stringParam("Search query about recipes, cooking, or cocktails"),
		"max_results": map[string]any{"type": "integer", "description": "Maximum number of results (default 5)"},
	})
}

func (w *WebSearch) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in WebSearchInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return w.Search(ctx, in.Query, in.MaxResults)
}

// Search runs one query. Configuration problems and API failures are
// returned as text so the agent can carry on without search.
func (w *WebSearch) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if w.apiKey == "" {
		return "Error: TAVILY_API_KEY not configured", nil
	}
	if strings.TrimSpace(query) == "" {
		return "Error: search query is empty", nil
	}
	if maxResults <= 0 {
		maxResults = w.maxResults
	}

	key := cache.Key(w.Name(), query, strconv.Itoa(maxResults))
	if w.cache != nil {
		if cached, ok, err := w.cache.Get(ctx, key); err != nil {
			w.logger.Warn().Err(err).Msg("search cache unavailable")
		} else if ok {
			w.logger.Debug().Str("query", query).Msg("search cache hit")
			return cached, nil
		}
	}

	results, err := w.query(ctx, query, maxResults)
	if err != nil {
		w.logger.Error().Err(err).Str("query", query).Msg("web search failed")
		return fmt.Sprintf("Error: web search failed: %v", err), nil
	}

	out := formatSearchResults(results)

	if w.cache != nil && len(results) > 0 {
		if err := w.cache.Set(ctx, key, out); err != nil {
			w.logger.Warn().Err(err).Msg("failed to cache search results")
		}
	}

	w.logger.Info().Str("query", query).Int("results", len(results)).Msg("web search completed")
	return out, nil
}

func (w *WebSearch) query(ctx context.Context, query string, maxResults int) ([]tavilyResult, error) {
	body, err := json.Marshal(tavilyRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Results, nil
}

func formatSearchResults(results []tavilyResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	items := make([]string, 0, len(results))
	for _, r := range results {
		items = append(items, fmt.Sprintf("**%s**\n%s\nSource: %s\n", r.Title, r.Content, r.URL))
	}
	return strings.Join(items, "\n---\n")
}
