package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{ name string }

func (e echoTool) Name() string               { return e.name }
func (e echoTool) Description() string        { return "echoes its input" }
func (e echoTool) Parameters() map[string]any { return objectSchema(nil, map[string]any{}) }
func (e echoTool) Call(ctx context.Context, input json.RawMessage) (string, error) {
	return string(input), nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil, echoTool{name: "zeta"}, echoTool{name: "alpha"})

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name())
	assert.Equal(t, "zeta", list[1].Name())

	out, err := r.Execute(context.Background(), "alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", out, "empty input defaults to an empty object")

	_, err = r.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	desc := r.Describe()
	assert.Contains(t, desc, "- alpha: echoes its input")
	assert.Contains(t, desc, "input schema:")
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.in))
		})
	}
}

type stubFetcher struct {
	segments []string
	err      error
	gotID    string
	gotLang  string
}

func (s *stubFetcher) Fetch(ctx context.Context, videoID string, language string) ([]string, error) {
	s.gotID = videoID
	s.gotLang = language
	return s.segments, s.err
}

func TestYouTubeTranscript(t *testing.T) {
	logger := testLogger()

	t.Run("joins segments", func(t *testing.T) {
		f := &stubFetcher{segments: []string{"add the gin", "stir well"}}
		tool := NewYouTubeTranscript(f, "", logger)

		out := tool.Transcript(context.Background(), "https://youtu.be/abc123")
		assert.Equal(t, "Transcript for video abc123:\n\nadd the gin stir well", out)
		assert.Equal(t, "en", f.gotLang)
	})

	t.Run("no transcript", func(t *testing.T) {
		tool := NewYouTubeTranscript(&stubFetcher{err: ErrNoTranscript}, "en", logger)
		out := tool.Transcript(context.Background(), "abc123")
		assert.Equal(t, "No transcript available for video abc123. Try searching for a similar recipe instead.", out)
	})

	t.Run("fetch error", func(t *testing.T) {
		tool := NewYouTubeTranscript(&stubFetcher{err: errors.New("timeout")}, "en", logger)
		out := tool.Transcript(context.Background(), "abc123")
		assert.Equal(t, "Error retrieving transcript for video abc123: timeout", out)
	})

	t.Run("empty input", func(t *testing.T) {
		tool := NewYouTubeTranscript(&stubFetcher{}, "en", logger)
		out, err := tool.Call(context.Background(), json.RawMessage(`{"video_url_or_id": ""}`))
		require.NoError(t, err)
		assert.Equal(t, "Error: No valid video URL or ID provided.", out)
	})
}

type mapCache struct {
	data map[string]string
}

func (m *mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value string) error {
	m.data[key] = value
	return nil
}

func TestWebSearch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "negroni recipe", req.Query)
		assert.Equal(t, 5, req.MaxResults)

		_ = json.NewEncoder(w).Encode(tavilyResponse{Results: []tavilyResult{
			{Title: "Classic Negroni", URL: "https://example.com/negroni", Content: "Equal parts gin, Campari, vermouth."},
			{Title: "Negroni Sbagliato", URL: "https://example.com/sbagliato", Content: "Prosecco instead of gin."},
		}})
	}))
	defer srv.Close()

	rc := &mapCache{data: map[string]string{}}
	ws := NewWebSearch("test-key", 0, rc, testLogger())
	ws.endpoint = srv.URL

	out, err := ws.Search(context.Background(), "negroni recipe", 0)
	require.NoError(t, err)
	assert.Contains(t, out, "**Classic Negroni**\nEqual parts gin, Campari, vermouth.\nSource: https://example.com/negroni")
	assert.Contains(t, out, "\n---\n")

	again, err := ws.Search(context.Background(), "  Negroni Recipe ", 0)
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, int32(1), calls.Load(), "second search is served from the cache")
}

func TestWebSearchErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		ws := NewWebSearch("", 5, nil, testLogger())
		out, err := ws.Search(context.Background(), "tacos", 0)
		require.NoError(t, err)
		assert.Equal(t, "Error: TAVILY_API_KEY not configured", out)
	})

	t.Run("api failure is text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		ws := NewWebSearch("k", 5, nil, testLogger())
		ws.endpoint = srv.URL

		out, err := ws.Search(context.Background(), "tacos", 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Error: web search failed: HTTP 429"), out)
	})

	t.Run("no results", func(t *testing.T) {
		assert.Equal(t, "No results found.", formatSearchResults(nil))
	})
}

const recipePage = `<html><head><title>Best Carbonara</title></head><body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<div class="ads">Buy now</div>
<article>
<h1>Spaghetti Carbonara</h1>
<ul><li>200g spaghetti</li><li>2 eggs</li><li>100g guanciale</li></ul>
<ol><li>Boil pasta.</li><li>Fry guanciale.</li><li>Mix with eggs off the heat.</li></ol>
</article>
<footer>Copyright</footer>
</body></html>`

func TestFetchRecipePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(recipePage))
	}))
	defer srv.Close()

	f := NewFetchRecipePage(5*time.Second, 0, testLogger())
	out := f.Fetch(context.Background(), srv.URL)

	assert.True(t, strings.HasPrefix(out, "# Best Carbonara\n\n"), out)
	assert.Contains(t, out, "200g spaghetti")
	assert.Contains(t, out, "Mix with eggs off the heat.")
	assert.NotContains(t, out, "Copyright")
	assert.NotContains(t, out, "About")
	assert.True(t, strings.HasSuffix(out, "Source: "+srv.URL), out)
}

func TestFetchRecipePageRejectsBadURLs(t *testing.T) {
	f := NewFetchRecipePage(time.Second, 100, testLogger())

	assert.Equal(t, "Error: only http and https URLs are supported", f.Fetch(context.Background(), "file:///etc/passwd"))
	assert.Equal(t, "Error: URL has no host", f.Fetch(context.Background(), "http://"))
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 10))
	assert.Equal(t, "ab", truncateUTF8("abcdef", 2))
	// "é" is two bytes; cutting inside it backs off to the rune start.
	assert.Equal(t, "caf", truncateUTF8("café", 4))
}
