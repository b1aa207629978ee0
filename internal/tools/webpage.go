package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxPageBytes = 5 << 20

type FetchPageInput struct {
	URL string `json:"url"`
}

// FetchRecipePage downloads a web page and returns its main content as
// markdown, trimmed to maxChars.
type FetchRecipePage struct {
	httpClient *http.Client
	converter  *PageConverter
	maxChars   int
	logger     *zerolog.Logger
}

func NewFetchRecipePage(timeout time.Duration, maxChars int, logger *zerolog.Logger) *FetchRecipePage {
	return &FetchRecipePage{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				return validatePageURL(req.URL)
			},
		},
		converter: NewPageConverter(),
		maxChars:  maxChars,
		logger:    logger,
	}
}

func (f *FetchRecipePage) Name() string { return "fetch_recipe_page" }

func (f *FetchRecipePage) Description() string {
	return "Read a recipe web page (for example a search result URL) and return its main content as markdown."
}

func (f *FetchRecipePage) Parameters() map[string]any {
	return objectSchema([]string{"url"}, map[string]any{
		"url": stringParam("Absolute http(s) URL of the page"),
	})
}

func (f *FetchRecipePage) Call(ctx context.Context, input json.RawMessage) (string, error) {
	var in FetchPageInput
	if err := decodeInput(input, &in); err != nil {
		return "", err
	}
	return f.Fetch(ctx, in.URL), nil
}

func (f *FetchRecipePage) Fetch(ctx context.Context, rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Sprintf("Error: invalid URL: %v", err)
	}
	if err := validatePageURL(u); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	req.Header.Set("User-Agent", "recipe-agent/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", u.String()).Msg("page fetch failed")
		return fmt.Sprintf("Error fetching %s: %v", u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error fetching %s: HTTP %d", u.String(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return fmt.Sprintf("Error reading %s: %v", u.String(), err)
	}

	page, err := f.converter.Convert(body)
	if err != nil {
		return fmt.Sprintf("Error converting %s: %v", u.String(), err)
	}

	markdown := page.Markdown
	if f.maxChars > 0 && len(markdown) > f.maxChars {
		markdown = truncateUTF8(markdown, f.maxChars) + "\n\n[content truncated]"
	}

	f.logger.Info().Str("url", u.String()).Int("chars", len(markdown)).Msg("page fetched")
	return fmt.Sprintf("# %s\n\n%s\n\nSource: %s", page.Title, markdown, u.String())
}

func validatePageURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
