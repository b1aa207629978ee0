package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash-exp"

var ErrNoImage = errors.New("model returned no image")

// Generator produces recipe images with a Gemini image-capable model.
type Generator struct {
	client *genai.Client
	model  string
	logger *zerolog.Logger
}

func NewGenerator(ctx context.Context, apiKey string, model string, logger *zerolog.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google AI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Generator{client: client, model: model, logger: logger}, nil
}

// Generate returns the raw bytes of the first image part in the response.
func (g *Generator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("image prompt is empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text("Generate an image: "+prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	data, mimeType, ok := firstImage(resp)
	if !ok {
		return nil, ErrNoImage
	}

	g.logger.Info().
		Str("model", g.model).
		Str("mime_type", mimeType).
		Int("bytes", len(data)).
		Msg("image generated")
	return data, nil
}

func firstImage(resp *genai.GenerateContentResponse) ([]byte, string, bool) {
	if resp == nil {
		return nil, "", false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, true
			}
		}
	}
	return nil, "", false
}
