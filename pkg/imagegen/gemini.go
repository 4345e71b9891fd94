package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Image is one generated image returned by the provider.
type Image struct {
	MimeType string
	Data     []byte
}

// Generator produces images from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, count int) ([]Image, error)
	ModelName() string
}

// GeminiGenerator calls the Gemini image model, rotating across API keys
// when a key is rate limited.
type GeminiGenerator struct {
	apiKeys []string
	model   string
}

func NewGeminiGenerator(apiKeys []string, model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	return &GeminiGenerator{
		apiKeys: apiKeys,
		model:   model,
	}
}

func (g *GeminiGenerator) ModelName() string {
	return g.model
}

const maxRetriesPerKey = 3

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, count int) ([]Image, error) {
	if len(g.apiKeys) == 0 {
		return nil, fmt.Errorf("no API keys configured")
	}
	if count < 1 {
		count = 1
	}

	images := make([]Image, 0, count)
	for i := 0; i < count; i++ {
		img, err := g.generateOne(ctx, prompt)
		if err != nil {
			// Partial output is still returned; the caller only charges
			// for images actually produced.
			if len(images) > 0 {
				return images, nil
			}
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

func (g *GeminiGenerator) generateOne(ctx context.Context, prompt string) (*Image, error) {
	var lastErr error

	for _, apiKey := range g.apiKeys {
		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			img, err := g.callOnce(ctx, apiKey, prompt)
			if err == nil {
				return img, nil
			}
			lastErr = err

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			// Rate limits rotate to the next key immediately; other
			// errors get a short backoff on the same key.
			if isRateLimited(err) {
				break
			}
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("image generation failed on all keys: %w", lastErr)
}

func (g *GeminiGenerator) callOnce(ctx context.Context, apiKey, prompt string) (*Image, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return &Image{
					MimeType: blob.MIMEType,
					Data:     blob.Data,
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("gemini response contained no image data")
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
