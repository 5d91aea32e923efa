// internal/audit/synthesize-diagnosis/gemini.go
package synthesizediagnosis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type GeminiGenerator struct {
	client     *genai.Client
	maxRetries int
}

func NewGeminiGenerator(ctx context.Context, cfg *Config) (*GeminiGenerator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, maxRetries: cfg.MaxRetries}, nil
}

func (g *GeminiGenerator) Name() string { return ProviderGemini }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	return withRetry(ctx, g.maxRetries, func() (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), genCfg)
		if err != nil {
			var apiErr genai.APIError
			if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500) {
				return "", retryable{err}
			}
			return "", err
		}
		return geminiText(resp), nil
	})
}

// geminiText returns the text of the first candidate that has any.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			return text.String()
		}
	}
	return ""
}
