// internal/audit/synthesize-diagnosis/openai.go
package synthesizediagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	httpclient "promptprofit-audit/internal/common/http"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIGenerator calls the Chat Completions endpoint directly.
type OpenAIGenerator struct {
	baseURL    string
	apiKey     string
	maxRetries int
	client     *httpclient.Client
}

func NewOpenAIGenerator(cfg *Config) *OpenAIGenerator {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIGenerator{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		// no client timeout; the caller's context bounds the call
		client: httpclient.NewClient(0),
	}
}

func (g *OpenAIGenerator) Name() string { return ProviderOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	return withRetry(ctx, g.maxRetries, func() (string, error) {
		return g.do(ctx, body)
	})
}

func (g *OpenAIGenerator) do(ctx context.Context, body []byte) (string, error) {
	resp, err := g.client.PostJSON(ctx, g.baseURL+"/v1/chat/completions", map[string]string{
		"Authorization": "Bearer " + g.apiKey,
	}, body)
	if err != nil {
		return "", retryable{err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", retryable{statusErr}
		}
		return "", statusErr
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}
