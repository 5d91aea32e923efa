// internal/audit/synthesize-diagnosis/config.go
package synthesizediagnosis

import (
	"time"

	"promptprofit-audit/internal/common/config"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-sonnet-4-20250514",
	ProviderGemini:    "gemini-2.0-flash",
}

type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

func LoadConfig(cfg config.LLMConfig) *Config {
	c := &Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     config.GetDuration(cfg.Timeout),
		MaxRetries:  cfg.MaxRetries,
	}
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 900
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}
