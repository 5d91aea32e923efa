package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("EMAIL_SMTP_PORT", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: promptprofit-audit\n"))
	require.NoError(t, err)

	assert.Equal(t, 4242, cfg.Server.Port)
	assert.Equal(t, ":4242", cfg.Server.Addr())
	assert.Equal(t, ":8080", cfg.Server.MetricsAddr())
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, 900, cfg.LLM.MaxTokens)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "chrome", cfg.Report.Renderer)
	assert.Equal(t, 587, cfg.Delivery.SMTP.Port)
	assert.Equal(t, "Your PromptProfit Audit Report", cfg.Delivery.Subject)
	assert.Equal(t, "PromptProfit-Audit.pdf", cfg.Delivery.AttachmentName)
	assert.Equal(t, []string{"enterprise"}, cfg.Delivery.Alert.Tiers)
	assert.False(t, cfg.Database.Redis.Enabled())
	assert.False(t, cfg.CRM.Enabled)
	assert.Equal(t, "https://www.zohoapis.com/crm/v3", cfg.CRM.BaseURL)
}

func TestLoadFromFile_EnvironmentNames(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("BASE_URL", "https://audit.example.com")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_SMTP_PORT", "465")
	t.Setenv("EMAIL_SMTP_SECURE", "true")
	t.Setenv("EMAIL_SMTP_USER", "mailer")
	t.Setenv("EMAIL_SMTP_PASS", "secret")
	t.Setenv("EMAIL_FROM", "reports@example.com")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := LoadFromFile(writeConfig(t, "server:\n  port: 4242\n"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://audit.example.com", cfg.Audit.BaseURL)
	assert.Equal(t, "smtp.example.com", cfg.Delivery.SMTP.Host)
	assert.Equal(t, 465, cfg.Delivery.SMTP.Port)
	assert.True(t, cfg.Delivery.SMTP.Secure)
	assert.Equal(t, "mailer", cfg.Delivery.SMTP.Username)
	assert.Equal(t, "secret", cfg.Delivery.SMTP.Password)
	assert.Equal(t, "reports@example.com", cfg.Delivery.From)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.True(t, cfg.Database.Redis.Enabled())
}

func TestLoadFromFile_ProviderKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := LoadFromFile(writeConfig(t, "llm:\n  provider: anthropic\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-ant", cfg.LLM.APIKey)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("AUDIT_FROM", "audit@example.com")

	cfg, err := LoadFromFile(writeConfig(t, "delivery:\n  from: ${AUDIT_FROM}\n"))
	require.NoError(t, err)

	assert.Equal(t, "audit@example.com", cfg.Delivery.From)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "llm:\n  provider: mistral\n"},
		{"unknown renderer", "report:\n  renderer: wkhtml\n"},
		{"ses without region", "delivery:\n  transport: ses\n  aws:\n    region: \"\"\n"},
		{"alert without topic", "delivery:\n  alert:\n    enabled: true\n  aws:\n    region: us-east-1\n"},
		{"from not an address", "delivery:\n  from: not-an-email\n"},
		{"crm without credentials", "crm:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AWS_REGION", "")
			t.Setenv("EMAIL_FROM", "")
			t.Setenv("ZOHO_CLIENT_ID", "")
			t.Setenv("ZOHO_REFRESH_TOKEN", "")

			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateForServing(t *testing.T) {
	cfg := &Config{
		LLM:      LLMConfig{APIKey: "sk"},
		Delivery: DeliveryConfig{Transport: "smtp", From: "a@b.io", SMTP: SMTPConfig{Host: "smtp"}},
	}
	assert.NoError(t, ValidateForServing(cfg))

	cfg.Delivery.SMTP.Host = ""
	assert.Error(t, ValidateForServing(cfg))

	cfg.Delivery.Transport = "ses"
	assert.NoError(t, ValidateForServing(cfg))

	cfg.LLM.APIKey = ""
	assert.Error(t, ValidateForServing(cfg))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
