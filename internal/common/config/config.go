// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Audit         AuditConfig         `mapstructure:"audit"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Report        ReportConfig        `mapstructure:"report"`
	Delivery      DeliveryConfig      `mapstructure:"delivery"`
	CRM           CRMConfig           `mapstructure:"crm"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host         string          `mapstructure:"host"`
	Port         int             `mapstructure:"port" validate:"min=1,max=65535"`
	MetricsPort  int             `mapstructure:"metrics_port" validate:"min=0,max=65535"`
	ReadTimeout  int             `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int             `mapstructure:"write_timeout"` // milliseconds
	StaticDir    string          `mapstructure:"static_dir"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`

	// TrustProxyHeaders keys the rate limiter on X-Forwarded-For.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// Addr returns the API listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsAddr returns the metrics listen address, or "" when disabled.
func (s ServerConfig) MetricsAddr() string {
	if s.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.Host, s.MetricsPort)
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type AuditConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	SubmissionTimeout int    `mapstructure:"submission_timeout"` // milliseconds
}

// --- Stage Configuration ---

// LLMConfig selects and tunes the diagnosis provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" validate:"oneof=openai anthropic gemini"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Temperature float64 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"min=1"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries" validate:"min=0,max=5"`
}

type ReportConfig struct {
	Renderer   string `mapstructure:"renderer" validate:"oneof=chrome fpdf"`
	ChromePath string `mapstructure:"chrome_path"`
	NoSandbox  bool   `mapstructure:"no_sandbox"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type DeliveryConfig struct {
	Transport      string      `mapstructure:"transport" validate:"oneof=smtp ses"`
	From           string      `mapstructure:"from"`
	Subject        string      `mapstructure:"subject"`
	AttachmentName string      `mapstructure:"attachment_name"`
	Timeout        int         `mapstructure:"timeout"` // milliseconds
	SMTP           SMTPConfig  `mapstructure:"smtp"`
	AWS            AWSConfig   `mapstructure:"aws"`
	Alert          AlertConfig `mapstructure:"alert"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Secure   bool   `mapstructure:"secure"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// AlertConfig drives the optional SNS sales alert.
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	TopicARN string   `mapstructure:"topic_arn"`
	Tiers    []string `mapstructure:"tiers"`
}

// CRMConfig drives the optional Zoho CRM lead upsert. The refresh token
// belongs to a Zoho self-client with the ZohoCRM.modules.leads scope.
type CRMConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	AccountsURL  string `mapstructure:"accounts_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address        string `mapstructure:"address"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	ThrottleLimit  int    `mapstructure:"throttle_limit"`
	ThrottleWindow int    `mapstructure:"throttle_window"` // milliseconds
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName     string `mapstructure:"service_name"`
	TracingEndpoint string `mapstructure:"tracing_endpoint"`
}
