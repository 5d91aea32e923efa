// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml,
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	applyDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found near the working directory or at
// the module root. Missing files are fine.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults registers every key with its default so AutomaticEnv can
// override keys that are absent from the YAML files.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "promptprofit-audit")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 4242)
	v.SetDefault("server.metrics_port", 8080)
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 150000)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.rate_limit.rps", 2.0)
	v.SetDefault("server.rate_limit.burst", 5)
	v.SetDefault("server.trust_proxy_headers", false)

	v.SetDefault("audit.base_url", "")
	v.SetDefault("audit.submission_timeout", 120000)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 900)
	v.SetDefault("llm.timeout", 60000)
	v.SetDefault("llm.max_retries", 1)

	v.SetDefault("report.renderer", "chrome")
	v.SetDefault("report.chrome_path", "")
	v.SetDefault("report.no_sandbox", true)
	v.SetDefault("report.timeout", 30000)

	v.SetDefault("delivery.transport", "smtp")
	v.SetDefault("delivery.from", "")
	v.SetDefault("delivery.subject", "Your PromptProfit Audit Report")
	v.SetDefault("delivery.attachment_name", "PromptProfit-Audit.pdf")
	v.SetDefault("delivery.timeout", 30000)
	v.SetDefault("delivery.smtp.host", "")
	v.SetDefault("delivery.smtp.port", 587)
	v.SetDefault("delivery.smtp.username", "")
	v.SetDefault("delivery.smtp.password", "")
	v.SetDefault("delivery.smtp.secure", false)
	v.SetDefault("delivery.aws.region", "")
	v.SetDefault("delivery.alert.enabled", false)
	v.SetDefault("delivery.alert.topic_arn", "")
	v.SetDefault("delivery.alert.tiers", []string{"enterprise"})

	v.SetDefault("crm.enabled", false)
	v.SetDefault("crm.base_url", "https://www.zohoapis.com/crm/v3")
	v.SetDefault("crm.accounts_url", "https://accounts.zoho.com")
	v.SetDefault("crm.client_id", "")
	v.SetDefault("crm.client_secret", "")
	v.SetDefault("crm.refresh_token", "")
	v.SetDefault("crm.timeout", 15000)

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.redis.throttle_limit", 3)
	v.SetDefault("database.redis.throttle_window", 3600000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("observability.service_name", "audit-server")
	v.SetDefault("observability.tracing_endpoint", "")
}

// overrideEmptyConfig maps the deployment's plain environment names onto
// empty config fields.
func overrideEmptyConfig(cfg *Config) {
	// PORT always wins, as on hosted platforms.
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}

	if cfg.Audit.BaseURL == "" {
		cfg.Audit.BaseURL = os.Getenv("BASE_URL")
	}

	// LLM provider keys
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.LLM.Model == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.Model = os.Getenv("OPENAI_MODEL")
	}

	// SMTP
	if cfg.Delivery.SMTP.Host == "" {
		cfg.Delivery.SMTP.Host = os.Getenv("EMAIL_SMTP_HOST")
	}
	if val := os.Getenv("EMAIL_SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Delivery.SMTP.Port = port
		}
	}
	if val := os.Getenv("EMAIL_SMTP_SECURE"); val != "" {
		cfg.Delivery.SMTP.Secure = val == "true"
	}
	if cfg.Delivery.SMTP.Username == "" {
		cfg.Delivery.SMTP.Username = os.Getenv("EMAIL_SMTP_USER")
	}
	if cfg.Delivery.SMTP.Password == "" {
		cfg.Delivery.SMTP.Password = os.Getenv("EMAIL_SMTP_PASS")
	}
	if cfg.Delivery.From == "" {
		cfg.Delivery.From = os.Getenv("EMAIL_FROM")
	}

	// Zoho CRM
	if cfg.CRM.ClientID == "" {
		cfg.CRM.ClientID = os.Getenv("ZOHO_CLIENT_ID")
	}
	if cfg.CRM.ClientSecret == "" {
		cfg.CRM.ClientSecret = os.Getenv("ZOHO_CLIENT_SECRET")
	}
	if cfg.CRM.RefreshToken == "" {
		cfg.CRM.RefreshToken = os.Getenv("ZOHO_REFRESH_TOKEN")
	}

	// AWS and Redis
	if cfg.Delivery.AWS.Region == "" {
		cfg.Delivery.AWS.Region = os.Getenv("AWS_REGION")
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}
}

var validate = validator.New()

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if cfg.Delivery.Transport == "ses" && cfg.Delivery.AWS.Region == "" {
		return fmt.Errorf("delivery.aws.region is required for the ses transport")
	}
	if cfg.Delivery.Alert.Enabled {
		if cfg.Delivery.Alert.TopicARN == "" {
			return fmt.Errorf("delivery.alert.topic_arn is required when alerts are enabled")
		}
		if cfg.Delivery.AWS.Region == "" {
			return fmt.Errorf("delivery.aws.region is required when alerts are enabled")
		}
	}
	if cfg.CRM.Enabled && (cfg.CRM.ClientID == "" || cfg.CRM.RefreshToken == "") {
		return fmt.Errorf("crm.client_id and crm.refresh_token are required when the crm is enabled")
	}
	if cfg.Delivery.From != "" {
		if err := validate.Var(cfg.Delivery.From, "email"); err != nil {
			return fmt.Errorf("delivery.from must be an email address")
		}
	}

	return nil
}

// ValidateForServing checks the fields only a full submission pipeline needs.
func ValidateForServing(cfg *Config) error {
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if cfg.Delivery.From == "" {
		return fmt.Errorf("delivery.from is required")
	}
	if cfg.Delivery.Transport == "smtp" && cfg.Delivery.SMTP.Host == "" {
		return fmt.Errorf("delivery.smtp.host is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
