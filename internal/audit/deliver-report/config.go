// internal/audit/deliver-report/config.go
package deliverreport

import (
	"strings"
	"time"

	"promptprofit-audit/internal/common/config"
)

const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

const (
	DefaultSubject        = "Your PromptProfit Audit Report"
	DefaultAttachmentName = "PromptProfit-Audit.pdf"
)

type Config struct {
	Transport      string
	From           string
	Subject        string
	AttachmentName string
	BaseURL        string
	Timeout        time.Duration
	SMTP           config.SMTPConfig

	AlertEnabled  bool
	AlertTopicARN string
	AlertTiers    []string
}

func LoadConfig(cfg config.DeliveryConfig, baseURL string) *Config {
	c := &Config{
		Transport:      cfg.Transport,
		From:           cfg.From,
		Subject:        cfg.Subject,
		AttachmentName: cfg.AttachmentName,
		BaseURL:        strings.TrimRight(baseURL, "/"),
		Timeout:        config.GetDuration(cfg.Timeout),
		SMTP:           cfg.SMTP,
		AlertEnabled:   cfg.Alert.Enabled,
		AlertTopicARN:  cfg.Alert.TopicARN,
		AlertTiers:     cfg.Alert.Tiers,
	}
	if c.Transport == "" {
		c.Transport = TransportSMTP
	}
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.AttachmentName == "" {
		c.AttachmentName = DefaultAttachmentName
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
