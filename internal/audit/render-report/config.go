// internal/audit/render-report/config.go
package renderreport

import (
	"time"

	"promptprofit-audit/internal/common/config"
)

const (
	RendererChrome = "chrome"
	RendererFPDF   = "fpdf"
)

type Config struct {
	Renderer   string
	ChromePath string
	NoSandbox  bool
	Timeout    time.Duration
}

func LoadConfig(cfg config.ReportConfig) *Config {
	c := &Config{
		Renderer:   cfg.Renderer,
		ChromePath: cfg.ChromePath,
		NoSandbox:  cfg.NoSandbox,
		Timeout:    config.GetDuration(cfg.Timeout),
	}
	if c.Renderer == "" {
		c.Renderer = RendererChrome
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
