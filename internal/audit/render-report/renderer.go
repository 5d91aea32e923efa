// internal/audit/render-report/renderer.go
package renderreport

import (
	"context"
	"fmt"
)

// PDFRenderer turns a complete HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Name() string
	Close() error
}

// NewRenderer returns the renderer named by cfg.Renderer.
func NewRenderer(cfg *Config) (PDFRenderer, error) {
	switch cfg.Renderer {
	case RendererChrome, "":
		return NewChromeRenderer(cfg), nil
	case RendererFPDF:
		return NewFPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown report renderer %q", cfg.Renderer)
	}
}
