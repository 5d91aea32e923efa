// internal/audit/render-report/handler.go
package renderreport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"promptprofit-audit/internal/common/logger"
)

const (
	Stage = "render-report"
)

var (
	ErrRenderFailed  = errors.New("PDF_RENDER_FAILED")
	ErrRenderTimeout = errors.New("PDF_RENDER_TIMEOUT")
)

var pdfMagic = []byte("%PDF")

type Handler struct {
	config   *Config
	renderer PDFRenderer
	logger   logger.Logger
}

func NewHandler(config *Config, renderer PDFRenderer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		renderer: renderer,
		logger: log.WithFields(map[string]interface{}{
			"stage":    Stage,
			"renderer": renderer.Name(),
		}),
	}
}

// Execute builds the report page and prints it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	page, err := BuildHTML(ReportData{
		Answers:   input.Answers,
		Diagnosis: input.Diagnosis,
		Scores:    input.Scores,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	start := time.Now()
	pdf, err := h.renderer.Render(ctx, page)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrRenderTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return nil, fmt.Errorf("%w: renderer %s returned %d bytes that are not a PDF", ErrRenderFailed, h.renderer.Name(), len(pdf))
	}

	h.logger.Info("report rendered", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"bytes":        len(pdf),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &Output{PDF: pdf, HTML: page}, nil
}
