// cmd/audit-server/wiring.go
package main

import (
	"context"
	"fmt"
	"time"

	deliverreport "promptprofit-audit/internal/audit/deliver-report"
	renderreport "promptprofit-audit/internal/audit/render-report"
	submitaudit "promptprofit-audit/internal/audit/submit-audit"
	synthesizediagnosis "promptprofit-audit/internal/audit/synthesize-diagnosis"
	"promptprofit-audit/internal/common/aws"
	"promptprofit-audit/internal/common/config"
	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/common/observability"
	"promptprofit-audit/internal/common/zoho"
)

// collaborators are the long-lived pieces a full pipeline needs. close
// releases them in reverse order of creation.
type collaborators struct {
	pipeline *submitaudit.Pipeline
	closers  []func() error
}

func (c *collaborators) close(log logger.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Warn("Failed to release collaborator", map[string]interface{}{"error": err.Error()})
		}
	}
}

// buildPipeline wires the diagnosis provider, the PDF renderer and the
// delivery transport selected by cfg into a submission pipeline.
func buildPipeline(ctx context.Context, cfg *config.Config, obs *observability.Observability, log logger.Logger) (*collaborators, error) {
	c := &collaborators{}

	llmCfg := synthesizediagnosis.LoadConfig(cfg.LLM)
	generator, err := synthesizediagnosis.NewGenerator(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	synth := synthesizediagnosis.NewHandler(llmCfg, generator, log)

	reportCfg := renderreport.LoadConfig(cfg.Report)
	pdf, err := renderreport.NewRenderer(reportCfg)
	if err != nil {
		return nil, fmt.Errorf("report renderer: %w", err)
	}
	c.closers = append(c.closers, pdf.Close)
	render := renderreport.NewHandler(reportCfg, pdf, log)

	deliveryCfg := deliverreport.LoadConfig(cfg.Delivery, cfg.Audit.BaseURL)
	transport, err := newTransport(ctx, deliveryCfg, cfg.Delivery.AWS)
	if err != nil {
		c.close(log)
		return nil, fmt.Errorf("delivery transport: %w", err)
	}
	alerter, err := newAlerter(ctx, deliveryCfg, cfg.Delivery.AWS)
	if err != nil {
		c.close(log)
		return nil, fmt.Errorf("sales alert: %w", err)
	}
	deliver := deliverreport.NewService(deliveryCfg, transport, alerter, log)
	if cfg.CRM.Enabled {
		deliver = deliver.WithCRM(zoho.NewCRMClient(cfg.CRM))
	}

	c.pipeline = submitaudit.NewPipeline(submitaudit.Dependencies{
		Synthesizer:   synth,
		Renderer:      render,
		Deliverer:     deliver,
		Observability: obs,
		Logger:        log,
	}, config.GetDuration(cfg.Audit.SubmissionTimeout))

	log.Info("Submission pipeline ready", map[string]interface{}{
		"llmProvider": generator.Name(),
		"renderer":    pdf.Name(),
		"transport":   transport.Name(),
		"alerts":      alerter != nil,
		"crm":         cfg.CRM.Enabled,
	})
	return c, nil
}

func newTransport(ctx context.Context, cfg *deliverreport.Config, awsCfg config.AWSConfig) (deliverreport.Transport, error) {
	switch cfg.Transport {
	case deliverreport.TransportSMTP:
		return deliverreport.NewSMTPTransport(cfg.SMTP), nil
	case deliverreport.TransportSES:
		client, err := aws.NewSESClient(ctx, awsCfg.Region)
		if err != nil {
			return nil, err
		}
		return deliverreport.NewSESTransport(client), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// newAlerter returns nil when alerts are disabled.
func newAlerter(ctx context.Context, cfg *deliverreport.Config, awsCfg config.AWSConfig) (*deliverreport.Alerter, error) {
	if !cfg.AlertEnabled {
		return nil, nil
	}
	client, err := aws.NewSNSClient(ctx, awsCfg.Region)
	if err != nil {
		return nil, err
	}
	return deliverreport.NewAlerter(client, cfg.AlertTopicARN, cfg.AlertTiers), nil
}

// retryWithBackoff retries operation with exponential backoff, doubling
// the delay after each failed attempt.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
