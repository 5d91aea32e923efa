// internal/audit/synthesize-diagnosis/handler.go
package synthesizediagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptprofit-audit/internal/common/logger"
)

const (
	Stage = "synthesize-diagnosis"
)

var (
	ErrLLMTimeout         = errors.New("LLM_TIMEOUT")
	ErrLLMSynthesisFailed = errors.New("LLM_SYNTHESIS_FAILED")
	ErrEmptyDiagnosis     = errors.New("LLM_EMPTY_RESPONSE")
)

type Handler struct {
	config    *Config
	generator Generator
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		logger: log.WithFields(map[string]interface{}{
			"stage":    Stage,
			"provider": generator.Name(),
		}),
	}
}

// Execute asks the provider for a diagnosis. A blank answer is an error:
// the report is never rendered without one.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	prompt, err := BuildPrompt(input.Answers, input.Scores)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMSynthesisFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	start := time.Now()
	text, err := h.generator.Generate(ctx, Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		Model:       h.config.Model,
		Temperature: h.config.Temperature,
		MaxTokens:   h.config.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrLLMTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrLLMSynthesisFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: provider %s returned no text", ErrEmptyDiagnosis, h.generator.Name())
	}

	h.logger.Info("diagnosis synthesized", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"model":        h.config.Model,
		"chars":        len(text),
		"durationMs":   time.Since(start).Milliseconds(),
	})

	return &Output{
		Diagnosis: text,
		Provider:  h.generator.Name(),
		Model:     h.config.Model,
	}, nil
}
