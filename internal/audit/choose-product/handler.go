// internal/audit/choose-product/handler.go
package chooseproduct

import (
	"context"

	"promptprofit-audit/internal/common/logger"
)

const (
	Stage = "choose-product"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": Stage}),
	}
}

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	decision := ChooseProduct(input.Scores)
	fails := FailedCategories(input.Scores)

	h.logger.Info("tier selected", map[string]interface{}{
		"submissionId":     input.SubmissionID,
		"tier":             decision.Tier,
		"route":            decision.Route,
		"failedCategories": fails,
	})

	return &Output{Decision: decision, FailedCategories: fails}, nil
}
