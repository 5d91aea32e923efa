// internal/audit/submit-audit/errors.go
package submitaudit

import (
	"context"
	"errors"

	deliverreport "promptprofit-audit/internal/audit/deliver-report"
	renderreport "promptprofit-audit/internal/audit/render-report"
	synthesizediagnosis "promptprofit-audit/internal/audit/synthesize-diagnosis"
	apperrors "promptprofit-audit/internal/common/errors"
)

// classify turns a stage error into the StandardError the API layer logs.
func classify(stage string, err error) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	var out *apperrors.StandardError
	switch {
	case errors.Is(err, synthesizediagnosis.ErrLLMTimeout):
		out = apperrors.NewLLMTimeoutError(err)
	case errors.Is(err, synthesizediagnosis.ErrEmptyDiagnosis):
		out = apperrors.NewLLMEmptyResponseError(err.Error())
	case errors.Is(err, synthesizediagnosis.ErrLLMSynthesisFailed):
		out = apperrors.NewLLMSynthesisFailedError(err)
	case errors.Is(err, renderreport.ErrRenderFailed), errors.Is(err, renderreport.ErrRenderTimeout):
		out = apperrors.NewReportRenderFailedError(stage, err)
	case errors.Is(err, deliverreport.ErrInvalidRecipient):
		out = apperrors.NewInvalidRecipientError(err)
	case errors.Is(err, deliverreport.ErrDeliveryFailed):
		out = apperrors.NewDeliveryFailedError(stage, err)
	case errors.Is(err, context.DeadlineExceeded):
		out = apperrors.NewTimeoutError(stage, err)
	default:
		out = apperrors.NewExternalServiceError(stage, err)
	}
	return out.WithMetadata("stage", stage)
}
