// internal/audit/submit-audit/models.go
package submitaudit

import (
	"context"
	"time"

	deliverreport "promptprofit-audit/internal/audit/deliver-report"
	renderreport "promptprofit-audit/internal/audit/render-report"
	synthesizediagnosis "promptprofit-audit/internal/audit/synthesize-diagnosis"
	"promptprofit-audit/internal/models"
)

// Result is what a successful submission reports back.
type Result struct {
	SubmissionID string              `json:"submissionId"`
	Scores       models.Scores       `json:"scores"`
	Decision     models.TierDecision `json:"decision"`
	MessageID    string              `json:"messageId,omitempty"`
	Duration     time.Duration       `json:"-"`
}

type Synthesizer interface {
	Execute(ctx context.Context, input *synthesizediagnosis.Input) (*synthesizediagnosis.Output, error)
}

type Renderer interface {
	Execute(ctx context.Context, input *renderreport.Input) (*renderreport.Output, error)
}

type Deliverer interface {
	Execute(ctx context.Context, input *deliverreport.Input) (*deliverreport.Output, error)
}
