// internal/audit/deliver-report/models.go
package deliverreport

import (
	"time"

	"promptprofit-audit/internal/models"
)

type Input struct {
	SubmissionID string              `json:"submissionId"`
	Answers      models.Answers      `json:"answers"`
	Scores       models.Scores       `json:"scores"`
	Decision     models.TierDecision `json:"decision"`
	PDF          []byte              `json:"-"`
}

type Output struct {
	MessageID string    `json:"messageId"`
	Transport string    `json:"transport"`
	SentAt    time.Time `json:"sentAt"`
	Alerted   bool      `json:"alerted"`
	LeadID    string    `json:"leadId,omitempty"`
}

// Alert is the payload published for sales follow-up.
type Alert struct {
	SubmissionID string        `json:"submissionId"`
	Tier         models.Tier   `json:"tier"`
	Scores       models.Scores `json:"scores"`
	BusinessType string        `json:"businessType,omitempty"`
}
