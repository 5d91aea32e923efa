// internal/audit/choose-product/models.go
package chooseproduct

import "promptprofit-audit/internal/models"

type Input struct {
	SubmissionID string        `json:"submissionId"`
	Scores       models.Scores `json:"scores"`
}

type Output struct {
	Decision         models.TierDecision `json:"decision"`
	FailedCategories []string            `json:"failedCategories"`
}
