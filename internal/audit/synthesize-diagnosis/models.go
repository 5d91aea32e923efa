// internal/audit/synthesize-diagnosis/models.go
package synthesizediagnosis

import "promptprofit-audit/internal/models"

type Input struct {
	SubmissionID string         `json:"submissionId"`
	Answers      models.Answers `json:"answers"`
	Scores       models.Scores  `json:"scores"`
}

type Output struct {
	Diagnosis string `json:"diagnosis"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}
