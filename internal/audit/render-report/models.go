// internal/audit/render-report/models.go
package renderreport

import "promptprofit-audit/internal/models"

type Input struct {
	SubmissionID string         `json:"submissionId"`
	Answers      models.Answers `json:"answers"`
	Diagnosis    string         `json:"diagnosis"`
	Scores       models.Scores  `json:"scores"`
}

type Output struct {
	PDF  []byte `json:"-"`
	HTML string `json:"html"`
}

// ReportData is everything the report template shows.
type ReportData struct {
	Answers   models.Answers
	Diagnosis string
	Scores    models.Scores
}
