// internal/audit/calculate-scores/models.go
package calculatescores

import "promptprofit-audit/internal/models"

type Input struct {
	SubmissionID string         `json:"submissionId"`
	Answers      models.Answers `json:"answers"`
}

type Output struct {
	Scores    models.Scores `json:"scores"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Breakdown holds the raw point totals behind each category score.
type Breakdown struct {
	ContentRaw int `json:"contentRaw"`
	SalesRaw   int `json:"salesRaw"`
	OpsRaw     int `json:"opsRaw"`
}
