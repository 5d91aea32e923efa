// internal/audit/calculate-scores/handler.go
package calculatescores

import (
	"context"
	"strings"

	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/models"
)

const (
	Stage = "calculate-scores"
)

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": Stage}),
	}
}

// Execute scores one submission. It never fails; the error return keeps
// the stage signature uniform with the other pipeline stages.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	scores := CalculateScores(input.Answers)

	fields := map[string]interface{}{
		"submissionId": input.SubmissionID,
		"contentScore": scores.ContentScore,
		"salesScore":   scores.SalesScore,
		"opsScore":     scores.OpsScore,
		"overall":      scores.Overall,
	}
	if unknown := UnknownTokens(input.Answers); len(unknown) > 0 {
		fields["unknownTokens"] = unknown
	}
	h.logger.Info("scores calculated", fields)

	return &Output{Scores: scores, Breakdown: RawTotals(input.Answers)}, nil
}

var scoredKeys = []string{
	models.AnswerConsistency,
	models.AnswerScoreContent,
	models.AnswerFollowups,
	models.AnswerScoreSales,
	models.AnswerTaskMgmt,
	models.AnswerMissDeadlines,
	models.AnswerScoreOps,
}

// UnknownTokens lists scored keys whose non-blank value is neither a
// rating nor a known token. Those answers scored 0.
func UnknownTokens(answers models.Answers) []string {
	var keys []string
	for _, key := range scoredKeys {
		v := strings.TrimSpace(answers.Get(key))
		if v == "" {
			continue
		}
		if _, ok := parseRating(v); ok {
			continue
		}
		if !IsKnownToken(v) {
			keys = append(keys, key)
		}
	}
	return keys
}
