package calculatescores

import (
	"context"
	"testing"

	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		SubmissionID: "sub-1",
		Answers: models.Answers{
			"consistency": "weekly", "score_content": "7",
			"followups": "occasionally", "score_sales": "4",
			"taskmgmt": "notes", "missdeadlines": "sometimes", "score_ops": "bogus",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, Breakdown{ContentRaw: 21, SalesRaw: 11, OpsRaw: 10}, out.Breakdown)
	assert.Equal(t, models.Scores{ContentScore: 70, SalesScore: 37, OpsScore: 22, Overall: 43}, out.Scores)
}

func TestHandler_ExecuteEmpty(t *testing.T) {
	h := NewHandler(logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Equal(t, models.Scores{}, out.Scores)
}
