// internal/audit/deliver-report/crm.go
package deliverreport

import (
	"context"
	"fmt"
	"strings"

	"promptprofit-audit/internal/common/zoho"
	"promptprofit-audit/internal/models"
)

// CRM records leads. *zoho.CRMClient implements it.
type CRM interface {
	UpsertLead(ctx context.Context, lead *zoho.Lead) (string, error)
}

// LeadFor builds the CRM record for a delivered submission. Zoho requires
// a last name, and the questionnaire collects none, so the business type
// stands in, then the email's local part.
func LeadFor(input *Input) *zoho.Lead {
	email := strings.TrimSpace(input.Answers.Get(models.AnswerEmail))
	business := input.Answers.Get(models.AnswerBusinessType)

	lastName := business
	if lastName == "" {
		lastName, _, _ = strings.Cut(email, "@")
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Recommended tier: %s\n", input.Decision.Tier)
	fmt.Fprintf(&desc, "Scores: content %d, sales %d, ops %d, overall %d\n",
		input.Scores.ContentScore, input.Scores.SalesScore, input.Scores.OpsScore, input.Scores.Overall)
	for _, f := range []struct{ label, key string }{
		{"Stage", models.AnswerStage},
		{"Revenue", models.AnswerRevenue},
		{"Offer", models.AnswerPrimaryOffer},
	} {
		if v := input.Answers.Get(f.key); v != "" {
			fmt.Fprintf(&desc, "%s: %s\n", f.label, v)
		}
	}
	fmt.Fprintf(&desc, "Submission: %s", input.SubmissionID)

	return &zoho.Lead{
		Email:       email,
		LastName:    lastName,
		Company:     business,
		Source:      zoho.LeadSource,
		Description: desc.String(),
	}
}
