// internal/models/audit.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Answer keys read by the scoring and reporting stages.
const (
	AnswerEmail         = "email"
	AnswerBusinessType  = "business_type"
	AnswerStage         = "stage"
	AnswerRevenue       = "revenue"
	AnswerPrimaryOffer  = "primary_offer"
	AnswerConsistency   = "consistency"
	AnswerScoreContent  = "score_content"
	AnswerFollowups     = "followups"
	AnswerScoreSales    = "score_sales"
	AnswerTaskMgmt      = "taskmgmt"
	AnswerMissDeadlines = "missdeadlines"
	AnswerScoreOps      = "score_ops"
	AnswerFrustrations  = "frustrations"
	AnswerIdealState    = "ideal_state"
)

// Answers is one submission's questionnaire responses keyed by question key.
// A missing key and an empty value are equivalent.
type Answers map[string]string

// Get returns the value for key, or "" when absent.
func (a Answers) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts strings, numbers, booleans and null for each value.
// Integral numbers are formatted without a fraction so "7" and 7 score alike.
// Objects and arrays carry no answer and decode as "".
func (a *Answers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*a = nil
		return nil
	}

	out := make(Answers, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case json.Number:
			out[k] = formatNumber(val)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = ""
		}
	}
	*a = out
	return nil
}

func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// Scores is the score vector for one submission. Every value is in [0,100]
// and Overall is always derived from the three sub-scores.
type Scores struct {
	ContentScore int `json:"contentScore"`
	SalesScore   int `json:"salesScore"`
	OpsScore     int `json:"opsScore"`
	Overall      int `json:"overall"`
}

// Tier is a product recommendation label.
type Tier string

const (
	TierStarter      Tier = "starter"
	TierPro          Tier = "pro"
	TierBuildContent Tier = "build-content"
	TierBuildSales   Tier = "build-sales"
	TierBuildOps     Tier = "build-ops"
	TierEnterprise   Tier = "enterprise"
)

// TierDecision pairs a tier with the result page the client is sent to.
type TierDecision struct {
	Tier  Tier   `json:"tier"`
	Route string `json:"route"`
}

// SubmissionRequest is the body accepted by the submit and score endpoints.
type SubmissionRequest struct {
	Answers Answers `json:"answers"`
}

// SubmissionResponse is the success body of the submit endpoint.
type SubmissionResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

// PreviewResponse is the body of the score endpoint.
type PreviewResponse struct {
	Scores   Scores       `json:"scores"`
	Decision TierDecision `json:"decision"`
}

// ErrorResponse is the failure body of every API endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
