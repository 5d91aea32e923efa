// internal/audit/calculate-scores/scores.go
package calculatescores

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"promptprofit-audit/internal/models"
)

// Raw maxima per category: two questions for content and sales, three for ops.
const (
	MaxPoints     = 15
	maxContentRaw = 2 * MaxPoints
	maxSalesRaw   = 2 * MaxPoints
	maxOpsRaw     = 3 * MaxPoints
)

// tokenPoints is shared by every select question. Tokens never repeat
// across vocabularies, so a flat table is enough.
var tokenPoints = map[string]int{
	// consistency, followups
	"never":        0,
	"occasionally": 5,
	"weekly":       10,
	"daily":        15,
	// taskmgmt
	"head":  0,
	"notes": 5,
	"some":  10,
	"rare":  15,
	// missdeadlines
	"freq":      0,
	"sometimes": 5,
}

// Tokens returns the known select tokens and their points.
func Tokens() map[string]int {
	out := make(map[string]int, len(tokenPoints))
	for k, v := range tokenPoints {
		out[k] = v
	}
	return out
}

// IsKnownToken reports whether token has an entry in the point table.
func IsKnownToken(token string) bool {
	_, ok := tokenPoints[token]
	return ok
}

// PointsOf maps one answer value to [0,15].
//
// Blank values score 0. Numeric self-ratings are truncated to an integer,
// clamped to [0,10] and scaled to [0,15]. Anything else is looked up as a select token, and
// tokens missing from the table score 0.
func PointsOf(value string) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}

	if n, ok := parseRating(v); ok {
		n = clamp(n, 0, 10)
		return clamp(roundInt(float64(n)/10*MaxPoints), 0, MaxPoints)
	}

	if points, ok := tokenPoints[v]; ok {
		return points
	}

	// Unknown tokens fail open to the lowest score.
	return 0
}

// parseRating parses a base-10 number and truncates it toward zero, so
// "7.5" rates 7. Out-of-range integers saturate instead of falling through
// to the token table. NaN and infinities are not ratings.
func parseRating(v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err == nil {
		return n, true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return saturate(strings.HasPrefix(v, "-")), true
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return saturate(f < 0), true
	}
	return int(f), true
}

func saturate(negative bool) int {
	if negative {
		return math.MinInt
	}
	return math.MaxInt
}

// CalculateScores computes the three category scores and their overall
// average. Missing answers contribute 0.
func CalculateScores(answers models.Answers) models.Scores {
	raw := RawTotals(answers)

	content := percent(raw.ContentRaw, maxContentRaw)
	sales := percent(raw.SalesRaw, maxSalesRaw)
	ops := percent(raw.OpsRaw, maxOpsRaw)

	return models.Scores{
		ContentScore: content,
		SalesScore:   sales,
		OpsScore:     ops,
		Overall:      roundInt(float64(content+sales+ops) / 3),
	}
}

// RawTotals sums the points per category before normalization.
func RawTotals(answers models.Answers) Breakdown {
	var b Breakdown
	b.ContentRaw = PointsOf(answers.Get(models.AnswerConsistency)) +
		PointsOf(answers.Get(models.AnswerScoreContent))
	b.SalesRaw = PointsOf(answers.Get(models.AnswerFollowups)) +
		PointsOf(answers.Get(models.AnswerScoreSales))
	b.OpsRaw = PointsOf(answers.Get(models.AnswerTaskMgmt)) +
		PointsOf(answers.Get(models.AnswerMissDeadlines)) +
		PointsOf(answers.Get(models.AnswerScoreOps))
	return b
}

func percent(raw, max int) int {
	return roundInt(float64(raw) / float64(max) * 100)
}

// roundInt rounds half away from zero.
func roundInt(f float64) int {
	return int(math.Round(f))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
