package chooseproduct

import (
	"context"
	"regexp"
	"testing"

	"promptprofit-audit/internal/common/logger"
	"promptprofit-audit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// ChooseProduct Tests
// ==========================

func TestChooseProduct(t *testing.T) {
	tests := []struct {
		name   string
		scores models.Scores
		tier   models.Tier
		route  string
	}{
		{
			name:   "two fails is enterprise",
			scores: models.Scores{ContentScore: 100, SalesScore: 0, OpsScore: 0, Overall: 33},
			tier:   models.TierEnterprise,
			route:  "/results/enterprise.html",
		},
		{
			name:   "all zero is enterprise",
			scores: models.Scores{},
			tier:   models.TierEnterprise,
			route:  "/results/enterprise.html",
		},
		{
			name:   "two fails wins over a high overall",
			scores: models.Scores{ContentScore: 39, SalesScore: 39, OpsScore: 100, Overall: 99},
			tier:   models.TierEnterprise,
			route:  "/results/enterprise.html",
		},
		{
			name:   "single ops fail",
			scores: models.Scores{ContentScore: 90, SalesScore: 90, OpsScore: 20, Overall: 67},
			tier:   models.TierBuildOps,
			route:  "/results/build-ops.html",
		},
		{
			name:   "single content fail",
			scores: models.Scores{ContentScore: 10, SalesScore: 80, OpsScore: 80, Overall: 57},
			tier:   models.TierBuildContent,
			route:  "/results/build-content.html",
		},
		{
			name:   "single sales fail",
			scores: models.Scores{ContentScore: 80, SalesScore: 39, OpsScore: 80, Overall: 66},
			tier:   models.TierBuildSales,
			route:  "/results/build-sales.html",
		},
		{
			name:   "no fails and healthy overall is pro",
			scores: models.Scores{ContentScore: 70, SalesScore: 70, OpsScore: 70, Overall: 70},
			tier:   models.TierPro,
			route:  "/results/pro.html",
		},
		{
			name:   "forty is not a fail",
			scores: models.Scores{ContentScore: 40, SalesScore: 40, OpsScore: 40, Overall: 40},
			tier:   models.TierPro,
			route:  "/results/pro.html",
		},
		{
			name:   "no fails but low overall is starter",
			scores: models.Scores{ContentScore: 40, SalesScore: 40, OpsScore: 40, Overall: 39},
			tier:   models.TierStarter,
			route:  "/results/starter.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseProduct(tt.scores)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.route, got.Route)
		})
	}
}

func TestChooseProduct_Deterministic(t *testing.T) {
	s := models.Scores{ContentScore: 55, SalesScore: 12, OpsScore: 48, Overall: 38}
	first := ChooseProduct(s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ChooseProduct(s))
	}
}

func TestChooseProduct_EveryReachableRouteMatchesPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^/results/(starter|pro|enterprise|build-(content|sales|ops))\.html$`)
	seen := map[models.Tier]bool{}

	for c := 0; c <= 100; c += 5 {
		for s := 0; s <= 100; s += 5 {
			for o := 0; o <= 100; o += 5 {
				for _, overall := range []int{0, 39, 40, 100} {
					d := ChooseProduct(models.Scores{ContentScore: c, SalesScore: s, OpsScore: o, Overall: overall})
					assert.Regexp(t, pattern, d.Route)
					seen[d.Tier] = true
				}
			}
		}
	}

	for _, tier := range AllTiers() {
		assert.True(t, seen[tier], "tier %s never reached", tier)
	}
	assert.Len(t, seen, len(AllTiers()))
}

func TestFailedCategories_Order(t *testing.T) {
	got := FailedCategories(models.Scores{ContentScore: 1, SalesScore: 2, OpsScore: 3})
	assert.Equal(t, []string{CategoryContent, CategorySales, CategoryOps}, got)
	assert.Empty(t, FailedCategories(models.Scores{ContentScore: 40, SalesScore: 40, OpsScore: 40}))
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		SubmissionID: "sub-1",
		Scores:       models.Scores{ContentScore: 90, SalesScore: 90, OpsScore: 20, Overall: 67},
	})

	require.NoError(t, err)
	assert.Equal(t, models.TierDecision{Tier: models.TierBuildOps, Route: "/results/build-ops.html"}, out.Decision)
	assert.Equal(t, []string{CategoryOps}, out.FailedCategories)
}
