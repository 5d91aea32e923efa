// internal/audit/choose-product/tier.go
package chooseproduct

import (
	"fmt"

	"promptprofit-audit/internal/models"
)

// FailThreshold is the exclusive lower bound of a passing category score.
const FailThreshold = 40

// Category names, in the fixed order fails are collected.
const (
	CategoryContent = "content"
	CategorySales   = "sales"
	CategoryOps     = "ops"
)

// ChooseProduct maps a score vector to a tier. Rules, first match wins:
//
//	two or more categories below 40   -> enterprise
//	exactly one category below 40     -> build-<category>
//	overall below 40                  -> starter
//	otherwise                         -> pro
func ChooseProduct(scores models.Scores) models.TierDecision {
	fails := FailedCategories(scores)

	var tier models.Tier
	switch {
	case len(fails) >= 2:
		tier = models.TierEnterprise
	case len(fails) == 1:
		tier = models.Tier("build-" + fails[0])
	case scores.Overall < FailThreshold:
		tier = models.TierStarter
	default:
		tier = models.TierPro
	}

	return models.TierDecision{Tier: tier, Route: RouteFor(tier)}
}

// FailedCategories returns the categories scoring below FailThreshold.
func FailedCategories(scores models.Scores) []string {
	var fails []string
	if scores.ContentScore < FailThreshold {
		fails = append(fails, CategoryContent)
	}
	if scores.SalesScore < FailThreshold {
		fails = append(fails, CategorySales)
	}
	if scores.OpsScore < FailThreshold {
		fails = append(fails, CategoryOps)
	}
	return fails
}

// RouteFor returns the result page path for tier.
func RouteFor(tier models.Tier) string {
	return fmt.Sprintf("/results/%s.html", tier)
}

// AllTiers lists every tier ChooseProduct can return.
func AllTiers() []models.Tier {
	return []models.Tier{
		models.TierStarter,
		models.TierPro,
		models.TierBuildContent,
		models.TierBuildSales,
		models.TierBuildOps,
		models.TierEnterprise,
	}
}
