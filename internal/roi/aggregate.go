// Package roi aggregates module savings into organization-level ROI and
// derives projections, sensitivity scenarios and contract comparisons.
package roi

import (
	"math"

	"github.com/bitscopic/roi-calculator/internal/model"
)

// Aggregate combines module results with the organization's investment.
func Aggregate(product model.Product, results []model.ModuleResult, org model.OrganizationProfile) model.AggregateResult {
	agg := model.AggregateResult{
		Product:         product,
		Organization:    org,
		TotalInvestment: org.Investment.Total(),
		Modules:         append([]model.ModuleResult(nil), results...),
	}
	for _, r := range results {
		agg.TotalSavings += r.TotalSavings
	}
	agg.ROIPercentage = ROIPercent(agg.TotalSavings, agg.TotalInvestment)
	agg.PaybackMonths = PaybackMonths(agg.TotalSavings, agg.TotalInvestment)
	return agg
}

// ROIPercent returns (savings-investment)/investment*100, or 0 when there
// is no investment.
func ROIPercent(savings, investment float64) float64 {
	if investment <= 0 {
		return 0
	}
	return (savings - investment) / investment * 100
}

// PaybackMonths returns investment/(savings/12), or the sentinel when
// savings are not positive.
func PaybackMonths(savings, investment float64) float64 {
	if savings <= 0 {
		return model.PaybackSentinel
	}
	return investment / (savings / 12)
}

func truncPercent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return math.Trunc(num / den * 100)
}
