package roi

import (
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

// ContractYear compares one contract year's cost with projected savings.
type ContractYear struct {
	Label         string  `json:"label"`
	Cost          float64 `json:"cost"`
	Savings       float64 `json:"savings"`
	Net           float64 `json:"net"`
	CumulativeNet float64 `json:"cumulative_net"`
}

// ContractComparison weighs a multi-year quote against projected savings.
type ContractComparison struct {
	Network            string         `json:"network"`
	Hospitals          int            `json:"hospitals"`
	Years              []ContractYear `json:"years"`
	TotalCost          float64        `json:"total_cost"`
	TotalSavings       float64        `json:"total_savings"`
	NetBenefit         float64        `json:"net_benefit"`
	ROIPercent         float64        `json:"roi_percent"`
	CostPerHospital    float64        `json:"annual_cost_per_hospital"`
	SavingsPerHospital float64        `json:"annual_savings_per_hospital"`
}

// CompareContract lines up each contract year with the matching projected
// year's savings. Contract years beyond the projection get no savings.
func CompareContract(q defaults.ContractQuote, projections []model.YearProjection) ContractComparison {
	cmp := ContractComparison{Network: q.Network, Hospitals: q.Hospitals}

	var cum float64
	for i, y := range q.Years() {
		var savings float64
		if i < len(projections) {
			savings = projections[i].Savings
		}
		net := savings - y.Cost
		cum += net
		cmp.Years = append(cmp.Years, ContractYear{
			Label:         y.Label,
			Cost:          y.Cost,
			Savings:       savings,
			Net:           net,
			CumulativeNet: cum,
		})
		cmp.TotalCost += y.Cost
		cmp.TotalSavings += savings
	}

	cmp.NetBenefit = cmp.TotalSavings - cmp.TotalCost
	cmp.ROIPercent = ROIPercent(cmp.TotalSavings, cmp.TotalCost)
	if n := len(cmp.Years); n > 0 && q.Hospitals > 0 {
		cmp.CostPerHospital = cmp.TotalCost / float64(n) / float64(q.Hospitals)
		cmp.SavingsPerHospital = cmp.TotalSavings / float64(n) / float64(q.Hospitals)
	}
	return cmp
}
