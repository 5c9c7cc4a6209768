package study

import "math"

// Comparison is the difference-in-differences result of the study.
// DifferenceInDifferences is in percentage points; negative favors the
// intervention.
type Comparison struct {
	InterventionChangePct   float64             `json:"intervention_change_percent"`
	ControlChangePct        float64             `json:"control_change_percent"`
	DifferenceInDifferences float64             `json:"difference_in_differences"`
	RelativeImprovementPct  float64             `json:"relative_improvement_percent"`
	HaiTypes                []HaiTypeComparison `json:"hai_types"`
}

// HaiTypeComparison is the per-type change in each cohort.
type HaiTypeComparison struct {
	Code                  string  `json:"code"`
	InterventionChangePct float64 `json:"intervention_change_percent"`
	ControlChangePct      float64 `json:"control_change_percent"`
	NetBenefitPercent     float64 `json:"net_benefit_percent"`
}

// Compare computes the cohort changes and their difference.
func Compare(r *Reference) Comparison {
	c := Comparison{
		InterventionChangePct: changePct(r.Summary.TotalPreHAIs, r.Summary.TotalPostHAIs),
		ControlChangePct:      changePct(r.Control.PreHAIs, r.Control.PostHAIs),
	}
	c.DifferenceInDifferences = c.InterventionChangePct - c.ControlChangePct
	if c.ControlChangePct != 0 {
		c.RelativeImprovementPct = math.Abs(c.DifferenceInDifferences) / math.Abs(c.ControlChangePct) * 100
	}
	for _, h := range r.HaiTypes {
		c.HaiTypes = append(c.HaiTypes, HaiTypeComparison{
			Code:                  h.Code,
			InterventionChangePct: changePct(h.InterventionPre, h.InterventionPost),
			ControlChangePct:      changePct(h.ControlPre, h.ControlPost),
			NetBenefitPercent:     h.NetBenefitPercent,
		})
	}
	return c
}

func changePct(pre, post int) float64 {
	if pre == 0 {
		return 0
	}
	return float64(post-pre) / float64(pre) * 100
}
