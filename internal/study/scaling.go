package study

import "math"

// BedScaling holds the inputs for a bed-count based estimate.
type BedScaling struct {
	AdmissionsPerBed    float64
	BaselineHAIRate     float64
	ReductionRate       float64
	CostPerHAI          float64
	LOSExtensionDays    float64
	CostPerDay          float64
	MortalityRate       float64
	LifeValue           float64
	OutbreakProbability float64
	OutbreakCost        float64
}

// StudyScaling returns the study's per-hospital assumptions. The outbreak
// probability is two detections across eight facilities over 18 months,
// annualized.
func StudyScaling() BedScaling {
	return BedScaling{
		AdmissionsPerBed:    50,
		BaselineHAIRate:     0.045,
		ReductionRate:       0.436,
		CostPerHAI:          45000,
		LOSExtensionDays:    8,
		CostPerDay:          2000,
		MortalityRate:       0.05,
		LifeValue:           250000,
		OutbreakProbability: 2.0 / (8 * 18.0 / 12),
		OutbreakCost:        1000000,
	}
}

// BedEstimate is the annual savings estimate for one hospital.
type BedEstimate struct {
	Beds             int     `json:"beds"`
	AnnualAdmissions float64 `json:"annual_admissions"`
	BaselineHAIs     float64 `json:"baseline_hais"`
	HAIsPrevented    float64 `json:"hais_prevented"`
	DirectSavings    float64 `json:"direct_savings"`
	DaysSaved        float64 `json:"days_saved"`
	LOSSavings       float64 `json:"los_savings"`
	LivesSaved       float64 `json:"lives_saved"`
	MortalitySavings float64 `json:"mortality_savings"`
	OutbreakSavings  float64 `json:"outbreak_savings"`
	TotalSavings     float64 `json:"total_savings"`
}

// ScaleByBeds estimates annual savings from a bed count. Counts are
// truncated to whole units.
func ScaleByBeds(beds int, s BedScaling) BedEstimate {
	e := BedEstimate{Beds: beds}
	if beds <= 0 {
		return e
	}
	e.AnnualAdmissions = float64(beds) * s.AdmissionsPerBed
	e.BaselineHAIs = math.Trunc(e.AnnualAdmissions * s.BaselineHAIRate)
	e.HAIsPrevented = math.Trunc(e.BaselineHAIs * s.ReductionRate)
	e.DirectSavings = e.HAIsPrevented * s.CostPerHAI
	e.DaysSaved = e.HAIsPrevented * s.LOSExtensionDays
	e.LOSSavings = e.DaysSaved * s.CostPerDay
	e.LivesSaved = math.Trunc(e.HAIsPrevented * s.MortalityRate)
	e.MortalitySavings = e.LivesSaved * s.LifeValue
	e.OutbreakSavings = math.Trunc(s.OutbreakProbability * s.OutbreakCost)
	e.TotalSavings = e.DirectSavings + e.LOSSavings + e.MortalitySavings + e.OutbreakSavings
	return e
}

// Hospital is a candidate site for a bed-scaled estimate.
type Hospital struct {
	Name            string  `json:"name"`
	Beds            int     `json:"beds"`
	Tier            string  `json:"tier"`
	BaselineHAIRate float64 `json:"baseline_hai_rate"`
}

// TargetHospitals returns the five VA medical centers evaluated for
// expansion.
func TargetHospitals() []Hospital {
	return []Hospital{
		{"Boston VA Medical Center", 361, "large", 0.045},
		{"Seattle VA Medical Center", 358, "large", 0.042},
		{"Atlanta VA Medical Center", 339, "large", 0.048},
		{"Phoenix VA Medical Center", 267, "medium", 0.044},
		{"Minneapolis VA Medical Center", 279, "medium", 0.041},
	}
}

// Estimate scales the study results to h using its own HAI rate.
func (h Hospital) Estimate(s BedScaling) BedEstimate {
	if h.BaselineHAIRate > 0 {
		s.BaselineHAIRate = h.BaselineHAIRate
	}
	return ScaleByBeds(h.Beds, s)
}
