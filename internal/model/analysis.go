package model

// AggregateResult is the organization-level ROI for one product.
type AggregateResult struct {
	Product         Product             `json:"product"`
	Organization    OrganizationProfile `json:"organization"`
	TotalSavings    float64             `json:"total_savings"`
	TotalInvestment float64             `json:"total_investment"`
	ROIPercentage   float64             `json:"roi_percentage"`
	PaybackMonths   float64             `json:"payback_months"`
	Modules         []ModuleResult      `json:"per_module"`
}

// Module returns the result for id.
func (a AggregateResult) Module(id ModuleID) (ModuleResult, bool) {
	for _, m := range a.Modules {
		if m.Module == id {
			return m, true
		}
	}
	return ModuleResult{}, false
}

// NetBenefit returns savings minus investment.
func (a AggregateResult) NetBenefit() float64 {
	return a.TotalSavings - a.TotalInvestment
}

// PaybackKnown reports whether PaybackMonths is a real figure rather
// than the no-savings sentinel.
func (a AggregateResult) PaybackKnown() bool {
	return a.PaybackMonths != PaybackSentinel
}

// YearProjection is one year of a multi-year forecast.
type YearProjection struct {
	Year              int     `json:"year"`
	Cost              float64 `json:"cost"`
	Savings           float64 `json:"savings"`
	NetBenefit        float64 `json:"net_benefit"`
	ROIPercent        float64 `json:"roi_percent"`
	CumulativeCost    float64 `json:"cumulative_cost"`
	CumulativeSavings float64 `json:"cumulative_savings"`
	CumulativeNet     float64 `json:"cumulative_net"`
	CumulativeROI     float64 `json:"cumulative_roi"`
}

// SensitivityVariable describes one input to perturb. Name is either
// "<module>.<parameter>" or "investment.<field>".
type SensitivityVariable struct {
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Pessimistic float64 `json:"pessimistic" yaml:"pessimistic"`
	Base        float64 `json:"base" yaml:"base"`
	Optimistic  float64 `json:"optimistic" yaml:"optimistic"`
}

// SensitivityOutcome is the aggregate under one substituted value.
type SensitivityOutcome struct {
	TotalSavings  float64 `json:"total_savings"`
	ROIPercentage float64 `json:"roi_percentage"`
}

// SensitivityScenario is the result of perturbing one variable.
type SensitivityScenario struct {
	Variable    SensitivityVariable `json:"variable"`
	Pessimistic SensitivityOutcome  `json:"pessimistic"`
	Base        SensitivityOutcome  `json:"base"`
	Optimistic  SensitivityOutcome  `json:"optimistic"`
	Swing       float64             `json:"swing"`
}
