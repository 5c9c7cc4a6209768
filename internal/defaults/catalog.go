// Package defaults holds the per-tier parameter tables, investment
// figures and fixed constants the calculators start from.
package defaults

import (
	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/model"
)

// byTier carries one value per size tier.
type byTier struct {
	Large, Medium, Small, VISN21 float64
}

func (b byTier) value(t model.SizeTier) float64 {
	switch t {
	case model.TierLarge:
		return b.Large
	case model.TierSmall:
		return b.Small
	case model.TierVISN21:
		return b.VISN21
	}
	return b.Medium
}

func flat(v float64) byTier { return byTier{v, v, v, v} }

// paramDef is a parameter contract with tier-dependent defaults.
type paramDef struct {
	name, label    string
	unit           model.Unit
	min, max, step float64
	impact         model.Impact
	defaults       byTier
}

func (d paramDef) spec(t model.SizeTier) model.ParameterSpec {
	return model.ParameterSpec{
		Name:    d.name,
		Label:   d.label,
		Unit:    d.unit,
		Min:     d.min,
		Max:     d.max,
		Step:    d.step,
		Default: d.defaults.value(t),
		Impact:  d.impact,
	}
}

var fteDailyCost = paramDef{"fte_daily_cost", "FTE Daily Cost", model.UnitCurrency, 500, 1500, 100, model.ImpactMedium, byTier{1000, 800, 600, 900}}

var moduleParams = map[model.ModuleID][]paramDef{
	model.ModuleIPCSurveillance: {
		{"patient_days", "Annual Patient Days", model.UnitCount, 10000, 200000, 5000, model.ImpactMedium, byTier{100000, 60000, 30000, 144517}},
		{"incidence_rate", "HAI Incidence Rate (per 1,000 patient days)", model.UnitRate, 0.5, 15, 0.1, model.ImpactHigh, byTier{4.5, 4.2, 4.0, 4.3}},
		{"reduction_rate", "HAI Reduction Rate", model.UnitPercent, 10, 50, 5, model.ImpactHigh, flat(43.6)},
		{"cost_per_hai", "Cost per HAI", model.UnitCurrency, 10000, 50000, 1000, model.ImpactHigh, flat(45000)},
		{"avg_los_extension", "Length of Stay Extension per HAI", model.UnitDays, 0, 30, 1, model.ImpactLow, flat(8)},
		{"cost_per_day", "Cost per Hospital Day", model.UnitCurrency, 500, 5000, 100, model.ImpactLow, flat(2000)},
		{"mortality_rate", "HAI Mortality Rate", model.UnitRatio, 0, 0.5, 0.01, model.ImpactLow, flat(0.05)},
		{"life_value", "Value per Life Saved", model.UnitCurrency, 0, 1000000, 10000, model.ImpactLow, flat(250000)},
		{"outbreak_probability", "Annual Outbreak Probability", model.UnitRatio, 0, 1, 0.05, model.ImpactLow, flat(0.25)},
		{"outbreak_cost", "Cost per Outbreak", model.UnitCurrency, 0, 5000000, 50000, model.ImpactLow, flat(1000000)},
	},
	model.ModuleAntimicrobialStewardship: {
		{"annual_dot", "Annual Days of Therapy", model.UnitCount, 10000, 100000, 5000, model.ImpactMedium, byTier{50000, 30000, 15000, 60000}},
		{"cost_per_dot", "Cost per Day of Therapy", model.UnitCurrency, 50, 200, 10, model.ImpactMedium, byTier{100, 90, 80, 100}},
		{"dot_reduction", "DOT Reduction Target", model.UnitPercent, 10, 40, 5, model.ImpactMedium, byTier{20, 18, 15, 20}},
		{"optimization_fraction", "Antibiotic Optimization Fraction", model.UnitRatio, 0, 0.5, 0.05, model.ImpactLow, flat(0.25)},
		{"cost_per_cdiff_case", "Cost per C. diff Case", model.UnitCurrency, 5000, 50000, 1000, model.ImpactLow, flat(15000)},
	},
	model.ModuleRegulatoryReporting: {
		{"reports_per_year", "Reports per Year", model.UnitCount, 50, 200, 10, model.ImpactMedium, byTier{100, 80, 60, 120}},
		{"hours_per_report", "Hours per Report", model.UnitHours, 1, 8, 0.5, model.ImpactLow, byTier{4, 3.5, 3, 4}},
		{"hourly_cost", "Staff Hourly Cost", model.UnitCurrency, 30, 100, 5, model.ImpactLow, byTier{50, 45, 40, 50}},
		{"automation_efficiency", "Automation Efficiency", model.UnitPercent, 50, 90, 5, model.ImpactLow, byTier{80, 75, 70, 80}},
	},
	model.ModulePGx: {
		{"annual_volume", "Annual PGx Tests", model.UnitCount, 100, 5000, 100, model.ImpactMedium, byTier{2000, 1200, 600, 1500}},
		{"adr_cost", "Cost per Adverse Drug Reaction", model.UnitCurrency, 2000, 15000, 500, model.ImpactHigh, byTier{7500, 5500, 4000, 6000}},
		{"patient_impact", "Patients Benefiting", model.UnitPercent, 10, 40, 5, model.ImpactHigh, byTier{25, 20, 15, 20}},
		{"readmission_rate", "Readmission Reduction", model.UnitPercent, 2, 15, 1, model.ImpactMedium, byTier{8, 6, 4, 5}},
	},
	model.ModuleTSO500: {
		{"annual_volume", "Annual TSO500 Tests", model.UnitCount, 50, 1000, 50, model.ImpactMedium, byTier{500, 300, 150, 400}},
		{"treatment_cost", "Targeted Therapy Cost", model.UnitCurrency, 15000, 50000, 1000, model.ImpactHigh, byTier{35000, 28000, 22000, 30000}},
		{"treatment_success", "Targeted Therapy Success Rate", model.UnitPercent, 50, 85, 5, model.ImpactMedium, byTier{75, 70, 65, 72}},
		fteDailyCost,
	},
	model.ModuleBIAS2015: {
		{"annual_tests", "Annual BIAS2015 Analyses", model.UnitCount, 100, 1500, 50, model.ImpactMedium, byTier{800, 500, 300, 650}},
		{"patient_benefit", "Clinical Benefit Score", model.UnitCount, 5, 10, 1, model.ImpactLow, byTier{9, 8, 7, 8.5}},
		fteDailyCost,
	},
	model.ModuleCytogenetics: {
		{"annual_volume", "Annual Cytogenetics Cases", model.UnitCount, 100, 1000, 50, model.ImpactMedium, byTier{600, 400, 200, 500}},
		{"tech_time", "Technologist Hours per Case", model.UnitHours, 1, 6, 0.5, model.ImpactLow, byTier{4, 3, 2.5, 3.5}},
		{"rerun_cost", "Cost per Rerun", model.UnitCurrency, 100, 500, 50, model.ImpactLow, byTier{250, 200, 150, 225}},
		fteDailyCost,
	},
}

var (
	implementationCost = byTier{75000, 50000, 30000, 50000}
	annualMaintenance  = byTier{15000, 10000, 6000, 1350000}
	staffTraining      = byTier{8000, 5000, 3000, 35000}
)

// Catalog is the immutable set of defaults handed to calculators and
// the projection engine. Use Standard for the stock catalog.
type Catalog struct {
	Assumptions Assumptions
	Maturity    []float64
	Contract    ContractQuote
}

// Standard returns a freshly built stock catalog.
func Standard() Catalog {
	return Catalog{
		Assumptions: StandardAssumptions(),
		Maturity:    StandardMaturity(),
		Contract:    VISN21Contract(),
	}
}

// StandardMaturity returns the savings multiplier for years 1 through 5.
func StandardMaturity() []float64 {
	return []float64{1.00, 1.05, 1.10, 1.12, 1.15}
}

// parameterTier maps custom organizations onto the medium table.
func parameterTier(t model.SizeTier) model.SizeTier {
	if t == model.TierCustom || t == "" {
		return model.TierMedium
	}
	return t
}

// Specs returns the parameter contracts for module at tier.
func (c Catalog) Specs(tier model.SizeTier, module model.ModuleID) ([]model.ParameterSpec, error) {
	defs, ok := moduleParams[module]
	if !ok {
		return nil, eris.Errorf("defaults: unknown module %q", module)
	}
	tier = parameterTier(tier)
	specs := make([]model.ParameterSpec, 0, len(defs))
	for _, d := range defs {
		specs = append(specs, d.spec(tier))
	}
	return specs, nil
}

// ParameterSet returns the default ParameterSet for module at tier.
func (c Catalog) ParameterSet(tier model.SizeTier, module model.ModuleID) (model.ParameterSet, error) {
	specs, err := c.Specs(tier, module)
	if err != nil {
		return model.ParameterSet{}, err
	}
	return model.NewParameterSet(module, specs), nil
}

// Parameters returns default sets for every module of product.
func (c Catalog) Parameters(tier model.SizeTier, product model.Product) (model.Parameters, error) {
	mods := product.Modules()
	if len(mods) == 0 {
		return nil, eris.Errorf("defaults: unknown product %q", product)
	}
	out := make(model.Parameters, len(mods))
	for _, id := range mods {
		ps, err := c.ParameterSet(tier, id)
		if err != nil {
			return nil, err
		}
		out[id] = ps
	}
	return out, nil
}

// Investment returns the tier's implementation, maintenance and training
// costs. Custom organizations start from the medium figures.
func (c Catalog) Investment(tier model.SizeTier) model.Investment {
	t := parameterTier(tier)
	return model.Investment{
		Implementation: implementationCost.value(t),
		Maintenance:    annualMaintenance.value(t),
		Training:       staffTraining.value(t),
	}
}

// Organization builds a profile for tier using the tier's investment.
func (c Catalog) Organization(tier model.SizeTier, name string) model.OrganizationProfile {
	if name == "" {
		name = tier.Label()
	}
	return model.OrganizationProfile{Name: name, Tier: tier, Investment: c.Investment(tier)}
}
