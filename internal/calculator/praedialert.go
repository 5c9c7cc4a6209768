package calculator

import (
	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

// IPC computes infection prevention and control surveillance savings.
type IPC struct {
	a defaults.IPCAssumptions
}

// Module implements Calculator.
func (c *IPC) Module() model.ModuleID { return model.ModuleIPCSurveillance }

// Compute implements Calculator. Uploaded bed days replace patient_days
// and the mean uploaded rate for the baseline HAI type replaces
// incidence_rate.
func (c *IPC) Compute(ps model.ParameterSet, src *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "patient_days", "incidence_rate", "reduction_rate", "cost_per_hai",
		"avg_los_extension", "cost_per_day", "mortality_rate", "life_value",
		"outbreak_probability", "outbreak_cost")
	if err != nil {
		return model.ModuleResult{}, err
	}

	d := model.IPCDetail{
		PatientDays:       v["patient_days"],
		IncidenceRate:     v["incidence_rate"],
		PatientDaysSource: sourceDefault,
		IncidenceSource:   sourceDefault,
	}
	if total, ok := src.TotalBedDays(); ok {
		d.PatientDays = total
		d.PatientDaysSource = sourceBaseline
	}
	if rate, ok := src.MeanHaiRate(c.a.BaselineHAIType); ok {
		d.IncidenceRate = rate
		d.IncidenceSource = sourceBaseline
	}

	d.BaselineHAIs = trunc((d.PatientDays / 1000) * (d.IncidenceRate / 100) * 10)
	d.HAIsPrevented = trunc(d.BaselineHAIs * (v["reduction_rate"] / 100))
	d.LOSDaysSaved = d.HAIsPrevented * v["avg_los_extension"]
	d.LivesSaved = trunc(d.HAIsPrevented * v["mortality_rate"])

	return result(c.Module(), d,
		item("direct_cost_savings", "Direct Cost Savings", d.HAIsPrevented*v["cost_per_hai"]),
		item("los_savings", "Length of Stay Savings", d.LOSDaysSaved*v["cost_per_day"]),
		item("life_value_savings", "Mortality Reduction Value", d.LivesSaved*v["life_value"]),
		item("outbreak_prevention", "Outbreak Prevention", trunc(v["outbreak_probability"]*v["outbreak_cost"])),
	), nil
}

// Stewardship computes antimicrobial stewardship savings.
type Stewardship struct {
	a defaults.StewardshipAssumptions
}

// Module implements Calculator.
func (c *Stewardship) Module() model.ModuleID { return model.ModuleAntimicrobialStewardship }

// Compute implements Calculator. Uploaded DOT rates replace annual_dot,
// scaled by uploaded bed days or the reference network's bed days.
func (c *Stewardship) Compute(ps model.ParameterSet, src *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "annual_dot", "cost_per_dot", "dot_reduction", "optimization_fraction", "cost_per_cdiff_case")
	if err != nil {
		return model.ModuleResult{}, err
	}

	d := model.StewardshipDetail{AnnualDOT: v["annual_dot"], AnnualDOTSource: sourceDefault}
	if mean, ok := src.MeanDotPer1000(); ok {
		thousands := c.a.ReferenceBedDaysThousands
		if total, ok := src.TotalBedDays(); ok {
			thousands = total / 1000
		}
		d.AnnualDOT = mean * thousands
		d.AnnualDOTSource = sourceBaseline
	}

	reduction := v["dot_reduction"] / 100
	d.CurrentAntibioticCost = d.AnnualDOT * v["cost_per_dot"]
	d.DOTReduced = trunc(d.AnnualDOT * reduction)
	d.CDiffCasesPrevented = trunc((d.AnnualDOT / 10000) * reduction * c.a.CDiffCasesPer10kDOT)

	return result(c.Module(), d,
		item("dot_savings", "DOT Reduction Savings", d.DOTReduced*v["cost_per_dot"]),
		item("optimization_savings", "Antibiotic Optimization", trunc(d.CurrentAntibioticCost*v["optimization_fraction"])),
		item("cdiff_savings", "C. diff Prevention", d.CDiffCasesPrevented*v["cost_per_cdiff_case"]),
	), nil
}

// Regulatory computes regulatory reporting automation savings.
type Regulatory struct {
	a defaults.RegulatoryAssumptions
}

// Module implements Calculator.
func (c *Regulatory) Module() model.ModuleID { return model.ModuleRegulatoryReporting }

// Compute implements Calculator.
func (c *Regulatory) Compute(ps model.ParameterSet, _ *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "reports_per_year", "hours_per_report", "hourly_cost", "automation_efficiency")
	if err != nil {
		return model.ModuleResult{}, err
	}

	d := model.RegulatoryDetail{ReportsPerYear: v["reports_per_year"]}
	d.ManualHours = d.ReportsPerYear * v["hours_per_report"]
	d.HoursSaved = trunc(d.ManualHours * (v["automation_efficiency"] / 100))

	return result(c.Module(), d,
		item("labor_savings", "Labor Savings", d.HoursSaved*v["hourly_cost"]),
		item("accuracy_value", "Accuracy Improvement", d.ReportsPerYear*c.a.AccuracyValuePerReport),
		item("compliance_value", "Compliance Value", d.ReportsPerYear*c.a.ComplianceValuePerReport),
	), nil
}
