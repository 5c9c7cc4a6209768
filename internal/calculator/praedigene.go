package calculator

import (
	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

func outsourcing(volume, inHouse, outsourced float64) model.OutsourcingComparison {
	o := model.OutsourcingComparison{
		InHouseCost:    volume * inHouse,
		OutsourcedCost: volume * outsourced,
	}
	o.Savings = o.OutsourcedCost - o.InHouseCost
	return o
}

// PGx computes pharmacogenomics testing savings.
type PGx struct {
	a defaults.PGxAssumptions
}

// Module implements Calculator.
func (c *PGx) Module() model.ModuleID { return model.ModulePGx }

// Compute implements Calculator.
func (c *PGx) Compute(ps model.ParameterSet, _ *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "annual_volume", "adr_cost", "patient_impact", "readmission_rate")
	if err != nil {
		return model.ModuleResult{}, err
	}

	impact := v["patient_impact"] / 100
	d := model.PGxDetail{
		Outsourcing:   outsourcing(v["annual_volume"], c.a.InHouseCostPerTest, c.a.OutsourceCostPerTest),
		AnnualVolume:  v["annual_volume"],
		PatientImpact: v["patient_impact"],
	}
	d.ADRsAvoided = d.AnnualVolume * c.a.BaselineADRRate * impact
	d.ADRSavings = d.ADRsAvoided * v["adr_cost"]
	d.ReadmissionsPrevented = d.ADRsAvoided * (v["readmission_rate"] / 100)
	d.ReadmissionSavings = d.ReadmissionsPrevented * c.a.ReadmissionCost
	d.MedicationSavings = d.AnnualVolume * c.a.MedicationValuePerPatient * impact

	r := result(c.Module(), d,
		item("cost_savings", "Savings vs. Outsourcing", d.Outsourcing.Savings),
		item("adr_savings", "ADR Prevention", d.ADRSavings),
		item("readmission_savings", "Readmission Reduction", d.ReadmissionSavings),
		item("medication_savings", "Medication Optimization", d.MedicationSavings),
	)
	r.ROIPercent = percentOf(r.TotalSavings, d.Outsourcing.InHouseCost)
	return r, nil
}

// TSO500 computes comprehensive genomic profiling savings.
type TSO500 struct {
	a defaults.TSO500Assumptions
}

// Module implements Calculator.
func (c *TSO500) Module() model.ModuleID { return model.ModuleTSO500 }

// Compute implements Calculator.
func (c *TSO500) Compute(ps model.ParameterSet, _ *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "annual_volume", "treatment_cost", "treatment_success", "fte_daily_cost")
	if err != nil {
		return model.ModuleResult{}, err
	}

	d := model.TSO500Detail{
		Outsourcing:  outsourcing(v["annual_volume"], c.a.InHouseCostPerTest, c.a.OutsourceCostPerTest),
		AnnualVolume: v["annual_volume"],
	}
	d.TurnaroundDaysSaved = d.AnnualVolume * (c.a.OutsourceTurnaroundDays - c.a.InHouseTurnaroundDays)
	d.TurnaroundSavings = d.TurnaroundDaysSaved * v["fte_daily_cost"]
	d.ActionableVariants = d.AnnualVolume * c.a.ActionableRate
	d.SuccessfulTreatments = d.ActionableVariants * (v["treatment_success"] / 100)
	d.TreatmentValue = d.SuccessfulTreatments * v["treatment_cost"] * c.a.ValueCapture
	d.TrialEnrollments = d.ActionableVariants * c.a.TrialEligibleRate
	d.TrialValue = d.TrialEnrollments * c.a.TrialEnrollmentValue

	r := result(c.Module(), d,
		item("cost_savings", "Savings vs. Outsourcing", d.Outsourcing.Savings),
		item("time_savings_value", "Turnaround Time Value", d.TurnaroundSavings),
		item("treatment_value", "Targeted Treatment Value", d.TreatmentValue),
		item("trial_value", "Clinical Trial Value", d.TrialValue),
	)
	r.ROIPercent = percentOf(r.TotalSavings, d.Outsourcing.InHouseCost)
	return r, nil
}

// BIAS2015 computes BIAS-2015 analysis value. It has no send-out
// comparison; ROI is measured against the reference testing cost.
type BIAS2015 struct {
	a defaults.BIAS2015Assumptions
}

// Module implements Calculator.
func (c *BIAS2015) Module() model.ModuleID { return model.ModuleBIAS2015 }

// Compute implements Calculator.
func (c *BIAS2015) Compute(ps model.ParameterSet, _ *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "annual_tests", "patient_benefit", "fte_daily_cost")
	if err != nil {
		return model.ModuleResult{}, err
	}

	benefit := ratio(v["patient_benefit"], c.a.BenefitScale)
	d := model.BIAS2015Detail{
		AnnualTests:    v["annual_tests"],
		PatientBenefit: v["patient_benefit"],
	}
	d.TotalCost = d.AnnualTests * c.a.CostPerTest
	d.DaysSaved = d.AnnualTests * c.a.BaselineTurnaroundDays * c.a.TurnaroundImprovement
	d.TimeSavingsValue = d.DaysSaved * v["fte_daily_cost"] * benefit
	d.ActionableFindings = d.AnnualTests * c.a.ActionableRate
	d.ClinicalValue = d.ActionableFindings * c.a.ClinicalValuePerFinding * benefit
	d.ResearchValue = d.AnnualTests * c.a.ResearchValuePerTest

	r := result(c.Module(), d,
		item("time_savings_value", "Turnaround Time Value", d.TimeSavingsValue),
		item("clinical_value", "Clinical Value", d.ClinicalValue),
		item("research_value", "Research Value", d.ResearchValue),
	)
	r.ROIPercent = percentOf(r.TotalSavings, d.TotalCost)
	return r, nil
}

// Cytogenetics computes cytogenetics automation savings.
type Cytogenetics struct {
	a defaults.CytogeneticsAssumptions
}

// Module implements Calculator.
func (c *Cytogenetics) Module() model.ModuleID { return model.ModuleCytogenetics }

// Compute implements Calculator.
func (c *Cytogenetics) Compute(ps model.ParameterSet, _ *baseline.Source) (model.ModuleResult, error) {
	v, err := values(ps, "annual_volume", "tech_time", "rerun_cost", "fte_daily_cost")
	if err != nil {
		return model.ModuleResult{}, err
	}

	d := model.CytogeneticsDetail{
		Outsourcing:  outsourcing(v["annual_volume"], c.a.InHouseCostPerCase, c.a.OutsourceCostPerCase),
		AnnualVolume: v["annual_volume"],
	}
	d.RerunsPrevented = d.AnnualVolume * (c.a.ManualRerunRate - c.a.AutomatedRerunRate)
	d.RerunSavings = d.RerunsPrevented * v["rerun_cost"]
	d.ManualHours = d.AnnualVolume * v["tech_time"]
	d.HoursSaved = d.ManualHours - d.ManualHours*c.a.AutomatedHoursFraction
	d.LaborSavings = ratio(d.HoursSaved, c.a.HoursPerDay) * v["fte_daily_cost"]
	d.QualityValue = d.AnnualVolume * c.a.QualityValuePerCase

	r := result(c.Module(), d,
		item("cost_savings", "Savings vs. Outsourcing", d.Outsourcing.Savings),
		item("rerun_savings", "Rerun Reduction", d.RerunSavings),
		item("labor_savings", "Labor Savings", d.LaborSavings),
		item("quality_value", "Quality Improvement", d.QualityValue),
	)
	r.ROIPercent = percentOf(r.TotalSavings, d.Outsourcing.InHouseCost)
	return r, nil
}
