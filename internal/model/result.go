package model

// PaybackSentinel is reported as payback months when there are no savings.
const PaybackSentinel = 999.0

// LineItem is one named savings component.
type LineItem struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Metric is a labeled intermediate quantity shown in reports.
type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ModuleDetail is implemented by the module-specific detail structs.
type ModuleDetail interface {
	Metrics() []Metric
	isModuleDetail()
}

// ModuleResult is the common envelope returned by every calculator.
type ModuleResult struct {
	Module       ModuleID     `json:"module"`
	TotalSavings float64      `json:"total_savings"`
	Itemized     []LineItem   `json:"itemized"`
	ROIPercent   *float64     `json:"roi_percent,omitempty"`
	Detail       ModuleDetail `json:"detail"`
}

// ItemizedSum adds the line items.
func (r ModuleResult) ItemizedSum() float64 {
	var s float64
	for _, it := range r.Itemized {
		s += it.Amount
	}
	return s
}

// Item returns the line item with the given key.
func (r ModuleResult) Item(key string) (LineItem, bool) {
	for _, it := range r.Itemized {
		if it.Key == key {
			return it, true
		}
	}
	return LineItem{}, false
}

// IPCDetail holds infection prevention intermediates.
type IPCDetail struct {
	PatientDays       float64 `json:"patient_days"`
	IncidenceRate     float64 `json:"incidence_rate"`
	BaselineHAIs      float64 `json:"baseline_hais"`
	HAIsPrevented     float64 `json:"hais_prevented"`
	LOSDaysSaved      float64 `json:"los_days_saved"`
	LivesSaved        float64 `json:"lives_saved"`
	PatientDaysSource string  `json:"patient_days_source"`
	IncidenceSource   string  `json:"incidence_source"`
}

func (IPCDetail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d IPCDetail) Metrics() []Metric {
	return []Metric{
		{Key: "patient_days", Label: "Annual Patient Days", Value: d.PatientDays, Unit: UnitCount},
		{Key: "incidence_rate", Label: "HAI Incidence Rate", Value: d.IncidenceRate, Unit: UnitRate},
		{Key: "baseline_hais", Label: "Baseline HAIs", Value: d.BaselineHAIs, Unit: UnitCount},
		{Key: "hais_prevented", Label: "HAIs Prevented", Value: d.HAIsPrevented, Unit: UnitCount},
		{Key: "los_days_saved", Label: "Hospital Days Avoided", Value: d.LOSDaysSaved, Unit: UnitDays},
		{Key: "lives_saved", Label: "Lives Saved", Value: d.LivesSaved, Unit: UnitCount},
	}
}

// StewardshipDetail holds antimicrobial stewardship intermediates.
type StewardshipDetail struct {
	AnnualDOT             float64 `json:"annual_dot"`
	CurrentAntibioticCost float64 `json:"current_antibiotic_cost"`
	DOTReduced            float64 `json:"dot_reduced"`
	CDiffCasesPrevented   float64 `json:"cdiff_cases_prevented"`
	AnnualDOTSource       string  `json:"annual_dot_source"`
}

func (StewardshipDetail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d StewardshipDetail) Metrics() []Metric {
	return []Metric{
		{Key: "annual_dot", Label: "Annual Days of Therapy", Value: d.AnnualDOT, Unit: UnitCount},
		{Key: "current_antibiotic_cost", Label: "Current Antibiotic Cost", Value: d.CurrentAntibioticCost, Unit: UnitCurrency},
		{Key: "dot_reduced", Label: "Days of Therapy Reduced", Value: d.DOTReduced, Unit: UnitCount},
		{Key: "cdiff_cases_prevented", Label: "C. diff Cases Prevented", Value: d.CDiffCasesPrevented, Unit: UnitCount},
	}
}

// RegulatoryDetail holds regulatory reporting intermediates.
type RegulatoryDetail struct {
	ReportsPerYear float64 `json:"reports_per_year"`
	ManualHours    float64 `json:"manual_hours"`
	HoursSaved     float64 `json:"hours_saved"`
}

func (RegulatoryDetail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d RegulatoryDetail) Metrics() []Metric {
	return []Metric{
		{Key: "reports_per_year", Label: "Reports per Year", Value: d.ReportsPerYear, Unit: UnitCount},
		{Key: "manual_hours", Label: "Manual Reporting Hours", Value: d.ManualHours, Unit: UnitHours},
		{Key: "hours_saved", Label: "Staff Hours Saved", Value: d.HoursSaved, Unit: UnitHours},
	}
}

// OutsourcingComparison contrasts in-house and send-out testing cost.
type OutsourcingComparison struct {
	InHouseCost    float64 `json:"in_house_cost"`
	OutsourcedCost float64 `json:"outsourced_cost"`
	Savings        float64 `json:"savings"`
}

func (o OutsourcingComparison) metrics() []Metric {
	return []Metric{
		{Key: "in_house_cost", Label: "In-House Testing Cost", Value: o.InHouseCost, Unit: UnitCurrency},
		{Key: "outsourced_cost", Label: "Outsourced Testing Cost", Value: o.OutsourcedCost, Unit: UnitCurrency},
	}
}

// PGxDetail holds pharmacogenomics intermediates.
type PGxDetail struct {
	Outsourcing           OutsourcingComparison `json:"outsourcing"`
	AnnualVolume          float64               `json:"annual_volume"`
	PatientImpact         float64               `json:"patient_impact"`
	ADRsAvoided           float64               `json:"adrs_avoided"`
	ADRSavings            float64               `json:"adr_savings"`
	ReadmissionsPrevented float64               `json:"readmissions_prevented"`
	ReadmissionSavings    float64               `json:"readmission_savings"`
	MedicationSavings     float64               `json:"medication_savings"`
}

func (PGxDetail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d PGxDetail) Metrics() []Metric {
	return append([]Metric{
		{Key: "annual_volume", Label: "Annual Test Volume", Value: d.AnnualVolume, Unit: UnitCount},
		{Key: "adrs_avoided", Label: "ADRs Avoided", Value: d.ADRsAvoided, Unit: UnitCount},
		{Key: "readmissions_prevented", Label: "Readmissions Prevented", Value: d.ReadmissionsPrevented, Unit: UnitCount},
	}, d.Outsourcing.metrics()...)
}

// TSO500Detail holds comprehensive genomic profiling intermediates.
type TSO500Detail struct {
	Outsourcing          OutsourcingComparison `json:"outsourcing"`
	AnnualVolume         float64               `json:"annual_volume"`
	TurnaroundDaysSaved  float64               `json:"time_saved_days"`
	TurnaroundSavings    float64               `json:"time_savings_value"`
	ActionableVariants   float64               `json:"actionable_variants"`
	SuccessfulTreatments float64               `json:"successful_treatments"`
	TreatmentValue       float64               `json:"treatment_value"`
	TrialEnrollments     float64               `json:"trial_enrollment"`
	TrialValue           float64               `json:"trial_value"`
}

func (TSO500Detail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d TSO500Detail) Metrics() []Metric {
	return append([]Metric{
		{Key: "annual_volume", Label: "Annual Test Volume", Value: d.AnnualVolume, Unit: UnitCount},
		{Key: "time_saved_days", Label: "Turnaround Days Saved", Value: d.TurnaroundDaysSaved, Unit: UnitDays},
		{Key: "actionable_variants", Label: "Actionable Variants", Value: d.ActionableVariants, Unit: UnitCount},
		{Key: "successful_treatments", Label: "Successful Targeted Treatments", Value: d.SuccessfulTreatments, Unit: UnitCount},
		{Key: "trial_enrollment", Label: "Clinical Trial Enrollments", Value: d.TrialEnrollments, Unit: UnitCount},
	}, d.Outsourcing.metrics()...)
}

// BIAS2015Detail holds BIAS-2015 analysis intermediates. There is no
// send-out comparison for this assay.
type BIAS2015Detail struct {
	AnnualTests        float64 `json:"annual_tests"`
	PatientBenefit     float64 `json:"patient_benefit"`
	TotalCost          float64 `json:"total_cost"`
	DaysSaved          float64 `json:"time_saved"`
	TimeSavingsValue   float64 `json:"time_savings_value"`
	ActionableFindings float64 `json:"actionable_findings"`
	ClinicalValue      float64 `json:"clinical_value"`
	ResearchValue      float64 `json:"research_value"`
}

func (BIAS2015Detail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d BIAS2015Detail) Metrics() []Metric {
	return []Metric{
		{Key: "annual_tests", Label: "Annual Tests", Value: d.AnnualTests, Unit: UnitCount},
		{Key: "time_saved", Label: "Turnaround Days Saved", Value: d.DaysSaved, Unit: UnitDays},
		{Key: "actionable_findings", Label: "Actionable Findings", Value: d.ActionableFindings, Unit: UnitCount},
		{Key: "total_cost", Label: "Testing Cost", Value: d.TotalCost, Unit: UnitCurrency},
	}
}

// CytogeneticsDetail holds cytogenetics automation intermediates.
type CytogeneticsDetail struct {
	Outsourcing     OutsourcingComparison `json:"outsourcing"`
	AnnualVolume    float64               `json:"annual_volume"`
	RerunsPrevented float64               `json:"reruns_prevented"`
	RerunSavings    float64               `json:"rerun_savings"`
	ManualHours     float64               `json:"manual_hours"`
	HoursSaved      float64               `json:"hours_saved"`
	LaborSavings    float64               `json:"labor_savings"`
	QualityValue    float64               `json:"quality_value"`
}

func (CytogeneticsDetail) isModuleDetail() {}

// Metrics implements ModuleDetail.
func (d CytogeneticsDetail) Metrics() []Metric {
	return append([]Metric{
		{Key: "annual_volume", Label: "Annual Case Volume", Value: d.AnnualVolume, Unit: UnitCount},
		{Key: "reruns_prevented", Label: "Reruns Prevented", Value: d.RerunsPrevented, Unit: UnitCount},
		{Key: "manual_hours", Label: "Manual Technologist Hours", Value: d.ManualHours, Unit: UnitHours},
		{Key: "hours_saved", Label: "Technologist Hours Saved", Value: d.HoursSaved, Unit: UnitHours},
	}, d.Outsourcing.metrics()...)
}
