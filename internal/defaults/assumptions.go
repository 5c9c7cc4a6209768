package defaults

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Assumptions holds the fixed constants the calculators use that are not
// exposed as adjustable parameters. They are configuration defaults drawn
// from the reference study and vendor pricing, and can be overridden.
type Assumptions struct {
	IPC          IPCAssumptions          `yaml:"ipc" json:"ipc"`
	Stewardship  StewardshipAssumptions  `yaml:"stewardship" json:"stewardship"`
	Regulatory   RegulatoryAssumptions   `yaml:"regulatory" json:"regulatory"`
	PGx          PGxAssumptions          `yaml:"pgx" json:"pgx"`
	TSO500       TSO500Assumptions       `yaml:"tso500" json:"tso500"`
	BIAS2015     BIAS2015Assumptions     `yaml:"bias2015" json:"bias2015"`
	Cytogenetics CytogeneticsAssumptions `yaml:"cytogenetics" json:"cytogenetics"`
}

// IPCAssumptions configures baseline overrides for infection prevention.
type IPCAssumptions struct {
	// BaselineHAIType selects which uploaded HAI rows set the incidence rate.
	BaselineHAIType string `yaml:"baseline_hai_type" json:"baseline_hai_type"`
}

// StewardshipAssumptions configures antimicrobial stewardship.
type StewardshipAssumptions struct {
	CDiffCasesPer10kDOT       float64 `yaml:"cdiff_cases_per_10k_dot" json:"cdiff_cases_per_10k_dot"`
	ReferenceBedDaysThousands float64 `yaml:"reference_bed_days_thousands" json:"reference_bed_days_thousands"`
}

// RegulatoryAssumptions configures regulatory reporting.
type RegulatoryAssumptions struct {
	AccuracyValuePerReport   float64 `yaml:"accuracy_value_per_report" json:"accuracy_value_per_report"`
	ComplianceValuePerReport float64 `yaml:"compliance_value_per_report" json:"compliance_value_per_report"`
}

// PGxAssumptions configures pharmacogenomics.
type PGxAssumptions struct {
	InHouseCostPerTest        float64 `yaml:"in_house_cost_per_test" json:"in_house_cost_per_test"`
	OutsourceCostPerTest      float64 `yaml:"outsource_cost_per_test" json:"outsource_cost_per_test"`
	BaselineADRRate           float64 `yaml:"baseline_adr_rate" json:"baseline_adr_rate"`
	ReadmissionCost           float64 `yaml:"readmission_cost" json:"readmission_cost"`
	MedicationValuePerPatient float64 `yaml:"medication_value_per_patient" json:"medication_value_per_patient"`
}

// TSO500Assumptions configures comprehensive genomic profiling.
type TSO500Assumptions struct {
	InHouseCostPerTest      float64 `yaml:"in_house_cost_per_test" json:"in_house_cost_per_test"`
	OutsourceCostPerTest    float64 `yaml:"outsource_cost_per_test" json:"outsource_cost_per_test"`
	InHouseTurnaroundDays   float64 `yaml:"in_house_turnaround_days" json:"in_house_turnaround_days"`
	OutsourceTurnaroundDays float64 `yaml:"outsource_turnaround_days" json:"outsource_turnaround_days"`
	ActionableRate          float64 `yaml:"actionable_rate" json:"actionable_rate"`
	ValueCapture            float64 `yaml:"value_capture" json:"value_capture"`
	TrialEligibleRate       float64 `yaml:"trial_eligible_rate" json:"trial_eligible_rate"`
	TrialEnrollmentValue    float64 `yaml:"trial_enrollment_value" json:"trial_enrollment_value"`
}

// BIAS2015Assumptions configures BIAS-2015 analysis.
type BIAS2015Assumptions struct {
	CostPerTest             float64 `yaml:"cost_per_test" json:"cost_per_test"`
	BaselineTurnaroundDays  float64 `yaml:"baseline_turnaround_days" json:"baseline_turnaround_days"`
	TurnaroundImprovement   float64 `yaml:"turnaround_improvement" json:"turnaround_improvement"`
	ActionableRate          float64 `yaml:"actionable_rate" json:"actionable_rate"`
	ClinicalValuePerFinding float64 `yaml:"clinical_value_per_finding" json:"clinical_value_per_finding"`
	ResearchValuePerTest    float64 `yaml:"research_value_per_test" json:"research_value_per_test"`
	BenefitScale            float64 `yaml:"benefit_scale" json:"benefit_scale"`
}

// CytogeneticsAssumptions configures cytogenetics automation.
type CytogeneticsAssumptions struct {
	InHouseCostPerCase     float64 `yaml:"in_house_cost_per_case" json:"in_house_cost_per_case"`
	OutsourceCostPerCase   float64 `yaml:"outsource_cost_per_case" json:"outsource_cost_per_case"`
	ManualRerunRate        float64 `yaml:"manual_rerun_rate" json:"manual_rerun_rate"`
	AutomatedRerunRate     float64 `yaml:"automated_rerun_rate" json:"automated_rerun_rate"`
	AutomatedHoursFraction float64 `yaml:"automated_hours_fraction" json:"automated_hours_fraction"`
	HoursPerDay            float64 `yaml:"hours_per_day" json:"hours_per_day"`
	QualityValuePerCase    float64 `yaml:"quality_value_per_case" json:"quality_value_per_case"`
}

// StandardAssumptions returns the stock constants.
func StandardAssumptions() Assumptions {
	return Assumptions{
		IPC: IPCAssumptions{BaselineHAIType: "CDI"},
		Stewardship: StewardshipAssumptions{
			CDiffCasesPer10kDOT:       15,
			ReferenceBedDaysThousands: 144.517,
		},
		Regulatory: RegulatoryAssumptions{
			AccuracyValuePerReport:   50,
			ComplianceValuePerReport: 100,
		},
		PGx: PGxAssumptions{
			InHouseCostPerTest:        200,
			OutsourceCostPerTest:      350,
			BaselineADRRate:           0.12,
			ReadmissionCost:           12000,
			MedicationValuePerPatient: 50,
		},
		TSO500: TSO500Assumptions{
			InHouseCostPerTest:      1500,
			OutsourceCostPerTest:    1800,
			InHouseTurnaroundDays:   14,
			OutsourceTurnaroundDays: 21,
			ActionableRate:          0.28,
			ValueCapture:            0.30,
			TrialEligibleRate:       0.15,
			TrialEnrollmentValue:    25000,
		},
		BIAS2015: BIAS2015Assumptions{
			CostPerTest:             1000,
			BaselineTurnaroundDays:  14,
			TurnaroundImprovement:   0.35,
			ActionableRate:          0.22,
			ClinicalValuePerFinding: 15000,
			ResearchValuePerTest:    500,
			BenefitScale:            10,
		},
		Cytogenetics: CytogeneticsAssumptions{
			InHouseCostPerCase:     600,
			OutsourceCostPerCase:   850,
			ManualRerunRate:        0.08,
			AutomatedRerunRate:     0.02,
			AutomatedHoursFraction: 0.4,
			HoursPerDay:            8,
			QualityValuePerCase:    100,
		},
	}
}

// LoadAssumptions overlays the YAML file at path onto the stock
// constants. Keys absent from the file keep their stock value.
func LoadAssumptions(path string) (Assumptions, error) {
	a := StandardAssumptions()
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return a, eris.Wrapf(err, "defaults: read assumptions %s", path)
	}
	if err := yaml.Unmarshal(data, &a); err != nil {
		return a, eris.Wrapf(err, "defaults: parse assumptions %s", path)
	}
	return a, nil
}
