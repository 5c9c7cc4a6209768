package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

func params(t *testing.T, tier model.SizeTier, id model.ModuleID, overrides map[string]float64) model.ParameterSet {
	t.Helper()
	ps, err := defaults.Standard().ParameterSet(tier, id)
	require.NoError(t, err)
	ps, err = ps.WithAll(overrides)
	require.NoError(t, err)
	return ps
}

func compute(t *testing.T, id model.ModuleID, ps model.ParameterSet, src *baseline.Source) model.ModuleResult {
	t.Helper()
	c, err := New(id, defaults.StandardAssumptions())
	require.NoError(t, err)
	r, err := c.Compute(ps, src)
	require.NoError(t, err)
	assert.Equal(t, id, r.Module)
	assert.InDelta(t, r.ItemizedSum(), r.TotalSavings, 0.0001, "total must equal itemized sum")
	return r
}

func amount(t *testing.T, r model.ModuleResult, key string) float64 {
	t.Helper()
	it, ok := r.Item(key)
	require.True(t, ok, key)
	return it.Amount
}

func TestIPCMediumHospital(t *testing.T) {
	t.Parallel()
	ps := params(t, model.TierMedium, model.ModuleIPCSurveillance, map[string]float64{
		"patient_days":   60000,
		"incidence_rate": 4.2,
		"reduction_rate": 43.6,
		"cost_per_hai":   45000,
	})

	r := compute(t, model.ModuleIPCSurveillance, ps, nil)

	d, ok := r.Detail.(model.IPCDetail)
	require.True(t, ok)
	assert.InDelta(t, 25, d.BaselineHAIs, 0)
	assert.InDelta(t, 10, d.HAIsPrevented, 0)
	assert.InDelta(t, 0, d.LivesSaved, 0)
	assert.Equal(t, "default", d.PatientDaysSource)

	assert.InDelta(t, 450000, amount(t, r, "direct_cost_savings"), 0)
	assert.InDelta(t, 160000, amount(t, r, "los_savings"), 0)
	assert.InDelta(t, 0, amount(t, r, "life_value_savings"), 0)
	assert.InDelta(t, 250000, amount(t, r, "outbreak_prevention"), 0)
	assert.InDelta(t, 860000, r.TotalSavings, 0)
	assert.Nil(t, r.ROIPercent)
}

func TestIPCBaselineOverride(t *testing.T) {
	t.Parallel()
	src := &baseline.Source{
		BedDays: []baseline.FacilityBedDays{
			{Facility: "A", AnnualBedDays: 100000},
			{Facility: "B", AnnualBedDays: 44517},
		},
		HaiRates: []baseline.HaiRateRecord{
			{Facility: "A", HaiType: "CDI", Rolling12MoRate: 4.0},
			{Facility: "B", HaiType: "CDI", Rolling12MoRate: 4.6},
			{Facility: "A", HaiType: "CLABSI", Rolling12MoRate: 0.8},
		},
	}
	ps := params(t, model.TierMedium, model.ModuleIPCSurveillance, nil)

	r := compute(t, model.ModuleIPCSurveillance, ps, src)
	d := r.Detail.(model.IPCDetail)
	assert.InDelta(t, 144517, d.PatientDays, 0.001)
	assert.InDelta(t, 4.3, d.IncidenceRate, 0.0001)
	assert.Equal(t, "baseline", d.PatientDaysSource)
	assert.Equal(t, "baseline", d.IncidenceSource)
	assert.InDelta(t, 62, d.BaselineHAIs, 0)
	assert.InDelta(t, 27, d.HAIsPrevented, 0)
	assert.InDelta(t, 1, d.LivesSaved, 0)
}

func TestStewardship(t *testing.T) {
	t.Parallel()
	ps := params(t, model.TierMedium, model.ModuleAntimicrobialStewardship, nil)

	r := compute(t, model.ModuleAntimicrobialStewardship, ps, nil)
	d := r.Detail.(model.StewardshipDetail)
	assert.InDelta(t, 2700000, d.CurrentAntibioticCost, 0.001)
	assert.InDelta(t, 5400, d.DOTReduced, 0)
	assert.InDelta(t, 8, d.CDiffCasesPrevented, 0)
	assert.InDelta(t, 486000, amount(t, r, "dot_savings"), 0)
	assert.InDelta(t, 675000, amount(t, r, "optimization_savings"), 0)
	assert.InDelta(t, 120000, amount(t, r, "cdiff_savings"), 0)
	assert.InDelta(t, 1281000, r.TotalSavings, 0)
}

func TestStewardshipBaselineOverride(t *testing.T) {
	t.Parallel()
	dot := []baseline.AntibioticDotRecord{
		{Facility: "A", Quarter: "Q1", Year: 2024, DotPer1000Days: 350},
		{Facility: "A", Quarter: "Q2", Year: 2024, DotPer1000Days: 450},
	}
	ps := params(t, model.TierVISN21, model.ModuleAntimicrobialStewardship, nil)

	r := compute(t, model.ModuleAntimicrobialStewardship, ps, &baseline.Source{AntibioticDot: dot})
	d := r.Detail.(model.StewardshipDetail)
	assert.InDelta(t, 57806.8, d.AnnualDOT, 0.001, "reference network bed days")
	assert.Equal(t, "baseline", d.AnnualDOTSource)
	assert.InDelta(t, 11561, d.DOTReduced, 0)
	assert.InDelta(t, 17, d.CDiffCasesPrevented, 0)

	withBeds := &baseline.Source{
		AntibioticDot: dot,
		BedDays:       []baseline.FacilityBedDays{{Facility: "A", AnnualBedDays: 100000}},
	}
	r = compute(t, model.ModuleAntimicrobialStewardship, ps, withBeds)
	assert.InDelta(t, 40000, r.Detail.(model.StewardshipDetail).AnnualDOT, 0.001)
}

func TestRegulatory(t *testing.T) {
	t.Parallel()
	ps := params(t, model.TierMedium, model.ModuleRegulatoryReporting, nil)

	r := compute(t, model.ModuleRegulatoryReporting, ps, nil)
	d := r.Detail.(model.RegulatoryDetail)
	assert.InDelta(t, 280, d.ManualHours, 0.0001)
	assert.InDelta(t, 210, d.HoursSaved, 0)
	assert.InDelta(t, 9450, amount(t, r, "labor_savings"), 0)
	assert.InDelta(t, 4000, amount(t, r, "accuracy_value"), 0)
	assert.InDelta(t, 8000, amount(t, r, "compliance_value"), 0)
	assert.InDelta(t, 21450, r.TotalSavings, 0)
}

func TestPraediGeneModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		module  model.ModuleID
		items   map[string]float64
		total   float64
		roi     float64
		inHouse float64
	}{
		{
			module: model.ModulePGx,
			items: map[string]float64{
				"cost_savings":        180000,
				"adr_savings":         158400,
				"readmission_savings": 20736,
				"medication_savings":  12000,
			},
			total: 371136,
			roi:   154.64,
		},
		{
			module: model.ModuleTSO500,
			items: map[string]float64{
				"cost_savings":       90000,
				"time_savings_value": 1680000,
				"treatment_value":    493920,
				"trial_value":        315000,
			},
			total: 2578920,
			roi:   2578920.0 / 450000 * 100,
		},
		{
			module: model.ModuleBIAS2015,
			items: map[string]float64{
				"time_savings_value": 1568000,
				"clinical_value":     1320000,
				"research_value":     250000,
			},
			total: 3138000,
			roi:   627.6,
		},
		{
			module: model.ModuleCytogenetics,
			items: map[string]float64{
				"cost_savings":  100000,
				"rerun_savings": 4800,
				"labor_savings": 72000,
				"quality_value": 40000,
			},
			total: 216800,
			roi:   216800.0 / 240000 * 100,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.module), func(t *testing.T) {
			t.Parallel()
			r := compute(t, tt.module, params(t, model.TierMedium, tt.module, nil), nil)
			for key, want := range tt.items {
				assert.InDelta(t, want, amount(t, r, key), 0.01, key)
			}
			assert.InDelta(t, tt.total, r.TotalSavings, 0.01)
			require.NotNil(t, r.ROIPercent)
			assert.InDelta(t, tt.roi, *r.ROIPercent, 0.01)
		})
	}
}

func TestBIAS2015HasNoOutsourcingLine(t *testing.T) {
	t.Parallel()
	r := compute(t, model.ModuleBIAS2015, params(t, model.TierMedium, model.ModuleBIAS2015, nil), nil)
	_, ok := r.Item("cost_savings")
	assert.False(t, ok)
}

func TestZeroVolumeGivesZeroSavings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		module model.ModuleID
		zero   map[string]float64
	}{
		{model.ModuleIPCSurveillance, map[string]float64{"patient_days": 0, "outbreak_probability": 0}},
		{model.ModuleAntimicrobialStewardship, map[string]float64{"annual_dot": 0}},
		{model.ModuleRegulatoryReporting, map[string]float64{"reports_per_year": 0}},
		{model.ModulePGx, map[string]float64{"annual_volume": 0}},
		{model.ModuleTSO500, map[string]float64{"annual_volume": 0}},
		{model.ModuleBIAS2015, map[string]float64{"annual_tests": 0}},
		{model.ModuleCytogenetics, map[string]float64{"annual_volume": 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.module), func(t *testing.T) {
			t.Parallel()
			r := compute(t, tt.module, params(t, model.TierSmall, tt.module, tt.zero), nil)
			assert.Zero(t, r.TotalSavings)
			if r.ROIPercent != nil {
				assert.Zero(t, *r.ROIPercent, "guarded division")
			}
		})
	}
}

func TestComputeMissingParameter(t *testing.T) {
	t.Parallel()
	c, err := New(model.ModulePGx, defaults.StandardAssumptions())
	require.NoError(t, err)

	empty := model.NewParameterSet(model.ModulePGx, nil)
	_, err = c.Compute(empty, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownParameter))
}

func TestForProductAndRun(t *testing.T) {
	t.Parallel()
	a := defaults.StandardAssumptions()

	calcs, err := ForProduct(model.ProductPraediAlert, a)
	require.NoError(t, err)
	require.Len(t, calcs, 3)

	ps, err := defaults.Standard().Parameters(model.TierMedium, model.ProductPraediAlert)
	require.NoError(t, err)

	results, err := Run(calcs, ps, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, model.ModuleIPCSurveillance, results[0].Module)

	delete(ps, model.ModuleRegulatoryReporting)
	_, err = Run(calcs, ps, nil)
	assert.Error(t, err)

	_, err = ForProduct("unknown", a)
	assert.Error(t, err)
	_, err = New("unknown", a)
	assert.Error(t, err)
}
