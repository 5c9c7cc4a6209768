package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/export"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/report"
)

type recorder struct {
	mu sync.Mutex
	ts []Transition
}

func (r *recorder) OnTransition(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ts = append(r.ts, t)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.ts))
	for i, t := range r.ts {
		out[i] = t.To
	}
	return out
}

func TestMachine(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	assert.Equal(t, StateIdle, m.State())

	require.Error(t, m.Advance(StateCompiled))
	require.NoError(t, m.Advance(StateComputing))
	require.NoError(t, m.Advance(StateCompiled))
	require.NoError(t, m.Advance(StateExported))
	assert.True(t, m.State().Terminal())

	require.Error(t, m.Fail("late"))
	require.Error(t, m.Advance(StateComputing))
	assert.Len(t, m.History(), 3)
}

func TestMachineFailIsTerminal(t *testing.T) {
	t.Parallel()

	m := NewMachine(nil)
	require.NoError(t, m.Advance(StateComputing))
	require.NoError(t, m.Fail("boom"))

	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, "boom", m.Reason())
	require.Error(t, m.Advance(StateCompiled))
	require.Error(t, m.Fail("again"))

	h := m.History()
	require.Len(t, h, 2)
	assert.Equal(t, StateComputing, h[1].From)
	assert.Equal(t, "boom", h[1].Reason)
}

func TestGenerate_Exported(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g := New(defaults.Standard(), WithObserver(rec))

	out, err := g.Generate(context.Background(), Request{
		Product:      model.ProductPraediAlert,
		Tier:         model.TierMedium,
		Name:         "Test Hospital",
		IncludeStudy: true,
		Sensitivity:  true,
		Format:       export.FormatXLSX,
	})
	require.NoError(t, err)

	assert.Equal(t, []State{StateComputing, StateCompiled, StateExported}, rec.states())
	assert.Len(t, out.Transitions, 3)
	assert.NotEmpty(t, out.Data)
	assert.Len(t, out.Projection, 5)
	assert.NotEmpty(t, out.Sensitivity)
	assert.Nil(t, out.Contract)

	_, ok := out.Document.Section(report.SectionControlGroup)
	assert.True(t, ok)

	sum, err := export.ReadSummary(out.Data)
	require.NoError(t, err)
	assert.InDelta(t, out.Result.TotalSavings, sum.Values[export.MetricTotalSavings], 0.01)
}

func TestGenerate_CompileOnly(t *testing.T) {
	t.Parallel()

	out, err := New(defaults.Standard()).Generate(context.Background(), Request{
		Product: model.ProductPraediGene,
		Tier:    model.TierSmall,
	})
	require.NoError(t, err)
	assert.Nil(t, out.Data)
	require.Len(t, out.Transitions, 2)
	assert.Equal(t, StateCompiled, out.Transitions[1].To)
}

func TestGenerate_VISN21Contract(t *testing.T) {
	t.Parallel()

	out, err := New(defaults.Standard()).Compute(Request{
		Product: model.ProductPraediAlert,
		Tier:    model.TierVISN21,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Contract)
	assert.Equal(t, 7, out.Contract.Hospitals)
}

func TestGenerate_OverridesAndInvestment(t *testing.T) {
	t.Parallel()

	g := New(defaults.Standard())
	base, err := g.Compute(Request{Product: model.ProductPraediAlert, Tier: model.TierMedium})
	require.NoError(t, err)

	inv := model.Investment{Implementation: 1000}
	out, err := g.Compute(Request{
		Product:    model.ProductPraediAlert,
		Tier:       model.TierMedium,
		Investment: &inv,
		Overrides:  map[string]float64{"ipc_surveillance.reduction_rate": 20},
	})
	require.NoError(t, err)
	assert.Less(t, out.Result.TotalSavings, base.Result.TotalSavings)
	assert.InDelta(t, 1000, out.Result.TotalInvestment, 0.001)
}

func TestGenerate_OutOfRangeFailsInComputing(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	out, err := New(defaults.Standard(), WithObserver(rec)).Generate(context.Background(), Request{
		Product:   model.ProductPraediAlert,
		Tier:      model.TierMedium,
		Overrides: map[string]float64{"ipc_surveillance.reduction_rate": 99},
	})
	assert.Nil(t, out)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StateComputing, genErr.State)

	var rangeErr *model.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "reduction_rate", rangeErr.Param)
	assert.Equal(t, []State{StateComputing, StateFailed}, rec.states())
}

func TestGenerate_InvalidBaselineFailsInComputing(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	out, err := New(defaults.Standard(), WithObserver(rec)).Generate(context.Background(), Request{
		Product: model.ProductPraediAlert,
		Tier:    model.TierMedium,
		Baseline: &baseline.Source{
			BedDays:  []baseline.FacilityBedDays{{Facility: "Palo Alto", AnnualBedDays: -600000}},
			HaiRates: []baseline.HaiRateRecord{{Rolling12MoRate: -4.2}},
		},
		Format: export.FormatMarkdown,
	})
	assert.Nil(t, out)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StateComputing, genErr.State)
	assert.Equal(t, []State{StateComputing, StateFailed}, rec.states())
}

func TestGenerate_BaselineRecordsInAppendix(t *testing.T) {
	t.Parallel()

	src := &baseline.Source{
		BedDays:  []baseline.FacilityBedDays{{Facility: "Palo Alto VAMC", AnnualBedDays: 50000}},
		HaiRates: []baseline.HaiRateRecord{{Facility: "Palo Alto VAMC", HaiType: "CLABSI", Rolling12MoRate: 0.6, UnitOfMeasure: "per 1000 line days"}},
	}
	out, err := New(defaults.Standard()).Generate(context.Background(), Request{
		Product:  model.ProductPraediAlert,
		Tier:     model.TierVISN21,
		Baseline: src,
		Format:   export.FormatXLSX,
	})
	require.NoError(t, err)

	appendix, ok := out.Document.Section(report.SectionAppendix)
	require.True(t, ok)
	var found bool
	for _, blk := range appendix.Blocks {
		if tbl, ok := blk.(report.Table); ok && tbl.Caption == "Source Data: Patient Bed Days" {
			require.Len(t, tbl.Rows, 1)
			assert.Equal(t, "Palo Alto VAMC", tbl.Rows[0][0])
			found = true
		}
	}
	assert.True(t, found)

	names, err := export.SheetNames(out.Data)
	require.NoError(t, err)
	assert.Contains(t, names, export.SheetSourceBedDays)
	assert.Contains(t, names, export.SheetSourceHaiRates)
}

type brokenWriter struct{}

func (brokenWriter) Format() export.Format { return export.FormatPDF }
func (brokenWriter) ContentType() string { return "application/pdf" }
func (brokenWriter) Write(io.Writer, export.Payload) error { return errors.New("disk full") }

func TestGenerate_ExportFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g := New(defaults.Standard(),
		WithObserver(rec),
		WithRegistry(export.NewRegistry(brokenWriter{})),
	)
	out, err := g.Generate(context.Background(), Request{
		Product: model.ProductPraediAlert,
		Tier:    model.TierSmall,
		Format:  export.FormatPDF,
	})
	assert.Nil(t, out)

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StateCompiled, genErr.State)
	assert.Contains(t, genErr.Reason, "disk full")

	var expErr *export.Error
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, []State{StateComputing, StateCompiled, StateFailed}, rec.states())
}

func TestGenerate_UnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := New(defaults.Standard()).Generate(context.Background(), Request{Product: "nope", Tier: model.TierSmall})
	require.Error(t, err)
}

func TestGenerate_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(defaults.Standard()).Generate(ctx, Request{Product: model.ProductPraediAlert, Tier: model.TierSmall})
	require.ErrorIs(t, err, context.Canceled)
}
