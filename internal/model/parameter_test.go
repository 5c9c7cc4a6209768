package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpecs() []ParameterSpec {
	return []ParameterSpec{
		{Name: "patient_days", Min: 10000, Max: 200000, Step: 5000, Default: 60000},
		{Name: "reduction_rate", Min: 10, Max: 50, Step: 5, Default: 43.6},
	}
}

func TestNewParameterSetDefaults(t *testing.T) {
	t.Parallel()
	ps := NewParameterSet(ModuleIPCSurveillance, testSpecs())

	assert.Equal(t, ModuleIPCSurveillance, ps.Module())
	assert.InDelta(t, 60000, ps.Get("patient_days"), 0.001)
	assert.InDelta(t, 43.6, ps.Get("reduction_rate"), 0.001)
	assert.Zero(t, ps.Get("missing"))

	_, ok := ps.Lookup("missing")
	assert.False(t, ok)
	require.NoError(t, ps.Validate())
}

func TestParameterSetWithIsImmutable(t *testing.T) {
	t.Parallel()
	ps := NewParameterSet(ModuleIPCSurveillance, testSpecs())

	next, err := ps.With("patient_days", 90000)
	require.NoError(t, err)

	assert.InDelta(t, 60000, ps.Get("patient_days"), 0.001)
	assert.InDelta(t, 90000, next.Get("patient_days"), 0.001)

	_, err = ps.With("bogus", 1)
	assert.True(t, errors.Is(err, ErrUnknownParameter))
}

func TestParameterSetWithAll(t *testing.T) {
	t.Parallel()
	ps := NewParameterSet(ModuleIPCSurveillance, testSpecs())

	next, err := ps.WithAll(map[string]float64{"patient_days": 20000, "reduction_rate": 30})
	require.NoError(t, err)
	assert.InDelta(t, 20000, next.Get("patient_days"), 0.001)
	assert.InDelta(t, 30, next.Get("reduction_rate"), 0.001)

	_, err = ps.WithAll(map[string]float64{"patient_days": 20000, "nope": 1})
	require.Error(t, err)
}

func TestParameterSetValidate(t *testing.T) {
	t.Parallel()
	ps := NewParameterSet(ModuleIPCSurveillance, testSpecs())
	ps, _ = ps.With("patient_days", 5)
	ps, _ = ps.With("reduction_rate", math.NaN())

	err := ps.Validate()
	require.Error(t, err)

	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "patient_days", re.Param)
	assert.Contains(t, err.Error(), "ipc_surveillance.patient_days")
	assert.Contains(t, err.Error(), "reduction_rate")
}

func TestParameterSetClamp(t *testing.T) {
	t.Parallel()
	ps := NewParameterSet(ModuleIPCSurveillance, testSpecs())
	ps, _ = ps.With("patient_days", 500000)
	ps, _ = ps.With("reduction_rate", math.Inf(-1))

	clamped := ps.Clamp()
	assert.InDelta(t, 200000, clamped.Get("patient_days"), 0.001)
	assert.InDelta(t, 43.6, clamped.Get("reduction_rate"), 0.001)
	require.NoError(t, clamped.Validate())
	// original untouched
	assert.InDelta(t, 500000, ps.Get("patient_days"), 0.001)
}

func TestParametersWith(t *testing.T) {
	t.Parallel()
	params := Parameters{
		ModuleIPCSurveillance: NewParameterSet(ModuleIPCSurveillance, testSpecs()),
	}

	next, err := params.With(ModuleIPCSurveillance, "reduction_rate", 50)
	require.NoError(t, err)
	assert.InDelta(t, 50, next[ModuleIPCSurveillance].Get("reduction_rate"), 0.001)
	assert.InDelta(t, 43.6, params[ModuleIPCSurveillance].Get("reduction_rate"), 0.001)

	_, err = params.With(ModulePGx, "adr_cost", 1)
	require.Error(t, err)
}

func TestParametersModulesOrder(t *testing.T) {
	t.Parallel()
	params := Parameters{
		ModuleCytogenetics: NewParameterSet(ModuleCytogenetics, nil),
		ModulePGx:          NewParameterSet(ModulePGx, nil),
		ModuleTSO500:       NewParameterSet(ModuleTSO500, nil),
	}
	assert.Equal(t, []ModuleID{ModulePGx, ModuleTSO500, ModuleCytogenetics}, params.Modules())
}

func TestParametersApply(t *testing.T) {
	t.Parallel()

	params := Parameters{ModuleIPCSurveillance: NewParameterSet(ModuleIPCSurveillance, testSpecs())}
	name := testSpecs()[0].Name

	out, err := params.Apply(map[string]float64{"ipc." + name: 7})
	require.NoError(t, err)
	assert.InDelta(t, 7, out[ModuleIPCSurveillance].Get(name), 1e-9)
	assert.NotEqual(t, 7.0, params[ModuleIPCSurveillance].Get(name))

	_, err = params.Apply(map[string]float64{"ipc": 1})
	require.Error(t, err)
	_, err = params.Apply(map[string]float64{"tso500." + name: 1})
	require.ErrorIs(t, err, ErrUnknownParameter)
}
