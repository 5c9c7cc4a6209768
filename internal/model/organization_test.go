package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    SizeTier
		wantErr bool
	}{
		{in: "medium", want: TierMedium},
		{in: "Medium Hospital", want: TierMedium},
		{in: "large_hospital", want: TierLarge},
		{in: "small-hospital", want: TierSmall},
		{in: "VISN21", want: TierVISN21},
		{in: "visn21_network", want: TierVISN21},
		{in: "custom", want: TierCustom},
		{in: "huge", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSizeTier(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProduct(t *testing.T) {
	t.Parallel()
	p, err := ParseProduct("PraediAlert")
	require.NoError(t, err)
	assert.Equal(t, ProductPraediAlert, p)
	assert.Equal(t, "PraediAlert", p.Title())

	p, err = ParseProduct("gene")
	require.NoError(t, err)
	assert.Equal(t, ProductPraediGene, p)

	_, err = ParseProduct("praedi")
	assert.Error(t, err)
}

func TestInvestmentTotals(t *testing.T) {
	t.Parallel()
	inv := Investment{Implementation: 50000, Maintenance: 10000, Training: 5000}
	assert.InDelta(t, 65000, inv.Total(), 0.001)
	assert.InDelta(t, 55000, inv.OneTime(), 0.001)
}

func TestProductModules(t *testing.T) {
	t.Parallel()
	assert.Len(t, ProductPraediAlert.Modules(), 3)
	assert.Len(t, ProductPraediGene.Modules(), 4)
	for _, p := range []Product{ProductPraediAlert, ProductPraediGene} {
		for _, m := range p.Modules() {
			assert.Equal(t, p, m.Product())
			assert.LessOrEqual(t, len(m.Title()), 31, "sheet name limit")
		}
	}
}

func TestModuleResultItemizedSum(t *testing.T) {
	t.Parallel()
	r := ModuleResult{
		Module: ModuleIPCSurveillance,
		Itemized: []LineItem{
			{Key: "a", Amount: 10},
			{Key: "b", Amount: 32.5},
		},
	}
	assert.InDelta(t, 42.5, r.ItemizedSum(), 0.001)
	it, ok := r.Item("b")
	require.True(t, ok)
	assert.InDelta(t, 32.5, it.Amount, 0.001)
	_, ok = r.Item("c")
	assert.False(t, ok)
}

func TestParseModuleID(t *testing.T) {
	t.Parallel()
	id, err := ParseModuleID("IPC Surveillance")
	require.NoError(t, err)
	assert.Equal(t, ModuleIPCSurveillance, id)

	id, err = ParseModuleID("tso-500")
	require.NoError(t, err)
	assert.Equal(t, ModuleTSO500, id)

	_, err = ParseModuleID("radiology")
	assert.Error(t, err)
}
