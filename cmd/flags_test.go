package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/model"
)

func TestParseSets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sets    []string
		want    map[string]float64
		wantErr string
	}{
		{"none", nil, nil, ""},
		{"single", []string{"ipc_surveillance.reduction_rate=40"}, map[string]float64{"ipc_surveillance.reduction_rate": 40}, ""},
		{"spaces", []string{" pgx.annual_volume = 1200 "}, map[string]float64{"pgx.annual_volume": 1200}, ""},
		{"missing equals", []string{"ipc_surveillance.reduction_rate"}, nil, "expected module.param=value"},
		{"bad key", []string{"reduction_rate=40"}, nil, "not module.param"},
		{"unknown module", []string{"radiology.scans=4"}, nil, "radiology"},
		{"bad value", []string{"ipc_surveillance.reduction_rate=forty"}, nil, "parse value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseSets(tt.sets)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestFlags_Request(t *testing.T) {
	t.Parallel()

	f := requestFlags{product: "gene", tier: "Large Hospital", name: "Mercy", sets: []string{"pgx.annual_volume=900"}}
	req, err := f.request()
	require.NoError(t, err)
	assert.Equal(t, model.ProductPraediGene, req.Product)
	assert.Equal(t, model.TierLarge, req.Tier)
	assert.Equal(t, "Mercy", req.Name)
	assert.InDelta(t, 900, req.Overrides["pgx.annual_volume"], 0.001)

	_, err = (&requestFlags{product: "other", tier: "small"}).request()
	assert.Error(t, err)
	_, err = (&requestFlags{product: "alert", tier: "tiny"}).request()
	assert.Error(t, err)
}
