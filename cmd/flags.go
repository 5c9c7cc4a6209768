package main

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
)

// requestFlags are the inputs shared by calculate, report and sensitivity.
type requestFlags struct {
	product     string
	tier        string
	name        string
	sets        []string
	baselineDir string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.product, "product", "praedialert", "product: praedialert or praedigene")
	cmd.Flags().StringVar(&f.tier, "tier", "medium", "size tier: small, medium, large, visn21 or custom")
	cmd.Flags().StringVar(&f.name, "name", "", "organization name shown in reports")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "parameter override as module.param=value (repeatable)")
	cmd.Flags().StringVar(&f.baselineDir, "baseline-dir", "", "directory of baseline CSV/XLSX files")
}

// request converts the flags into a generation request. Baseline loading
// is left to the caller.
func (f *requestFlags) request() (pipeline.Request, error) {
	product, err := model.ParseProduct(f.product)
	if err != nil {
		return pipeline.Request{}, err
	}
	tier, err := model.ParseSizeTier(f.tier)
	if err != nil {
		return pipeline.Request{}, err
	}
	overrides, err := parseSets(f.sets)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{Product: product, Tier: tier, Name: f.name, Overrides: overrides}, nil
}

// parseSets parses "module.param=value" overrides.
func parseSets(sets []string) (map[string]float64, error) {
	if len(sets) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, eris.Errorf("set %q: expected module.param=value", s)
		}
		key = strings.TrimSpace(key)
		if _, _, err := model.ParseParameterKey(key); err != nil {
			return nil, eris.Wrapf(err, "set %q", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "set %q: parse value", s)
		}
		out[key] = v
	}
	return out, nil
}
