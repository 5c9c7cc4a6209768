// Package calculator implements the per-module savings calculators for
// PraediAlert and PraediGene.
package calculator

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

// Calculator computes one module's savings from its parameters and
// optional baseline data. Implementations are pure.
type Calculator interface {
	Module() model.ModuleID
	Compute(params model.ParameterSet, src *baseline.Source) (model.ModuleResult, error)
}

// New returns the calculator for id.
func New(id model.ModuleID, a defaults.Assumptions) (Calculator, error) {
	switch id {
	case model.ModuleIPCSurveillance:
		return &IPC{a: a.IPC}, nil
	case model.ModuleAntimicrobialStewardship:
		return &Stewardship{a: a.Stewardship}, nil
	case model.ModuleRegulatoryReporting:
		return &Regulatory{a: a.Regulatory}, nil
	case model.ModulePGx:
		return &PGx{a: a.PGx}, nil
	case model.ModuleTSO500:
		return &TSO500{a: a.TSO500}, nil
	case model.ModuleBIAS2015:
		return &BIAS2015{a: a.BIAS2015}, nil
	case model.ModuleCytogenetics:
		return &Cytogenetics{a: a.Cytogenetics}, nil
	}
	return nil, eris.Errorf("calculator: unknown module %q", id)
}

// ForProduct returns the calculators for every module of product.
func ForProduct(p model.Product, a defaults.Assumptions) ([]Calculator, error) {
	mods := p.Modules()
	if len(mods) == 0 {
		return nil, eris.Errorf("calculator: unknown product %q", p)
	}
	out := make([]Calculator, 0, len(mods))
	for _, id := range mods {
		c, err := New(id, a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Run computes every calculator against its module's parameters.
func Run(calcs []Calculator, params model.Parameters, src *baseline.Source) ([]model.ModuleResult, error) {
	results := make([]model.ModuleResult, 0, len(calcs))
	for _, c := range calcs {
		ps, ok := params[c.Module()]
		if !ok {
			return nil, eris.Errorf("calculator: no parameters for %s", c.Module())
		}
		r, err := c.Compute(ps, src)
		if err != nil {
			return nil, eris.Wrapf(err, "calculator: compute %s", c.Module())
		}
		results = append(results, r)
	}
	return results, nil
}

// values reads named parameters, failing if any is absent.
func values(ps model.ParameterSet, names ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	var missing []string
	for _, n := range names {
		v, ok := ps.Lookup(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		out[n] = v
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(model.ErrUnknownParameter, "%s missing %v", ps.Module(), missing)
	}
	return out, nil
}

// trunc drops the fractional part toward zero.
func trunc(v float64) float64 {
	return math.Trunc(v)
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func result(id model.ModuleID, detail model.ModuleDetail, items ...model.LineItem) model.ModuleResult {
	r := model.ModuleResult{Module: id, Itemized: items, Detail: detail}
	r.TotalSavings = r.ItemizedSum()
	return r
}

func item(key, label string, amount float64) model.LineItem {
	return model.LineItem{Key: key, Label: label, Amount: amount}
}

func percentOf(total, base float64) *float64 {
	v := ratio(total, base) * 100
	return &v
}

const (
	sourceDefault  = "default"
	sourceBaseline = "baseline"
)
