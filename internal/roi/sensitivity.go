package roi

import (
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/calculator"
	"github.com/bitscopic/roi-calculator/internal/model"
)

const investmentPrefix = "investment"

// Inputs is a complete base case for one product and organization.
type Inputs struct {
	Product      model.Product
	Organization model.OrganizationProfile
	Parameters   model.Parameters
	Baseline     *baseline.Source
}

// Analyzer evaluates base cases and one-at-a-time perturbations using the
// same calculators as the direct path.
type Analyzer struct {
	calcs map[model.ModuleID]calculator.Calculator
	order []model.ModuleID
}

// NewAnalyzer wraps calcs, which are evaluated in the given order.
func NewAnalyzer(calcs []calculator.Calculator) *Analyzer {
	a := &Analyzer{calcs: make(map[model.ModuleID]calculator.Calculator, len(calcs))}
	for _, c := range calcs {
		a.calcs[c.Module()] = c
		a.order = append(a.order, c.Module())
	}
	return a
}

// Evaluate runs every calculator and aggregates the results.
func (a *Analyzer) Evaluate(in Inputs) (model.AggregateResult, error) {
	results, err := a.computeAll(in)
	if err != nil {
		return model.AggregateResult{}, err
	}
	return Aggregate(in.Product, results, in.Organization), nil
}

func (a *Analyzer) computeAll(in Inputs) ([]model.ModuleResult, error) {
	results := make([]model.ModuleResult, 0, len(a.order))
	for _, id := range a.order {
		r, err := a.computeModule(id, in)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (a *Analyzer) computeModule(id model.ModuleID, in Inputs) (model.ModuleResult, error) {
	ps, ok := in.Parameters[id]
	if !ok {
		return model.ModuleResult{}, eris.Errorf("roi: no parameters for %s", id)
	}
	r, err := a.calcs[id].Compute(ps, in.Baseline)
	if err != nil {
		return model.ModuleResult{}, eris.Wrapf(err, "roi: compute %s", id)
	}
	return r, nil
}

// Analyze substitutes each variable's pessimistic, base and optimistic
// value into the base case and records the aggregate outcome. Only the
// module a variable belongs to is recomputed. Scenarios are ordered by
// descending absolute ROI swing.
func (a *Analyzer) Analyze(in Inputs, vars []model.SensitivityVariable) ([]model.SensitivityScenario, error) {
	base, err := a.computeAll(in)
	if err != nil {
		return nil, err
	}

	out := make([]model.SensitivityScenario, 0, len(vars))
	for _, v := range vars {
		sc := model.SensitivityScenario{Variable: v}
		for _, step := range []struct {
			value float64
			dst   *model.SensitivityOutcome
		}{
			{v.Pessimistic, &sc.Pessimistic},
			{v.Base, &sc.Base},
			{v.Optimistic, &sc.Optimistic},
		} {
			agg, err := a.substitute(in, base, v.Name, step.value)
			if err != nil {
				return nil, err
			}
			*step.dst = model.SensitivityOutcome{TotalSavings: agg.TotalSavings, ROIPercentage: agg.ROIPercentage}
		}
		sc.Swing = sc.Optimistic.ROIPercentage - sc.Pessimistic.ROIPercentage
		out = append(out, sc)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Swing) > math.Abs(out[j].Swing)
	})
	return out, nil
}

// substitute aggregates base with variable name set to value.
func (a *Analyzer) substitute(in Inputs, base []model.ModuleResult, name string, value float64) (model.AggregateResult, error) {
	scope, field, ok := strings.Cut(name, ".")
	if !ok {
		return model.AggregateResult{}, eris.Errorf("roi: variable %q must be module.parameter or investment.field", name)
	}

	if scope == investmentPrefix {
		org := in.Organization
		switch field {
		case "implementation", "implementation_cost":
			org.Investment.Implementation = value
		case "maintenance", "annual_maintenance":
			org.Investment.Maintenance = value
		case "training", "staff_training":
			org.Investment.Training = value
		default:
			return model.AggregateResult{}, eris.Errorf("roi: unknown investment field %q", field)
		}
		return Aggregate(in.Product, base, org), nil
	}

	id, err := model.ParseModuleID(scope)
	if err != nil {
		return model.AggregateResult{}, eris.Wrapf(err, "roi: variable %q", name)
	}
	if _, ok := a.calcs[id]; !ok {
		return model.AggregateResult{}, eris.Errorf("roi: module %s is not part of %s", id, in.Product)
	}

	params, err := in.Parameters.With(id, field, value)
	if err != nil {
		return model.AggregateResult{}, eris.Wrapf(err, "roi: variable %q", name)
	}
	next := in
	next.Parameters = params
	r, err := a.computeModule(id, next)
	if err != nil {
		return model.AggregateResult{}, err
	}

	results := append([]model.ModuleResult(nil), base...)
	for i := range results {
		if results[i].Module == id {
			results[i] = r
		}
	}
	return Aggregate(in.Product, results, in.Organization), nil
}

// DefaultVariables builds a sensitivity set from the base case: the
// study's HAI reduction range for PraediAlert, +/-20% around every
// high-impact parameter, and +/-20% around implementation and
// maintenance cost, with higher cost as the pessimistic case.
func DefaultVariables(in Inputs) []model.SensitivityVariable {
	var out []model.SensitivityVariable
	for _, id := range in.Parameters.Modules() {
		ps := in.Parameters[id]
		for _, spec := range ps.Specs() {
			if spec.Impact != model.ImpactHigh {
				continue
			}
			base := ps.Get(spec.Name)
			v := model.SensitivityVariable{
				Name:        string(id) + "." + spec.Name,
				Label:       id.Title() + ": " + spec.Label,
				Pessimistic: base * 0.8,
				Base:        base,
				Optimistic:  base * 1.2,
			}
			if id == model.ModuleIPCSurveillance && spec.Name == "reduction_rate" {
				v.Pessimistic, v.Optimistic = 30, 50
			}
			out = append(out, v)
		}
	}

	inv := in.Organization.Investment
	out = append(out,
		model.SensitivityVariable{
			Name:        investmentPrefix + ".implementation",
			Label:       "Implementation Cost",
			Pessimistic: inv.Implementation * 1.2,
			Base:        inv.Implementation,
			Optimistic:  inv.Implementation * 0.8,
		},
		model.SensitivityVariable{
			Name:        investmentPrefix + ".maintenance",
			Label:       "Annual Maintenance",
			Pessimistic: inv.Maintenance * 1.2,
			Base:        inv.Maintenance,
			Optimistic:  inv.Maintenance * 0.8,
		},
	)
	return out
}
