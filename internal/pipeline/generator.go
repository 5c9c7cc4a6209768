// Package pipeline runs one report generation from inputs to exported
// bytes and tracks it through the generation state machine.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/calculator"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/export"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/report"
	"github.com/bitscopic/roi-calculator/internal/roi"
	"github.com/bitscopic/roi-calculator/internal/study"
)

// Request describes one generation.
type Request struct {
	Product model.Product
	Tier    model.SizeTier
	Name    string
	// Investment replaces the tier's investment when set.
	Investment *model.Investment
	// Overrides are "module.param" values applied over tier defaults.
	Overrides map[string]float64
	Baseline  *baseline.Source
	Notices   []string
	// Sensitivity runs the default variable set when Variables is empty.
	Sensitivity bool
	Variables   []model.SensitivityVariable
	// IncludeStudy adds the reference study for PraediAlert reports.
	IncludeStudy bool
	// Format selects the export. Empty stops after compilation.
	Format export.Format
}

// Output is the product of a successful generation.
type Output struct {
	Result      model.AggregateResult       `json:"result"`
	Projection  []model.YearProjection      `json:"projection"`
	Sensitivity []model.SensitivityScenario `json:"sensitivity,omitempty"`
	Contract    *roi.ContractComparison     `json:"contract,omitempty"`
	Notices     []string                    `json:"notices,omitempty"`
	Document    *report.Document            `json:"-"`
	Format      export.Format               `json:"format,omitempty"`
	ContentType string                      `json:"content_type,omitempty"`
	Data        []byte                      `json:"-"`
	Transitions []Transition                `json:"transitions"`
}

// Error is returned when a generation fails. It carries the state the
// failure happened in and the full transition history.
type Error struct {
	State       State
	Reason      string
	Transitions []Transition
	Err         error
}

func (e *Error) Error() string {
	return "pipeline: failed while " + string(e.State) + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Generator holds what every generation shares.
type Generator struct {
	catalog  defaults.Catalog
	compiler *report.Compiler
	registry *export.Registry
	horizon  int
	observer Observer
}

// Option configures a Generator.
type Option func(*Generator)

// WithCompiler sets the report compiler.
func WithCompiler(c *report.Compiler) Option {
	return func(g *Generator) { g.compiler = c }
}

// WithRegistry sets the export registry.
func WithRegistry(r *export.Registry) Option {
	return func(g *Generator) { g.registry = r }
}

// WithHorizon sets the projection length in years.
func WithHorizon(years int) Option {
	return func(g *Generator) { g.horizon = years }
}

// WithObserver receives every state transition.
func WithObserver(o Observer) Option {
	return func(g *Generator) { g.observer = o }
}

// New returns a Generator over catalog.
func New(catalog defaults.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog:  catalog,
		compiler: report.NewCompiler(),
		registry: export.DefaultRegistry(),
		horizon:  5,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Catalog returns the defaults the generator computes with.
func (g *Generator) Catalog() defaults.Catalog { return g.catalog }

// Registry returns the export registry.
func (g *Generator) Registry() *export.Registry { return g.registry }

// Generate runs computation, compilation and the optional export. A
// failed generation returns *Error and no output.
func (g *Generator) Generate(ctx context.Context, req Request) (*Output, error) {
	log := zap.L().With(
		zap.String("product", string(req.Product)),
		zap.String("tier", string(req.Tier)),
	)
	m := NewMachine(g.observer)

	fail := func(err error) (*Output, error) {
		state := m.State()
		_ = m.Fail(err.Error())
		log.Error("pipeline: generation failed", zap.String("state", string(state)), zap.Error(err))
		return nil, &Error{State: state, Reason: err.Error(), Transitions: m.History(), Err: err}
	}

	start := time.Now()
	if err := m.Advance(StateComputing); err != nil {
		return fail(err)
	}
	out, in, err := g.compute(req)
	if err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	doc, err := g.compiler.Compile(ctx, in)
	if err != nil {
		return fail(err)
	}
	out.Document = doc
	if err := m.Advance(StateCompiled); err != nil {
		return fail(err)
	}

	if req.Format != "" {
		w, err := g.registry.For(req.Format)
		if err != nil {
			return fail(err)
		}
		data, err := export.Render(w, export.Payload{Doc: doc, Data: in})
		if err != nil {
			return fail(err)
		}
		if err := m.Advance(StateExported); err != nil {
			return fail(err)
		}
		out.Format = req.Format
		out.ContentType = w.ContentType()
		out.Data = data
	}

	out.Transitions = m.History()
	log.Info("pipeline: generation complete",
		zap.String("state", string(m.State())),
		zap.Float64("total_savings", out.Result.TotalSavings),
		zap.Float64("roi_percentage", out.Result.ROIPercentage),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return out, nil
}

// Compute runs only the calculation stage.
func (g *Generator) Compute(req Request) (*Output, error) {
	out, _, err := g.compute(req)
	return out, err
}

func (g *Generator) compute(req Request) (*Output, report.Input, error) {
	if len(req.Product.Modules()) == 0 {
		return nil, report.Input{}, eris.Errorf("pipeline: unknown product %q", req.Product)
	}

	params, err := g.catalog.Parameters(req.Tier, req.Product)
	if err != nil {
		return nil, report.Input{}, err
	}
	if params, err = params.Apply(req.Overrides); err != nil {
		return nil, report.Input{}, eris.Wrap(err, "pipeline: apply overrides")
	}
	if err := params.Validate(); err != nil {
		return nil, report.Input{}, err
	}
	if err := req.Baseline.Validate(); err != nil {
		return nil, report.Input{}, err
	}

	org := g.catalog.Organization(req.Tier, req.Name)
	if req.Investment != nil {
		org.Investment = *req.Investment
	}

	calcs, err := calculator.ForProduct(req.Product, g.catalog.Assumptions)
	if err != nil {
		return nil, report.Input{}, err
	}
	analyzer := roi.NewAnalyzer(calcs)
	base := roi.Inputs{Product: req.Product, Organization: org, Parameters: params, Baseline: req.Baseline}

	agg, err := analyzer.Evaluate(base)
	if err != nil {
		return nil, report.Input{}, eris.Wrap(err, "pipeline: compute")
	}

	out := &Output{
		Result: agg,
		Projection: roi.ProjectAggregate(agg,
			roi.WithHorizon(g.horizon),
			roi.WithMaturity(g.catalog.Maturity),
		),
		Notices: req.Notices,
	}

	vars := req.Variables
	if len(vars) == 0 && req.Sensitivity {
		vars = roi.DefaultVariables(base)
	}
	if len(vars) > 0 {
		if out.Sensitivity, err = analyzer.Analyze(base, vars); err != nil {
			return nil, report.Input{}, err
		}
	}

	if req.Tier == model.TierVISN21 {
		cmp := roi.CompareContract(g.catalog.Contract, out.Projection)
		out.Contract = &cmp
	}

	in := report.Input{
		Result:      agg,
		Parameters:  params,
		Projection:  out.Projection,
		Sensitivity: out.Sensitivity,
		Contract:    out.Contract,
		Baseline:    req.Baseline,
		Notices:     req.Notices,
	}
	if req.IncludeStudy && req.Product == model.ProductPraediAlert {
		in.Study = study.Standard()
	}
	return out, in, nil
}
