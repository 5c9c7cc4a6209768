package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/roi"
	"github.com/bitscopic/roi-calculator/internal/study"
)

// Input is everything a report is compiled from. Only Result is required.
type Input struct {
	Result      model.AggregateResult
	Parameters  model.Parameters
	Projection  []model.YearProjection
	Sensitivity []model.SensitivityScenario
	Study       *study.Reference
	Contract    *roi.ContractComparison
	// Baseline holds the facility records behind the calculation, if any.
	Baseline *baseline.Source
	// Notices are baseline loading messages shown under data sources.
	Notices []string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRenderer sets the chart renderer.
func WithRenderer(r ChartRenderer) Option {
	return func(c *Compiler) { c.renderer = r }
}

// WithFormatter sets the number formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(c *Compiler) { c.fmt = f }
}

// WithTitlePrefix prepends a prefix to the document title.
func WithTitlePrefix(p string) Option {
	return func(c *Compiler) { c.titlePrefix = p }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) { c.now = now }
}

// Compiler turns results into a Document.
type Compiler struct {
	renderer    ChartRenderer
	fmt         *format.Formatter
	titlePrefix string
	now         func() time.Time
}

// NewCompiler returns a Compiler using placeholder charts and en-US
// formatting unless overridden.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		renderer: PlaceholderRenderer{},
		fmt:      format.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile builds the document. It fails without partial output when the
// input has no module results or a chart cannot be rendered.
func (c *Compiler) Compile(ctx context.Context, in Input) (*Document, error) {
	if len(in.Result.Modules) == 0 {
		return nil, eris.New("report: aggregate has no module results")
	}
	if in.Result.Product == "" {
		return nil, eris.New("report: aggregate has no product")
	}

	title := in.Result.Product.Title() + " ROI Analysis"
	if c.titlePrefix != "" {
		title = c.titlePrefix + " " + title
	}
	doc := &Document{
		ID:           uuid.New().String(),
		Title:        title,
		Subtitle:     "Comprehensive Investment & Return Report",
		Product:      in.Result.Product,
		Organization: in.Result.Organization,
		GeneratedAt:  c.now().UTC(),
	}

	b := &builder{ctx: ctx, c: c, in: in, f: c.fmt}
	doc.Sections = append(doc.Sections,
		b.cover(doc),
		b.executive(),
		b.methodology(),
		b.results(),
	)
	doc.Sections = append(doc.Sections, b.modules()...)
	if len(in.Projection) > 0 {
		doc.Sections = append(doc.Sections, b.projection())
	}
	if in.Study != nil {
		doc.Sections = append(doc.Sections, b.controlGroup())
	}
	if in.Contract != nil {
		doc.Sections = append(doc.Sections, b.contract())
	}
	if len(in.Sensitivity) > 0 {
		doc.Sections = append(doc.Sections, b.sensitivity())
	}
	doc.Sections = append(doc.Sections, b.appendices())

	if b.err != nil {
		return nil, b.err
	}
	zap.L().Debug("report: compiled",
		zap.String("id", doc.ID),
		zap.String("product", string(doc.Product)),
		zap.Int("sections", len(doc.Sections)),
	)
	return doc, nil
}
