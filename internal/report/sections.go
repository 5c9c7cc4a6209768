package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/roi"
	"github.com/bitscopic/roi-calculator/internal/study"
)

// builder assembles sections and keeps the first chart failure.
type builder struct {
	ctx context.Context
	c   *Compiler
	in  Input
	f   *format.Formatter
	err error
}

func (b *builder) chart(req ChartRequest) Block {
	if b.err != nil {
		return Chart{Request: req}
	}
	img, err := b.c.renderer.Render(b.ctx, req)
	if err != nil {
		b.err = eris.Wrapf(err, "report: render chart %q", req.Title)
		return Chart{Request: req}
	}
	return Chart{Request: req, Image: img}
}

func (b *builder) cover(doc *Document) Section {
	org := b.in.Result.Organization
	name := org.Name
	if name == "" {
		name = org.Tier.Label()
	}
	blocks := []Block{
		Paragraph{Text: doc.Subtitle},
		Table{
			Columns: []string{"Field", "Value"},
			Rows: [][]string{
				{"Organization", name},
				{"Organization Type", org.Tier.Label()},
				{"Product", doc.Product.Title()},
				{"Report Date", doc.GeneratedAt.Format("January 2, 2006")},
				{"Report ID", doc.ID},
			},
		},
	}
	if b.in.Study != nil {
		blocks = append(blocks, Paragraph{Text: fmt.Sprintf(
			"Based on results from %d VA Medical Centers, %s.",
			len(b.in.Study.Facilities), b.in.Study.Period)})
	}
	return Section{Kind: SectionCover, Title: doc.Title, Blocks: blocks}
}

func (b *builder) executive() Section {
	r := b.in.Result
	rows := [][]string{
		{"Total Annual Savings", b.f.Currency(r.TotalSavings)},
		{"Total Investment", b.f.Currency(r.TotalInvestment)},
		{"Net Annual Benefit", b.f.Currency(r.NetBenefit())},
		{"Return on Investment", b.f.Percent(r.ROIPercentage)},
		{"Payback Period", b.f.Months(r.PaybackMonths)},
	}
	if last, ok := lastYear(b.in.Projection); ok {
		rows = append(rows,
			[]string{fmt.Sprintf("%d-Year Cumulative Net Benefit", last.Year), b.f.Currency(last.CumulativeNet)},
			[]string{fmt.Sprintf("%d-Year Cumulative ROI", last.Year), b.f.Percent(last.CumulativeROI)},
		)
	}

	return Section{
		Kind:  SectionExecutive,
		Title: "Executive Summary",
		Blocks: []Block{
			Paragraph{Text: fmt.Sprintf(
				"This analysis estimates the annual financial return of %s across %d modules for a %s.",
				r.Product.Title(), len(r.Modules), r.Organization.Tier.Label())},
			Table{Caption: "Key Metrics", Columns: []string{"Metric", "Value"}, Rows: rows},
			Bullets{Items: b.findings()},
		},
	}
}

func (b *builder) findings() []string {
	r := b.in.Result
	var out []string

	mods := append([]model.ModuleResult(nil), r.Modules...)
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].TotalSavings > mods[j].TotalSavings })
	top := mods[0]
	out = append(out, fmt.Sprintf("%s contributes the largest share of savings at %s (%s of total).",
		top.Module.Title(), b.f.Currency(top.TotalSavings), b.f.Percent(share(top.TotalSavings, r.TotalSavings))))

	if r.PaybackKnown() {
		out = append(out, fmt.Sprintf("The investment is recovered in %s.", b.f.Months(r.PaybackMonths)))
	} else {
		out = append(out, "No savings are projected, so the investment is not recovered.")
	}
	if y := roi.BreakEvenYear(b.in.Projection); y > 0 {
		out = append(out, fmt.Sprintf("Cumulative savings exceed cumulative cost in year %d.", y))
	}
	if s := b.in.Study; s != nil {
		out = append(out, fmt.Sprintf("The %d-facility study observed a %s reduction in HAIs (%s).",
			len(s.Facilities), b.f.Percent(s.Summary.AverageReductionPct), s.Summary.StatisticalResult))
	}
	if len(b.in.Sensitivity) > 0 {
		out = append(out, fmt.Sprintf("ROI is most sensitive to %s.", b.in.Sensitivity[0].Variable.Label))
	}
	return out
}

func (b *builder) methodology() Section {
	blocks := []Block{
		Paragraph{Text: "Each module converts its operating parameters into annual savings components. " +
			"Module savings are summed into a product total and compared with the organization's investment."},
		Table{
			Caption: "Formulas",
			Columns: []string{"Measure", "Formula"},
			Rows: [][]string{
				{"Total Investment", "Implementation + Annual Maintenance + Training"},
				{"ROI", "(Total Savings - Total Investment) / Total Investment x 100"},
				{"Payback", "Total Investment / (Total Savings / 12) months"},
				{"Projection", "Year-1 savings x maturity multiplier, truncated to whole dollars"},
			},
		},
	}
	if len(b.in.Notices) > 0 {
		blocks = append(blocks, Paragraph{Text: "Data sources:"}, Bullets{Items: b.in.Notices})
	}
	if s := b.in.Study; s != nil {
		rows := make([][]string, 0, len(s.Methodology))
		for _, m := range s.Methodology {
			rows = append(rows, []string{m.Topic, m.Formula, m.Notes})
		}
		blocks = append(blocks, Table{Caption: "Study Methodology", Columns: []string{"Topic", "Formula", "Notes"}, Rows: rows})
	}
	return Section{Kind: SectionMethodology, Title: "Methodology", Blocks: blocks}
}

func (b *builder) results() Section {
	r := b.in.Result
	series := Series{Name: "Annual Savings"}
	rows := make([][]string, 0, len(r.Modules)+1)
	for _, m := range r.Modules {
		roiCell := "-"
		if m.ROIPercent != nil {
			roiCell = b.f.Percent(*m.ROIPercent)
		}
		rows = append(rows, []string{
			m.Module.Title(),
			b.f.Currency(m.TotalSavings),
			b.f.Percent(share(m.TotalSavings, r.TotalSavings)),
			roiCell,
		})
		series.Labels = append(series.Labels, m.Module.Title())
		series.Values = append(series.Values, m.TotalSavings)
	}
	rows = append(rows, []string{"Total", b.f.Currency(r.TotalSavings), b.f.Percent(100), b.f.Percent(r.ROIPercentage)})

	return Section{
		Kind:  SectionResults,
		Title: "Results by Module",
		Blocks: []Block{
			Table{Columns: []string{"Module", "Annual Savings", "Share", "ROI"}, Rows: rows},
			b.chart(ChartRequest{Type: ChartBar, Title: "Annual Savings by Module", Series: []Series{series}}),
		},
	}
}

func (b *builder) modules() []Section {
	out := make([]Section, 0, len(b.in.Result.Modules))
	for _, m := range b.in.Result.Modules {
		items := make([][]string, 0, len(m.Itemized)+1)
		pie := Series{Name: m.Module.Title()}
		for _, it := range m.Itemized {
			items = append(items, []string{it.Label, b.f.Currency(it.Amount)})
			pie.Labels = append(pie.Labels, it.Label)
			pie.Values = append(pie.Values, it.Amount)
		}
		items = append(items, []string{"Total", b.f.Currency(m.TotalSavings)})

		blocks := []Block{
			Table{Caption: "Savings Components", Columns: []string{"Component", "Annual Value"}, Rows: items},
		}
		if m.Detail != nil {
			var rows [][]string
			for _, mt := range m.Detail.Metrics() {
				rows = append(rows, []string{mt.Label, b.f.Value(mt.Value, mt.Unit)})
			}
			blocks = append(blocks, Table{Caption: "Key Metrics", Columns: []string{"Metric", "Value"}, Rows: rows})
		}
		blocks = append(blocks, b.chart(ChartRequest{
			Type:   ChartPie,
			Title:  m.Module.Title() + " Savings Breakdown",
			Series: []Series{pie},
		}))
		out = append(out, Section{Kind: SectionModule, Title: m.Module.Title(), Module: m.Module, Blocks: blocks})
	}
	return out
}

func (b *builder) projection() Section {
	p := b.in.Projection
	rows := make([][]string, 0, len(p))
	savings := Series{Name: "Cumulative Savings"}
	cost := Series{Name: "Cumulative Cost"}
	for _, y := range p {
		label := fmt.Sprintf("Year %d", y.Year)
		rows = append(rows, []string{
			label,
			b.f.Currency(y.Cost),
			b.f.Currency(y.Savings),
			b.f.Currency(y.NetBenefit),
			b.f.Percent(y.ROIPercent),
			b.f.Currency(y.CumulativeNet),
			b.f.Percent(y.CumulativeROI),
		})
		savings.Labels = append(savings.Labels, label)
		savings.Values = append(savings.Values, y.CumulativeSavings)
		cost.Labels = append(cost.Labels, label)
		cost.Values = append(cost.Values, y.CumulativeCost)
	}

	summary := "Cumulative savings do not exceed cumulative cost within the projection."
	if y := roi.BreakEvenYear(p); y > 0 {
		summary = fmt.Sprintf("Break-even is reached in year %d.", y)
	}
	return Section{
		Kind:  SectionProjection,
		Title: fmt.Sprintf("%d-Year Financial Projection", len(p)),
		Blocks: []Block{
			Table{
				Columns: []string{"Year", "Cost", "Savings", "Net Benefit", "ROI", "Cumulative Net", "Cumulative ROI"},
				Rows:    rows,
			},
			Paragraph{Text: summary},
			b.chart(ChartRequest{Type: ChartLine, Title: "Cumulative Cost vs Savings", Series: []Series{savings, cost}}),
		},
	}
}

func (b *builder) controlGroup() Section {
	s := b.in.Study
	cmp := study.Compare(s)

	cohort := Table{
		Caption: "Intervention vs Control",
		Columns: []string{"Cohort", "Facilities", "Pre-Period HAIs", "Post-Period HAIs", "Change"},
		Rows: [][]string{
			{"PraediAlert", b.f.Integer(float64(len(s.Facilities))), b.f.Integer(float64(s.Summary.TotalPreHAIs)),
				b.f.Integer(float64(s.Summary.TotalPostHAIs)), b.f.Percent(cmp.InterventionChangePct)},
			{"Control", b.f.Integer(float64(s.Control.Facilities)), b.f.Integer(float64(s.Control.PreHAIs)),
				b.f.Integer(float64(s.Control.PostHAIs)), b.f.Percent(cmp.ControlChangePct)},
		},
	}

	types := Table{
		Caption: "Change by HAI Type",
		Columns: []string{"HAI Type", "Intervention Change", "Control Change", "Net Benefit"},
	}
	inter := Series{Name: "Intervention"}
	ctrl := Series{Name: "Control"}
	for _, h := range cmp.HaiTypes {
		types.Rows = append(types.Rows, []string{
			h.Code, b.f.Percent(h.InterventionChangePct), b.f.Percent(h.ControlChangePct), b.f.Percent(h.NetBenefitPercent),
		})
		inter.Labels = append(inter.Labels, h.Code)
		inter.Values = append(inter.Values, h.InterventionChangePct)
		ctrl.Labels = append(ctrl.Labels, h.Code)
		ctrl.Values = append(ctrl.Values, h.ControlChangePct)
	}

	return Section{
		Kind:  SectionControlGroup,
		Title: "Control Group Comparison",
		Blocks: []Block{
			Paragraph{Text: fmt.Sprintf(
				"Intervention facilities changed by %s against %s for %d control facilities, a difference-in-differences of %s percentage points (%s relative improvement, %s).",
				b.f.Percent(cmp.InterventionChangePct), b.f.Percent(cmp.ControlChangePct), s.Control.Facilities,
				b.f.Number(cmp.DifferenceInDifferences, 1), b.f.Percent(cmp.RelativeImprovementPct), s.Summary.StatisticalResult)},
			cohort,
			types,
			b.chart(ChartRequest{Type: ChartGrouped, Title: "HAI Change by Type", Series: []Series{inter, ctrl}}),
		},
	}
}

func (b *builder) contract() Section {
	c := b.in.Contract
	rows := make([][]string, 0, len(c.Years)+1)
	for _, y := range c.Years {
		rows = append(rows, []string{y.Label, b.f.Currency(y.Cost), b.f.Currency(y.Savings), b.f.Currency(y.Net), b.f.Currency(y.CumulativeNet)})
	}
	rows = append(rows, []string{"Total", b.f.Currency(c.TotalCost), b.f.Currency(c.TotalSavings), b.f.Currency(c.NetBenefit), ""})

	return Section{
		Kind:  SectionContract,
		Title: c.Network + " Contract Analysis",
		Blocks: []Block{
			Paragraph{Text: fmt.Sprintf(
				"The %d-hospital contract costs %s per hospital per year against projected savings of %s, a contract ROI of %s.",
				c.Hospitals, b.f.Currency(c.CostPerHospital), b.f.Currency(c.SavingsPerHospital), b.f.Percent(c.ROIPercent))},
			Table{Columns: []string{"Contract Year", "Cost", "Projected Savings", "Net", "Cumulative Net"}, Rows: rows},
		},
	}
}

func (b *builder) sensitivity() Section {
	rows := make([][]string, 0, len(b.in.Sensitivity))
	low := Series{Name: "Pessimistic ROI"}
	high := Series{Name: "Optimistic ROI"}
	for _, s := range b.in.Sensitivity {
		rows = append(rows, []string{
			s.Variable.Label,
			b.f.Percent(s.Pessimistic.ROIPercentage),
			b.f.Percent(s.Base.ROIPercentage),
			b.f.Percent(s.Optimistic.ROIPercentage),
			b.f.Number(s.Swing, 1),
		})
		low.Labels = append(low.Labels, s.Variable.Label)
		low.Values = append(low.Values, s.Pessimistic.ROIPercentage)
		high.Labels = append(high.Labels, s.Variable.Label)
		high.Values = append(high.Values, s.Optimistic.ROIPercentage)
	}
	return Section{
		Kind:  SectionSensitivity,
		Title: "Sensitivity Analysis",
		Blocks: []Block{
			Paragraph{Text: "Each variable is moved to its pessimistic and optimistic value with all others held at the base case."},
			Table{Columns: []string{"Variable", "Pessimistic ROI", "Base ROI", "Optimistic ROI", "Swing (pts)"}, Rows: rows},
			b.chart(ChartRequest{Type: ChartTornado, Title: "ROI Sensitivity", Series: []Series{low, high}}),
		},
	}
}

func (b *builder) appendices() Section {
	var blocks []Block
	for _, id := range b.in.Parameters.Modules() {
		ps := b.in.Parameters[id]
		t := Table{
			Caption: id.Title() + " Assumptions",
			Columns: []string{"Parameter", "Value", "Range", "Impact"},
		}
		for _, spec := range ps.Specs() {
			t.Rows = append(t.Rows, []string{
				spec.Label,
				b.f.Value(ps.Get(spec.Name), spec.Unit),
				b.f.Value(spec.Min, spec.Unit) + " - " + b.f.Value(spec.Max, spec.Unit),
				string(spec.Impact),
			})
		}
		blocks = append(blocks, t)
	}

	if s := b.in.Study; s != nil {
		fac := Table{
			Caption: "Facility Results",
			Columns: []string{"Facility", "Region", "Go-Live", "Beds", "Pre HAIs", "Post HAIs", "Reduction", "Outcome"},
		}
		for _, f := range s.Facilities {
			fac.Rows = append(fac.Rows, []string{
				f.Name, f.Region, f.GoLive, b.f.Integer(float64(f.Beds)),
				b.f.Integer(float64(f.PreHAIs)), b.f.Integer(float64(f.PostHAIs)),
				b.f.Percent(f.ReductionPercent()), f.Outcome,
			})
		}
		blocks = append(blocks, fac)

		est := Table{
			Caption: "Projected Savings for Candidate Facilities",
			Columns: []string{"Facility", "Beds", "HAIs Prevented", "Lives Saved", "Annual Savings"},
		}
		for _, h := range study.TargetHospitals() {
			e := h.Estimate(study.StudyScaling())
			est.Rows = append(est.Rows, []string{
				h.Name, b.f.Integer(float64(h.Beds)), b.f.Integer(e.HAIsPrevented),
				b.f.Integer(e.LivesSaved), b.f.Currency(e.TotalSavings),
			})
		}
		blocks = append(blocks, est)
	}
	blocks = append(blocks, b.sourceData()...)
	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph{Text: "No supplementary data."})
	}
	return Section{Kind: SectionAppendix, Title: "Appendices", Blocks: blocks}
}

// sourceData lists the uploaded facility records, one table per kind.
func (b *builder) sourceData() []Block {
	src := b.in.Baseline
	if src.Empty() {
		return nil
	}
	var out []Block
	if len(src.BedDays) > 0 {
		t := Table{Caption: "Source Data: Patient Bed Days", Columns: []string{"Facility", "Annual Bed Days"}}
		for _, r := range src.BedDays {
			t.Rows = append(t.Rows, []string{r.Facility, b.f.Integer(r.AnnualBedDays)})
		}
		out = append(out, t)
	}
	if len(src.HaiRates) > 0 {
		t := Table{Caption: "Source Data: HAI Rates", Columns: []string{"Facility", "HAI Type", "Rolling 12-Month Rate", "Unit"}}
		for _, r := range src.HaiRates {
			t.Rows = append(t.Rows, []string{r.Facility, r.HaiType, b.f.Number(r.Rolling12MoRate, 2), r.UnitOfMeasure})
		}
		out = append(out, t)
	}
	if len(src.AntibioticDot) > 0 {
		t := Table{Caption: "Source Data: Antibiotic DOT", Columns: []string{"Facility", "Quarter", "Year", "DOT per 1,000 Days"}}
		for _, r := range src.AntibioticDot {
			t.Rows = append(t.Rows, []string{r.Facility, r.Quarter, strconv.Itoa(r.Year), b.f.Number(r.DotPer1000Days, 1)})
		}
		out = append(out, t)
	}
	return out
}

func lastYear(p []model.YearProjection) (model.YearProjection, bool) {
	if len(p) == 0 {
		return model.YearProjection{}, false
	}
	return p[len(p)-1], true
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
