package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/roi"
	"github.com/bitscopic/roi-calculator/internal/study"
)

// Sheet names.
const (
	SheetSummary     = "Executive Summary"
	SheetSensitivity = "Sensitivity"
	SheetContract    = "Contract"
	SheetAssumptions = "Assumptions"
	SheetFacilities  = "8 Facility Results"
	SheetHaiTypes    = "HAI Type Analysis"
	SheetFinancial   = "Financial Analysis"

	SheetSourceBedDays       = "Source Bed Days"
	SheetSourceHaiRates      = "Source HAI Rates"
	SheetSourceAntibioticDot = "Source Antibiotic DOT"
)

// Summary metric labels written to and read from the summary sheet.
const (
	MetricTotalSavings    = "Total Savings"
	MetricTotalInvestment = "Total Investment"
	MetricROI             = "ROI %"
	MetricPayback         = "Payback (months)"
	MetricNetBenefit      = "Net Benefit"
)

const (
	currencyFormat = "$#,##0"
	percentFormat  = "0.0"
)

// ProjectionSheet names the projection sheet for a horizon.
func ProjectionSheet(years int) string {
	return fmt.Sprintf("%d-Year Projection", years)
}

// WorkbookWriter renders a multi-sheet XLSX workbook.
type WorkbookWriter struct{}

// Format implements Writer.
func (WorkbookWriter) Format() Format { return FormatXLSX }

// ContentType implements Writer.
func (WorkbookWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write implements Writer.
func (WorkbookWriter) Write(w io.Writer, p Payload) error {
	f := xlsx.NewFile()
	b := &sheetBuilder{file: f, header: headerStyle()}

	in := p.Data
	b.summary(in.Result)
	for _, m := range in.Result.Modules {
		b.module(m)
	}
	if len(in.Projection) > 0 {
		b.projection(in.Projection)
	}
	if len(in.Sensitivity) > 0 {
		b.sensitivity(in.Sensitivity)
	}
	if in.Contract != nil {
		b.contract(in.Contract.Years)
	}
	if len(in.Parameters) > 0 {
		b.assumptions(in.Parameters)
	}
	if in.Study != nil {
		b.study(in.Study)
	}
	if !in.Baseline.Empty() {
		b.sourceData(in.Baseline)
	}
	if b.err != nil {
		return b.err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "workbook: write")
	}
	return nil
}

func headerStyle() *xlsx.Style {
	s := xlsx.NewStyle()
	s.Font.Bold = true
	s.ApplyFont = true
	return s
}

type sheetBuilder struct {
	file   *xlsx.File
	header *xlsx.Style
	err    error
}

func (b *sheetBuilder) sheet(name string, columns ...string) *xlsx.Sheet {
	if b.err != nil {
		return nil
	}
	s, err := b.file.AddSheet(name)
	if err != nil {
		b.err = eris.Wrapf(err, "workbook: add sheet %q", name)
		return nil
	}
	row := s.AddRow()
	for _, c := range columns {
		cell := row.AddCell()
		cell.SetString(c)
		cell.SetStyle(b.header)
	}
	return s
}

// cells appends a row. Values may be string, int or float64; cellFloat
// values carry a number format.
func cells(s *xlsx.Sheet, values ...any) {
	if s == nil {
		return
	}
	row := s.AddRow()
	for _, v := range values {
		cell := row.AddCell()
		switch x := v.(type) {
		case string:
			cell.SetString(x)
		case int:
			cell.SetInt(x)
		case float64:
			cell.SetFloat(x)
		case cellFloat:
			cell.SetFloatWithFormat(x.v, x.format)
		default:
			cell.SetString(fmt.Sprint(x))
		}
	}
}

type cellFloat struct {
	v      float64
	format string
}

func money(v float64) cellFloat   { return cellFloat{v, currencyFormat} }
func percent(v float64) cellFloat { return cellFloat{v, percentFormat} }

func (b *sheetBuilder) summary(r model.AggregateResult) {
	s := b.sheet(SheetSummary, "Metric", "Value")
	cells(s, "Product", r.Product.Title())
	cells(s, "Organization", r.Organization.Name)
	cells(s, "Organization Type", r.Organization.Tier.Label())
	cells(s, MetricTotalSavings, money(r.TotalSavings))
	cells(s, MetricTotalInvestment, money(r.TotalInvestment))
	cells(s, MetricROI, percent(r.ROIPercentage))
	cells(s, MetricPayback, r.PaybackMonths)
	cells(s, MetricNetBenefit, money(r.NetBenefit()))
	for _, m := range r.Modules {
		cells(s, m.Module.Title()+" Savings", money(m.TotalSavings))
	}
}

func (b *sheetBuilder) module(m model.ModuleResult) {
	s := b.sheet(sheetName(m.Module.Title()), "Component", "Annual Value")
	for _, it := range m.Itemized {
		cells(s, it.Label, money(it.Amount))
	}
	cells(s, "Total", money(m.TotalSavings))
	if m.ROIPercent != nil {
		cells(s, "Module ROI %", percent(*m.ROIPercent))
	}
	if m.Detail == nil {
		return
	}
	cells(s)
	cells(s, "Metric", "Value")
	for _, mt := range m.Detail.Metrics() {
		if mt.Unit == model.UnitCurrency {
			cells(s, mt.Label, money(mt.Value))
			continue
		}
		cells(s, mt.Label, mt.Value)
	}
}

func (b *sheetBuilder) projection(years []model.YearProjection) {
	s := b.sheet(ProjectionSheet(len(years)),
		"Year", "Cost", "Savings", "Net Benefit", "ROI %",
		"Cumulative Cost", "Cumulative Savings", "Cumulative Net", "Cumulative ROI %")
	for _, y := range years {
		cells(s, y.Year, money(y.Cost), money(y.Savings), money(y.NetBenefit), percent(y.ROIPercent),
			money(y.CumulativeCost), money(y.CumulativeSavings), money(y.CumulativeNet), percent(y.CumulativeROI))
	}
}

func (b *sheetBuilder) sensitivity(scenarios []model.SensitivityScenario) {
	s := b.sheet(SheetSensitivity,
		"Variable", "Pessimistic", "Base", "Optimistic",
		"Pessimistic ROI %", "Base ROI %", "Optimistic ROI %", "Swing")
	for _, sc := range scenarios {
		v := sc.Variable
		cells(s, v.Label, v.Pessimistic, v.Base, v.Optimistic,
			percent(sc.Pessimistic.ROIPercentage), percent(sc.Base.ROIPercentage), percent(sc.Optimistic.ROIPercentage), sc.Swing)
	}
}

func (b *sheetBuilder) contract(years []roi.ContractYear) {
	s := b.sheet(SheetContract, "Contract Year", "Cost", "Projected Savings", "Net", "Cumulative Net")
	for _, y := range years {
		cells(s, y.Label, money(y.Cost), money(y.Savings), money(y.Net), money(y.CumulativeNet))
	}
}

func (b *sheetBuilder) assumptions(params model.Parameters) {
	s := b.sheet(SheetAssumptions, "Module", "Parameter", "Value", "Min", "Max", "Unit", "Impact")
	for _, id := range params.Modules() {
		ps := params[id]
		for _, spec := range ps.Specs() {
			cells(s, id.Title(), spec.Label, ps.Get(spec.Name), spec.Min, spec.Max, string(spec.Unit), string(spec.Impact))
		}
	}
}

func (b *sheetBuilder) study(ref *study.Reference) {
	s := b.sheet(SheetFacilities, "Facility", "Region", "Go-Live", "Beds", "Pre HAIs", "Post HAIs", "Reduction", "Reduction %", "Outcome", "Notes")
	for _, f := range ref.Facilities {
		cells(s, f.Name, f.Region, f.GoLive, f.Beds, f.PreHAIs, f.PostHAIs, f.ReductionAbsolute(), percent(f.ReductionPercent()), f.Outcome, f.Notes)
	}

	s = b.sheet(SheetHaiTypes, "HAI Type", "Full Name", "Intervention Pre", "Intervention Post", "Control Pre", "Control Post", "Net Benefit %")
	for _, h := range ref.HaiTypes {
		cells(s, h.Code, h.Name, h.InterventionPre, h.InterventionPost, h.ControlPre, h.ControlPost, percent(h.NetBenefitPercent))
	}

	s = b.sheet(SheetFinancial, "Category", "Item", "Value")
	fin := ref.Financials
	cells(s, "Per HAI Costs", "Direct Medical", money(fin.CostPerHAI))
	cells(s, "Per HAI Costs", "Extended LOS", money(fin.ExtendedLOSCost))
	for _, group := range []struct {
		name  string
		lines []study.CostLine
	}{
		{"Implementation Costs", fin.Implementation},
		{"Annual Operating", fin.Operating},
		{"Savings 18 Months", fin.Savings18Months},
	} {
		for _, l := range group.lines {
			cells(s, group.name, l.Label, money(l.Amount))
		}
	}
	cells(s, "Implementation Costs", "Per Facility", money(fin.ImplementationPerSite))
	cells(s, "Annual Operating", "Per Facility", money(fin.OperatingPerSite))
}

// sheetName trims to the 31-character sheet name limit.
func sheetName(s string) string {
	s = strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-").Replace(s)
	if len(s) > 31 {
		s = s[:31]
	}
	return s
}

// Summary is the executive summary read back from a workbook.
type Summary struct {
	Values map[string]float64
	Text   map[string]string
}

// ReadSummary parses the executive summary sheet of a workbook produced
// by WorkbookWriter.
func ReadSummary(data []byte) (Summary, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return Summary{}, eris.Wrap(err, "workbook: open")
	}
	sheet, ok := f.Sheet[SheetSummary]
	if !ok {
		return Summary{}, eris.Errorf("workbook: missing sheet %q", SheetSummary)
	}

	out := Summary{Values: make(map[string]float64), Text: make(map[string]string)}
	for i, row := range sheet.Rows {
		if i == 0 || row == nil || len(row.Cells) < 2 {
			continue
		}
		key := strings.TrimSpace(row.Cells[0].String())
		if key == "" {
			continue
		}
		cell := row.Cells[1]
		if cell.Type() == xlsx.CellTypeNumeric {
			if v, err := cell.Float(); err == nil {
				out.Values[key] = v
				continue
			}
		}
		out.Text[key] = cell.String()
	}
	return out, nil
}

// SheetNames lists a workbook's sheets in order.
func SheetNames(data []byte) ([]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: open")
	}
	names := make([]string, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		names = append(names, s.Name)
	}
	return names, nil
}

func (b *sheetBuilder) sourceData(src *baseline.Source) {
	if len(src.BedDays) > 0 {
		s := b.sheet(SheetSourceBedDays, "Facility", "Annual Bed Days")
		for _, r := range src.BedDays {
			cells(s, r.Facility, r.AnnualBedDays)
		}
	}
	if len(src.HaiRates) > 0 {
		s := b.sheet(SheetSourceHaiRates, "Facility", "HAI Type", "Rolling 12-Month Rate", "Unit")
		for _, r := range src.HaiRates {
			cells(s, r.Facility, r.HaiType, r.Rolling12MoRate, r.UnitOfMeasure)
		}
	}
	if len(src.AntibioticDot) > 0 {
		s := b.sheet(SheetSourceAntibioticDot, "Facility", "Quarter", "Year", "DOT per 1000 Days")
		for _, r := range src.AntibioticDot {
			cells(s, r.Facility, r.Quarter, r.Year, r.DotPer1000Days)
		}
	}
}
