package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
)

// summaryColumns defines the ordered CSV output columns.
var summaryColumns = []string{"Section", "Metric", "Value"}

// CSVWriter renders the summary, per-module lines and projection as flat
// metric/value rows.
type CSVWriter struct{}

// Format implements Writer.
func (CSVWriter) Format() Format { return FormatCSV }

// ContentType implements Writer.
func (CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Write implements Writer.
func (CSVWriter) Write(w io.Writer, p Payload) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(summaryColumns); err != nil {
		return eris.Wrap(err, "csv export: write header")
	}
	for _, row := range buildCSVRows(p) {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "csv export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "csv export: flush")
}

func buildCSVRows(p Payload) [][]string {
	r := p.Data.Result
	rows := [][]string{
		{"Summary", "Product", r.Product.Title()},
		{"Summary", "Organization", r.Organization.Name},
		{"Summary", "Organization Type", r.Organization.Tier.Label()},
		{"Summary", MetricTotalSavings, num(r.TotalSavings)},
		{"Summary", MetricTotalInvestment, num(r.TotalInvestment)},
		{"Summary", MetricROI, num(r.ROIPercentage)},
		{"Summary", MetricPayback, num(r.PaybackMonths)},
		{"Summary", MetricNetBenefit, num(r.NetBenefit())},
	}
	for _, m := range r.Modules {
		section := m.Module.Title()
		for _, it := range m.Itemized {
			rows = append(rows, []string{section, it.Label, num(it.Amount)})
		}
		rows = append(rows, []string{section, "Total Savings", num(m.TotalSavings)})
	}
	for _, y := range p.Data.Projection {
		section := fmt.Sprintf("Year %d", y.Year)
		rows = append(rows,
			[]string{section, "Cost", num(y.Cost)},
			[]string{section, "Savings", num(y.Savings)},
			[]string{section, "Cumulative Net", num(y.CumulativeNet)},
		)
	}
	return rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
