package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
)

var (
	calcFlags  requestFlags
	calcOutput string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute module and aggregate ROI with a multi-year projection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		req, err := calcFlags.request()
		if err != nil {
			return err
		}
		req.Baseline, req.Notices = env.loadBaseline(calcFlags.baselineDir)

		out, err := env.Generator.Compute(req)
		if err != nil {
			return eris.Wrap(err, "calculate")
		}
		return writeCalculation(cmd.OutOrStdout(), env.Formatter, out, calcOutput)
	},
}

func init() {
	calcFlags.register(calculateCmd)
	calculateCmd.Flags().StringVar(&calcOutput, "format", "table", "output format: table or json")
	rootCmd.AddCommand(calculateCmd)
}

// writeCalculation prints a computed result as JSON or tables.
func writeCalculation(out io.Writer, f *format.Formatter, res *pipeline.Output, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "table", "":
	default:
		return eris.Errorf("calculate: unknown output format %q", output)
	}

	agg := res.Result
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s ROI (%s)\n\n", agg.Product.Title(), agg.Organization.Tier.Label())
	_, _ = fmt.Fprintln(w, "MODULE\tANNUAL SAVINGS\tSHARE\tROI")
	_, _ = fmt.Fprintln(w, "------\t--------------\t-----\t---")
	for _, m := range agg.Modules {
		var share float64
		if agg.TotalSavings != 0 {
			share = m.TotalSavings / agg.TotalSavings * 100
		}
		roi := "-"
		if m.ROIPercent != nil {
			roi = f.Percent(*m.ROIPercent)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Module.Title(), f.Currency(m.TotalSavings), f.Percent(share), roi)
	}
	_, _ = fmt.Fprintf(w, "TOTAL\t%s\t\t%s\n", f.Currency(agg.TotalSavings), f.Percent(agg.ROIPercentage))
	_, _ = fmt.Fprintf(w, "Investment\t%s\n", f.Currency(agg.TotalInvestment))
	_, _ = fmt.Fprintf(w, "Payback\t%s\n", f.Months(agg.PaybackMonths))

	if len(res.Projection) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "YEAR\tCOST\tSAVINGS\tNET\tCUMULATIVE ROI")
		_, _ = fmt.Fprintln(w, "----\t----\t-------\t---\t--------------")
		for _, y := range res.Projection {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				y.Year,
				f.Currency(y.Cost),
				f.Currency(y.Savings),
				f.Currency(y.NetBenefit),
				f.Percent(y.CumulativeROI),
			)
		}
	}

	if c := res.Contract; c != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s CONTRACT (%d hospitals)\tCOST\tSAVINGS\tNET\n", c.Network, c.Hospitals)
		for _, y := range c.Years {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", y.Label, f.Currency(y.Cost), f.Currency(y.Savings), f.Currency(y.Net))
		}
		_, _ = fmt.Fprintf(w, "Total (ROI %s)\t%s\t%s\t%s\n", f.Percent(c.ROIPercent), f.Currency(c.TotalCost), f.Currency(c.TotalSavings), f.Currency(c.NetBenefit))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	writeNotices(out, res.Notices)
	return nil
}

// writeNotices prints baseline notices after a table.
func writeNotices(out io.Writer, notices []string) {
	if len(notices) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "NOTICES")
	for _, n := range notices {
		_, _ = fmt.Fprintf(out, "- %s\n", n)
	}
}
