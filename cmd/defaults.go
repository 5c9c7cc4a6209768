package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/model"
)

var (
	defaultsProduct string
	defaultsTier    string
	defaultsOutput  string
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show the default parameters and investment for a product and tier",
	RunE: func(cmd *cobra.Command, _ []string) error {
		product, err := model.ParseProduct(defaultsProduct)
		if err != nil {
			return err
		}
		tier, err := model.ParseSizeTier(defaultsTier)
		if err != nil {
			return err
		}
		catalog, err := cfg.Catalog()
		if err != nil {
			return err
		}
		return writeDefaults(cmd.OutOrStdout(), format.New(cfg.Report.CurrencyLocale), catalog, product, tier, defaultsOutput)
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&defaultsProduct, "product", "praedialert", "product: praedialert or praedigene")
	defaultsCmd.Flags().StringVar(&defaultsTier, "tier", "medium", "size tier: small, medium, large, visn21 or custom")
	defaultsCmd.Flags().StringVar(&defaultsOutput, "format", "table", "output format: table or json")
	rootCmd.AddCommand(defaultsCmd)
}

func writeDefaults(out io.Writer, f *format.Formatter, c defaults.Catalog, product model.Product, tier model.SizeTier, output string) error {
	params, err := c.Parameters(tier, product)
	if err != nil {
		return err
	}
	inv := c.Investment(tier)

	if output == "json" {
		specs := make(map[model.ModuleID][]model.ParameterSpec, len(params))
		for _, id := range params.Modules() {
			specs[id] = params[id].Specs()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"product":    product,
			"size_tier":  tier,
			"investment": inv,
			"parameters": specs,
		})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s defaults for %s\n\n", product.Title(), tier.Label())
	for _, id := range product.Modules() {
		set, ok := params[id]
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\n", id.Title())
		_, _ = fmt.Fprintln(w, "PARAMETER\tDEFAULT\tMIN\tMAX\tIMPACT")
		for _, s := range set.Specs() {
			_, _ = fmt.Fprintf(w, "%s.%s\t%s\t%s\t%s\t%s\n",
				id, s.Name,
				f.Value(set.Get(s.Name), s.Unit),
				f.Value(s.Min, s.Unit),
				f.Value(s.Max, s.Unit),
				s.Impact,
			)
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w, "INVESTMENT\tAMOUNT")
	_, _ = fmt.Fprintf(w, "Implementation\t%s\n", f.Currency(inv.Implementation))
	_, _ = fmt.Fprintf(w, "Annual maintenance\t%s\n", f.Currency(inv.Maintenance))
	_, _ = fmt.Fprintf(w, "Staff training\t%s\n", f.Currency(inv.Training))
	_, _ = fmt.Fprintf(w, "Total\t%s\n", f.Currency(inv.Total()))
	return w.Flush()
}
