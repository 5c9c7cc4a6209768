package main

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/export"
)

var (
	templateKind string
	templateOut  string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an example upload file for a baseline data kind",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := baseline.ParseKind(templateKind)
		if err != nil {
			return err
		}
		if templateOut == "" {
			return baseline.WriteTemplate(cmd.OutOrStdout(), kind)
		}
		var buf bytes.Buffer
		if err := baseline.WriteTemplate(&buf, kind); err != nil {
			return err
		}
		return export.WriteFile(templateOut, export.FormatCSV, buf.Bytes())
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateKind, "kind", "hai_rates", "upload kind: bed_days, hai_rates, antibiotic_dot or genetic_tests")
	templateCmd.Flags().StringVar(&templateOut, "out", "", "output CSV file (default stdout)")
	rootCmd.AddCommand(templateCmd)
}
