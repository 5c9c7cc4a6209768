package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/export"
)

var (
	reportFlags       requestFlags
	reportOut         string
	reportVars        string
	reportSensitivity bool
	reportStudy       bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compile and export a full ROI report",
	Long:  "Computes results, compiles the report document and exports it. The format follows the --out extension: .xlsx, .md, .html or .csv.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		req, err := reportFlags.request()
		if err != nil {
			return err
		}
		if req.Format, err = export.FormatFromPath(reportOut); err != nil {
			return err
		}
		req.Baseline, req.Notices = env.loadBaseline(reportFlags.baselineDir)
		req.Sensitivity = reportSensitivity
		if reportVars != "" {
			if req.Variables, err = loadVariables(reportVars); err != nil {
				return err
			}
		}
		req.IncludeStudy = cfg.Report.IncludeStudy
		if cmd.Flags().Changed("study") {
			req.IncludeStudy = reportStudy
		}

		out, err := env.Generator.Generate(cmd.Context(), req)
		if err != nil {
			return eris.Wrap(err, "report")
		}
		if err := export.WriteFile(reportOut, out.Format, out.Data); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("path", reportOut),
			zap.String("title", out.Document.Title),
			zap.Int("sections", len(out.Document.Sections)),
		)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), reportOut)
		return nil
	},
}

func init() {
	reportFlags.register(reportCmd)
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (.xlsx, .md, .html, .csv)")
	reportCmd.Flags().StringVar(&reportVars, "sensitivity", "", "YAML file of sensitivity variables")
	reportCmd.Flags().BoolVar(&reportSensitivity, "with-sensitivity", false, "include the default sensitivity analysis")
	reportCmd.Flags().BoolVar(&reportStudy, "study", true, "include the reference study (PraediAlert only; default from config)")
	_ = reportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(reportCmd)
}
