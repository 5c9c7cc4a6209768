package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bitscopic/roi-calculator/internal/format"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/validation"
)

var (
	sensFlags  requestFlags
	sensVars   string
	sensOutput string
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Run pessimistic/base/optimistic scenarios over key inputs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		req, err := sensFlags.request()
		if err != nil {
			return err
		}
		req.Baseline, req.Notices = env.loadBaseline(sensFlags.baselineDir)
		req.Sensitivity = true
		if sensVars != "" {
			if req.Variables, err = loadVariables(sensVars); err != nil {
				return err
			}
		}

		out, err := env.Generator.Compute(req)
		if err != nil {
			return eris.Wrap(err, "sensitivity")
		}
		if sensOutput == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sensitivityOutput{Scenarios: out.Sensitivity, Notices: out.Notices})
		}
		if err := formatScenarios(cmd.OutOrStdout(), env.Formatter, out.Sensitivity); err != nil {
			return err
		}
		writeNotices(cmd.OutOrStdout(), out.Notices)
		return nil
	},
}

func init() {
	sensFlags.register(sensitivityCmd)
	sensitivityCmd.Flags().StringVar(&sensVars, "vars", "", "YAML file of variables (default: high-impact parameters and investment)")
	sensitivityCmd.Flags().StringVar(&sensOutput, "format", "table", "output format: table or json")
	rootCmd.AddCommand(sensitivityCmd)
}

type sensitivityOutput struct {
	Scenarios []model.SensitivityScenario `json:"scenarios"`
	Notices   []string                    `json:"notices,omitempty"`
}

type variablesFile struct {
	Variables []model.SensitivityVariable `yaml:"variables"`
}

// loadVariables reads a sensitivity variable file.
func loadVariables(path string) ([]model.SensitivityVariable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read variables %s", path)
	}
	var f variablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "parse variables %s", path)
	}
	if len(f.Variables) == 0 {
		return nil, eris.Errorf("variables %s: no variables defined", path)
	}
	for i, v := range f.Variables {
		if err := validation.Struct(v); err != nil {
			return nil, eris.Errorf("variables %s: entry %d: %s", path, i+1, validation.Summary(err))
		}
	}
	return f.Variables, nil
}

// formatScenarios writes one row per variable, most sensitive first.
func formatScenarios(out io.Writer, f *format.Formatter, scenarios []model.SensitivityScenario) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VARIABLE\tPESSIMISTIC ROI\tBASE ROI\tOPTIMISTIC ROI\tSWING")
	_, _ = fmt.Fprintln(w, "--------\t---------------\t--------\t--------------\t-----")
	for _, s := range scenarios {
		label := s.Variable.Label
		if label == "" {
			label = s.Variable.Name
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			label,
			f.Percent(s.Pessimistic.ROIPercentage),
			f.Percent(s.Base.ROIPercentage),
			f.Percent(s.Optimistic.ROIPercentage),
			f.Percent(s.Swing),
		)
	}
	return w.Flush()
}
