package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitscopic/roi-calculator/internal/baseline"
)

var (
	uploadFile     string
	uploadKind     string
	uploadFacility string
)

var validateUploadCmd = &cobra.Command{
	Use:   "validate-upload",
	Short: "Check a baseline CSV/XLSX upload without running calculations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var kind baseline.Kind
		if uploadKind != "" {
			k, err := baseline.ParseKind(uploadKind)
			if err != nil {
				return err
			}
			kind = k
		}

		src, kind, err := baseline.LoadUploadFile(uploadFile, kind, baseline.ParseOptions{Facility: uploadFacility})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s: valid %s upload\n", uploadFile, kind.Label())
		_, _ = fmt.Fprintf(out, "records: %d\n", len(src.BedDays)+len(src.HaiRates)+len(src.AntibioticDot))
		_, _ = fmt.Fprintf(out, "facilities: %s\n", strings.Join(src.Facilities(), ", "))
		if types := src.HaiTypes(); len(types) > 0 {
			_, _ = fmt.Fprintf(out, "hai types: %s\n", strings.Join(types, ", "))
		}
		return nil
	},
}

func init() {
	validateUploadCmd.Flags().StringVar(&uploadFile, "file", "", "upload file to check")
	validateUploadCmd.Flags().StringVar(&uploadKind, "kind", "", "upload kind (detected from the header when omitted)")
	validateUploadCmd.Flags().StringVar(&uploadFacility, "facility", "", "facility name for rows without one")
	_ = validateUploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateUploadCmd)
}
