package baseline

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

var templates = map[Kind][][]string{
	KindHaiRates: {
		{"Hospital A", "CLABSI", "0.5", "per 1000 central line days"},
		{"Hospital B", "CLABSI", "0.8", "per 1000 central line days"},
	},
	KindAntibioticDot: {
		{"Hospital A", "Q1", "2024", "350.5"},
		{"Hospital B", "Q1", "2024", "425.3"},
	},
	KindBedDays: {
		{"Hospital A", "50000"},
		{"Hospital B", "75000"},
	},
	KindGeneticTests: {
		{"PGx", "1000", "200", "350"},
		{"TSO500", "200", "1500", "1800"},
		{"BIAS2015", "500", "1000", "1200"},
	},
}

// Template returns the header and example rows for an upload kind.
func Template(kind Kind) (Table, error) {
	rows, ok := templates[kind]
	if !ok {
		return Table{}, eris.Errorf("baseline: no template for %q", kind)
	}
	out := Table{Header: RequiredColumns(kind)}
	for _, r := range rows {
		out.Rows = append(out.Rows, append([]string(nil), r...))
	}
	return out, nil
}

// WriteTemplate writes the template for kind as CSV.
func WriteTemplate(w io.Writer, kind Kind) error {
	t, err := Template(kind)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return eris.Wrap(err, "baseline: write template header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return eris.Wrap(err, "baseline: write template rows")
	}
	return nil
}
