package baseline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitscopic/roi-calculator/internal/validation"
)

// ParseOptions tunes record parsing.
type ParseOptions struct {
	// Facility fills blank facility cells, for single-facility uploads.
	Facility string
}

// Parse converts a table of kind into a Source. Missing required columns
// and malformed cells are reported as *UploadError.
func Parse(kind Kind, file string, t Table, opts ParseOptions) (*Source, error) {
	cols, err := columnIndex(kind, file, t.Header)
	if err != nil {
		return nil, err
	}

	src := &Source{}
	for i, row := range t.Rows {
		// header is line 1
		line := i + 2
		r := rowReader{cols: cols, row: row}
		facility := r.str("facility")
		if facility == "" {
			facility = opts.Facility
		}

		var rec any
		switch kind {
		case KindBedDays:
			b := FacilityBedDays{Facility: facility, AnnualBedDays: r.num("bed_days_annual")}
			src.BedDays = append(src.BedDays, b)
			rec = b
		case KindHaiRates:
			h := HaiRateRecord{
				Facility:        facility,
				HaiType:         strings.ToUpper(r.str("hai_type")),
				Rolling12MoRate: r.num("rolling_12_months_rate"),
				UnitOfMeasure:   r.str("unit_of_measure"),
			}
			src.HaiRates = append(src.HaiRates, h)
			rec = h
		case KindAntibioticDot:
			d := AntibioticDotRecord{
				Facility:       facility,
				Quarter:        strings.ToUpper(r.str("quarter")),
				Year:           int(r.num("year")),
				DotPer1000Days: r.num("dot_per_1000_days"),
			}
			src.AntibioticDot = append(src.AntibioticDot, d)
			rec = d
		default:
			return nil, &UploadError{Kind: kind, File: file, Reason: "record type does not feed calculations"}
		}

		if r.err != nil {
			return nil, &UploadError{Kind: kind, File: file, Row: line, Reason: r.err.Error()}
		}
		if err := validation.Struct(rec); err != nil {
			return nil, &UploadError{Kind: kind, File: file, Row: line, Reason: validation.Summary(err)}
		}
	}
	return src, nil
}

func columnIndex(kind Kind, file string, header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumn(h)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, req := range requiredColumns[kind] {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &UploadError{Kind: kind, File: file, Missing: missing}
	}
	return cols, nil
}

// rowReader pulls named cells from a row, keeping the first parse error.
type rowReader struct {
	cols map[string]int
	row  []string
	err  error
}

func (r *rowReader) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

func (r *rowReader) num(name string) float64 {
	s := strings.ReplaceAll(r.str(name), ",", "")
	if s == "" {
		if r.err == nil {
			r.err = fmt.Errorf("%s is empty", name)
		}
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v
}
