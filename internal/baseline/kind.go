package baseline

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Kind identifies an upload's record type.
type Kind string

const (
	KindBedDays       Kind = "bed_days"
	KindHaiRates      Kind = "hai_rates"
	KindAntibioticDot Kind = "antibiotic_dot"
	KindGeneticTests  Kind = "genetic_tests"
	KindGeneric       Kind = "generic"
)

// Kinds lists the record types that feed calculations.
var Kinds = []Kind{KindBedDays, KindHaiRates, KindAntibioticDot}

var requiredColumns = map[Kind][]string{
	KindBedDays:       {"facility", "bed_days_annual"},
	KindHaiRates:      {"facility", "hai_type", "rolling_12_months_rate", "unit_of_measure"},
	KindAntibioticDot: {"facility", "quarter", "year", "dot_per_1000_days"},
	KindGeneticTests:  {"test_type", "annual_volume", "in_house_cost", "outsource_cost"},
}

// ParseKind accepts canonical kind names and the "patient_days" alias.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBedDays, KindHaiRates, KindAntibioticDot, KindGeneticTests:
		return k, nil
	case "patient_days", "bed_days_annual":
		return KindBedDays, nil
	case "hai", "hai_rate":
		return KindHaiRates, nil
	case "dot", "antibiotic":
		return KindAntibioticDot, nil
	}
	return "", eris.Errorf("baseline: unknown upload kind %q", s)
}

// RequiredColumns returns the columns an upload of kind must carry.
func RequiredColumns(k Kind) []string {
	return append([]string(nil), requiredColumns[k]...)
}

// Label returns a display name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindBedDays:
		return "Patient Bed Days"
	case KindHaiRates:
		return "HAI Rates"
	case KindAntibioticDot:
		return "Antibiotic DOT"
	case KindGeneticTests:
		return "Genetic Tests"
	}
	return "Generic Data"
}

// DetectKind guesses the record type from a header row.
func DetectKind(header []string) Kind {
	cols := make(map[string]struct{}, len(header))
	for _, h := range header {
		cols[normalizeColumn(h)] = struct{}{}
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := cols[n]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case has("hai_type", "infection_rate"):
		return KindHaiRates
	case has("dot_per_1000_days", "antibiotic"):
		return KindAntibioticDot
	case has("bed_days", "bed_days_annual", "patient_days"):
		return KindBedDays
	case has("test_volume", "sample_id", "test_type"):
		return KindGeneticTests
	}
	return KindGeneric
}

func normalizeColumn(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}
