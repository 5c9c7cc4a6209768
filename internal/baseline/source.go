// Package baseline loads facility-reported data (bed days, HAI rates,
// antibiotic days of therapy) that replaces tier defaults when present.
package baseline

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bitscopic/roi-calculator/internal/validation"
)

// FacilityBedDays is one facility's annual bed days.
type FacilityBedDays struct {
	Facility      string  `json:"facility" validate:"required"`
	AnnualBedDays float64 `json:"bed_days_annual" validate:"gte=0"`
}

// HaiRateRecord is a rolling 12-month HAI rate for one facility and type.
type HaiRateRecord struct {
	Facility        string  `json:"facility" validate:"required"`
	HaiType         string  `json:"hai_type" validate:"required"`
	Rolling12MoRate float64 `json:"rolling_12_months_rate" validate:"gte=0"`
	UnitOfMeasure   string  `json:"unit_of_measure"`
}

// AntibioticDotRecord is a quarterly antibiotic days-of-therapy figure.
type AntibioticDotRecord struct {
	Facility       string  `json:"facility" validate:"required"`
	Quarter        string  `json:"quarter" validate:"required"`
	Year           int     `json:"year" validate:"gte=1900,lte=2100"`
	DotPer1000Days float64 `json:"dot_per_1000_days" validate:"gte=0"`
}

// Source is the parsed baseline data. A nil *Source means defaults only.
type Source struct {
	BedDays       []FacilityBedDays     `json:"bed_days,omitempty" validate:"dive"`
	HaiRates      []HaiRateRecord       `json:"hai_rates,omitempty" validate:"dive"`
	AntibioticDot []AntibioticDotRecord `json:"antibiotic_dot,omitempty" validate:"dive"`
}

// Validate checks every record. Sources built by Parse already pass.
func (s *Source) Validate() error {
	if s == nil {
		return nil
	}
	if err := validation.Struct(s); err != nil {
		return eris.Wrapf(err, "baseline: invalid records: %s", validation.Summary(err))
	}
	return nil
}

// Empty reports whether the source has no records at all.
func (s *Source) Empty() bool {
	return s == nil || (len(s.BedDays) == 0 && len(s.HaiRates) == 0 && len(s.AntibioticDot) == 0)
}

// TotalBedDays sums annual bed days across facilities.
func (s *Source) TotalBedDays() (float64, bool) {
	if s == nil || len(s.BedDays) == 0 {
		return 0, false
	}
	var total float64
	for _, b := range s.BedDays {
		total += b.AnnualBedDays
	}
	return total, true
}

// MeanHaiRate averages the rolling rate of records matching haiType
// (case-insensitive). When no record matches, all records are averaged.
func (s *Source) MeanHaiRate(haiType string) (float64, bool) {
	if s == nil || len(s.HaiRates) == 0 {
		return 0, false
	}
	var sum float64
	var n int
	for _, r := range s.HaiRates {
		if strings.EqualFold(r.HaiType, haiType) {
			sum += r.Rolling12MoRate
			n++
		}
	}
	if n == 0 {
		for _, r := range s.HaiRates {
			sum += r.Rolling12MoRate
		}
		n = len(s.HaiRates)
	}
	return sum / float64(n), true
}

// MeanDotPer1000 averages days of therapy per 1,000 patient days.
func (s *Source) MeanDotPer1000() (float64, bool) {
	if s == nil || len(s.AntibioticDot) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range s.AntibioticDot {
		sum += r.DotPer1000Days
	}
	return sum / float64(len(s.AntibioticDot)), true
}

// Facilities returns the distinct facility names across all records.
func (s *Source) Facilities() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, b := range s.BedDays {
		seen[b.Facility] = struct{}{}
	}
	for _, r := range s.HaiRates {
		seen[r.Facility] = struct{}{}
	}
	for _, r := range s.AntibioticDot {
		seen[r.Facility] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// HaiTypes returns the distinct HAI types in upload order.
func (s *Source) HaiTypes() []string {
	if s == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, r := range s.HaiRates {
		if _, ok := seen[r.HaiType]; ok {
			continue
		}
		seen[r.HaiType] = struct{}{}
		out = append(out, r.HaiType)
	}
	return out
}

// Merge concatenates sources, skipping nils. It returns nil when every
// input is empty.
func Merge(sources ...*Source) *Source {
	out := &Source{}
	for _, s := range sources {
		if s == nil {
			continue
		}
		out.BedDays = append(out.BedDays, s.BedDays...)
		out.HaiRates = append(out.HaiRates, s.HaiRates...)
		out.AntibioticDot = append(out.AntibioticDot, s.AntibioticDot...)
	}
	if out.Empty() {
		return nil
	}
	return out
}

// MergeFacilities stamps each source's records with its facility key and
// merges them in facility-name order.
func MergeFacilities(byFacility map[string]*Source) *Source {
	names := make([]string, 0, len(byFacility))
	for name := range byFacility {
		names = append(names, name)
	}
	sort.Strings(names)

	stamped := make([]*Source, 0, len(names))
	for _, name := range names {
		src := byFacility[name]
		if src == nil {
			continue
		}
		cp := &Source{
			BedDays:       append([]FacilityBedDays(nil), src.BedDays...),
			HaiRates:      append([]HaiRateRecord(nil), src.HaiRates...),
			AntibioticDot: append([]AntibioticDotRecord(nil), src.AntibioticDot...),
		}
		for i := range cp.BedDays {
			cp.BedDays[i].Facility = name
		}
		for i := range cp.HaiRates {
			cp.HaiRates[i].Facility = name
		}
		for i := range cp.AntibioticDot {
			cp.AntibioticDot[i].Facility = name
		}
		stamped = append(stamped, cp)
	}
	return Merge(stamped...)
}
