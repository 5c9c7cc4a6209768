package roi

import (
	"math"

	"github.com/bitscopic/roi-calculator/internal/model"
)

const defaultHorizon = 5

type projectionOptions struct {
	horizon  int
	maturity []float64
}

// ProjectionOption tunes Project.
type ProjectionOption func(*projectionOptions)

// WithHorizon sets the number of projected years.
func WithHorizon(years int) ProjectionOption {
	return func(o *projectionOptions) {
		if years > 0 {
			o.horizon = years
		}
	}
}

// WithMaturity sets the per-year savings multipliers. Years beyond the
// table reuse its last entry.
func WithMaturity(curve []float64) ProjectionOption {
	return func(o *projectionOptions) {
		if len(curve) > 0 {
			o.maturity = append([]float64(nil), curve...)
		}
	}
}

// Project forecasts cost, savings and ROI per year. Year 1 carries the
// implementation cost plus one year of operating cost; later years carry
// only operating cost. Savings are truncated to whole dollars and ROI
// fields to whole percentages.
func Project(baseAnnualSavings, implementationCost, annualOperatingCost float64, opts ...ProjectionOption) []model.YearProjection {
	o := projectionOptions{
		horizon:  defaultHorizon,
		maturity: []float64{1.00, 1.05, 1.10, 1.12, 1.15},
	}
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]model.YearProjection, 0, o.horizon)
	var cumCost, cumSavings float64
	for year := 1; year <= o.horizon; year++ {
		mult := o.maturity[len(o.maturity)-1]
		if year <= len(o.maturity) {
			mult = o.maturity[year-1]
		}

		cost := annualOperatingCost
		if year == 1 {
			cost += implementationCost
		}
		savings := math.Trunc(baseAnnualSavings * mult)
		cumCost += cost
		cumSavings += savings

		out = append(out, model.YearProjection{
			Year:              year,
			Cost:              cost,
			Savings:           savings,
			NetBenefit:        savings - cost,
			ROIPercent:        truncPercent(savings-cost, cost),
			CumulativeCost:    cumCost,
			CumulativeSavings: cumSavings,
			CumulativeNet:     cumSavings - cumCost,
			CumulativeROI:     truncPercent(cumSavings-cumCost, cumCost),
		})
	}
	return out
}

// ProjectAggregate projects an aggregate, treating implementation and
// training as one-time costs and maintenance as the operating cost, so
// year 1 costs exactly agg.TotalInvestment.
func ProjectAggregate(agg model.AggregateResult, opts ...ProjectionOption) []model.YearProjection {
	inv := agg.Organization.Investment
	return Project(agg.TotalSavings, inv.OneTime(), inv.Maintenance, opts...)
}

// BreakEvenYear returns the first year whose cumulative net is not
// negative, or 0 if none is.
func BreakEvenYear(years []model.YearProjection) int {
	for _, y := range years {
		if y.CumulativeNet >= 0 {
			return y.Year
		}
	}
	return 0
}
