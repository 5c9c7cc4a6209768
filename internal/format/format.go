// Package format renders monetary and percentage values for reports.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bitscopic/roi-calculator/internal/model"
)

// Formatter prints numbers with locale grouping.
type Formatter struct {
	tag language.Tag
}

// New returns a Formatter for the BCP 47 locale. Unparseable locales fall
// back to American English.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.AmericanEnglish
	}
	return &Formatter{tag: tag}
}

// Default returns the en-US formatter.
func Default() *Formatter {
	return &Formatter{tag: language.AmericanEnglish}
}

func (f *Formatter) printer() *message.Printer {
	return message.NewPrinter(f.tag)
}

// Currency formats v as whole dollars, e.g. "$1,234,567" or "-$5,000".
func (f *Formatter) Currency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return f.printer().Sprintf("-$%d", -n)
	}
	return f.printer().Sprintf("$%d", n)
}

// Integer formats v rounded to a whole number with grouping.
func (f *Formatter) Integer(v float64) string {
	return f.printer().Sprintf("%d", int64(math.Round(v)))
}

// Number formats v with the given number of decimals.
func (f *Formatter) Number(v float64, decimals int) string {
	if decimals <= 0 {
		return f.Integer(v)
	}
	return f.printer().Sprintf("%."+strconv.Itoa(decimals)+"f", v)
}

// Percent formats an already-scaled percentage with one decimal.
func (f *Formatter) Percent(v float64) string {
	return f.Number(v, 1) + "%"
}

// Months formats a payback period. The sentinel prints as "n/a".
func (f *Formatter) Months(v float64) string {
	if v >= model.PaybackSentinel || math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return f.Number(v, 1) + " months"
}

// Value formats v according to its unit.
func (f *Formatter) Value(v float64, unit model.Unit) string {
	switch unit {
	case model.UnitCurrency:
		return f.Currency(v)
	case model.UnitPercent:
		return f.Percent(v)
	case model.UnitRatio, model.UnitRate:
		return f.Number(v, 2)
	case model.UnitHours, model.UnitDays:
		return f.Number(v, 1)
	default:
		if v == math.Trunc(v) {
			return f.Integer(v)
		}
		return f.Number(v, 1)
	}
}
