package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitscopic/roi-calculator/internal/model"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	f := Default()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{860000, "$860,000"},
		{1234567.6, "$1,234,568"},
		{-5000, "-$5,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Currency(tt.in))
	}
}

func TestPercentAndMonths(t *testing.T) {
	t.Parallel()

	f := Default()
	assert.Equal(t, "154.6%", f.Percent(154.64))
	assert.Equal(t, "-100.0%", f.Percent(-100))
	assert.Equal(t, "6.0 months", f.Months(6))
	assert.Equal(t, "n/a", f.Months(model.PaybackSentinel))
}

func TestValue(t *testing.T) {
	t.Parallel()

	f := Default()
	assert.Equal(t, "$45,000", f.Value(45000, model.UnitCurrency))
	assert.Equal(t, "43.6%", f.Value(43.6, model.UnitPercent))
	assert.Equal(t, "12,000", f.Value(12000, model.UnitCount))
	assert.Equal(t, "0.12", f.Value(0.12, model.UnitRatio))
	assert.Equal(t, "3.5", f.Value(3.5, model.UnitHours))
}

func TestNew_BadLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$1,000", New("not a locale!").Currency(1000))
	assert.Equal(t, "$1,000", New("").Currency(1000))
}
