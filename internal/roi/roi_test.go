package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/calculator"
	"github.com/bitscopic/roi-calculator/internal/defaults"
	"github.com/bitscopic/roi-calculator/internal/model"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		savings     []float64
		investment  model.Investment
		wantROI     float64
		wantPayback float64
	}{
		{
			name:        "zero savings",
			savings:     []float64{0, 0},
			investment:  model.Investment{Implementation: 50000, Maintenance: 10000, Training: 5000},
			wantROI:     -100,
			wantPayback: model.PaybackSentinel,
		},
		{
			name:        "zero investment",
			savings:     []float64{1000},
			investment:  model.Investment{},
			wantROI:     0,
			wantPayback: 0,
		},
		{
			name:        "break even in six months",
			savings:     []float64{100000, 30000},
			investment:  model.Investment{Implementation: 50000, Maintenance: 10000, Training: 5000},
			wantROI:     100,
			wantPayback: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var results []model.ModuleResult
			for _, s := range tt.savings {
				results = append(results, model.ModuleResult{TotalSavings: s})
			}
			org := model.OrganizationProfile{Tier: model.TierCustom, Investment: tt.investment}

			agg := Aggregate(model.ProductPraediAlert, results, org)
			assert.InDelta(t, tt.wantROI, agg.ROIPercentage, 0.0001)
			assert.InDelta(t, tt.wantPayback, agg.PaybackMonths, 0.0001)
			assert.InDelta(t, tt.investment.Total(), agg.TotalInvestment, 0.0001)
			assert.Len(t, agg.Modules, len(tt.savings))
		})
	}
}

func TestAggregateSumsModules(t *testing.T) {
	t.Parallel()
	results := []model.ModuleResult{{TotalSavings: 860000}, {TotalSavings: 1281000}, {TotalSavings: 21450}}
	agg := Aggregate(model.ProductPraediAlert, results, defaults.Standard().Organization(model.TierMedium, "Test"))
	assert.InDelta(t, 2162450, agg.TotalSavings, 0)
	assert.InDelta(t, 65000, agg.TotalInvestment, 0)
	assert.True(t, agg.PaybackKnown())
}

func TestProjectYearOne(t *testing.T) {
	t.Parallel()
	years := Project(1000000, 165000, 70000)
	require.Len(t, years, 5)

	y1 := years[0]
	assert.Equal(t, 1, y1.Year)
	assert.InDelta(t, 235000, y1.Cost, 0)
	assert.InDelta(t, 1000000, y1.Savings, 0)
	assert.InDelta(t, 765000, y1.NetBenefit, 0)
	assert.InDelta(t, 325, y1.ROIPercent, 0)
	assert.InDelta(t, 325, y1.CumulativeROI, 0)
}

func TestProjectInvariants(t *testing.T) {
	t.Parallel()
	impl, op := 165000.0, 70000.0
	years := Project(1000000, impl, op)

	wantSavings := []float64{1000000, 1050000, 1100000, 1120000, 1150000}
	var cumCost, cumSavings float64
	for i, y := range years {
		assert.Equal(t, i+1, y.Year)
		if i == 0 {
			assert.InDelta(t, impl+op, y.Cost, 0)
		} else {
			assert.InDelta(t, op, y.Cost, 0, "implementation only in year 1")
		}
		assert.InDelta(t, wantSavings[i], y.Savings, 0)
		cumCost += y.Cost
		cumSavings += y.Savings
		assert.InDelta(t, cumCost, y.CumulativeCost, 0)
		assert.InDelta(t, cumSavings, y.CumulativeSavings, 0)
		assert.InDelta(t, cumSavings-cumCost, y.CumulativeNet, 0)
	}
	assert.InDelta(t, 5420000-515000, years[4].CumulativeNet, 0)
	assert.Equal(t, 1, BreakEvenYear(years))
}

func TestProjectOptions(t *testing.T) {
	t.Parallel()
	years := Project(1000, 0, 0, WithHorizon(7), WithMaturity([]float64{1, 2}))
	require.Len(t, years, 7)
	assert.InDelta(t, 2000, years[6].Savings, 0, "last multiplier reused")
	assert.Zero(t, years[0].ROIPercent, "zero cost guarded")
	assert.Zero(t, years[0].CumulativeROI)

	years = Project(100.9, 5000, 0, WithHorizon(0), WithMaturity(nil))
	require.Len(t, years, 5)
	assert.InDelta(t, 100, years[0].Savings, 0, "truncated to whole dollars")
	assert.Equal(t, 0, BreakEvenYear(years))
}

func TestProjectAggregate(t *testing.T) {
	t.Parallel()
	inv := model.Investment{Implementation: 50000, Maintenance: 10000, Training: 5000}
	agg := model.AggregateResult{
		TotalSavings:    500000,
		TotalInvestment: inv.Total(),
		Organization:    model.OrganizationProfile{Investment: inv},
	}
	years := ProjectAggregate(agg)
	assert.Equal(t, agg.TotalInvestment, years[0].Cost)
	assert.InDelta(t, 65000, years[0].Cost, 0)
	for _, y := range years[1:] {
		assert.InDelta(t, 10000, y.Cost, 0)
	}
}

func analyzerInputs(t *testing.T, product model.Product) (*Analyzer, Inputs) {
	t.Helper()
	cat := defaults.Standard()
	calcs, err := calculator.ForProduct(product, cat.Assumptions)
	require.NoError(t, err)
	params, err := cat.Parameters(model.TierMedium, product)
	require.NoError(t, err)
	return NewAnalyzer(calcs), Inputs{
		Product:      product,
		Organization: cat.Organization(model.TierMedium, "Test"),
		Parameters:   params,
	}
}

func TestAnalyzeBaseEqualsDirect(t *testing.T) {
	t.Parallel()
	for _, product := range []model.Product{model.ProductPraediAlert, model.ProductPraediGene} {
		an, in := analyzerInputs(t, product)

		direct, err := an.Evaluate(in)
		require.NoError(t, err)

		scenarios, err := an.Analyze(in, DefaultVariables(in))
		require.NoError(t, err)
		require.NotEmpty(t, scenarios)
		for _, sc := range scenarios {
			assert.Equal(t, direct.ROIPercentage, sc.Base.ROIPercentage, sc.Variable.Name)
			assert.Equal(t, direct.TotalSavings, sc.Base.TotalSavings, sc.Variable.Name)
		}
	}
}

func TestAnalyzeOrdersBySwing(t *testing.T) {
	t.Parallel()
	an, in := analyzerInputs(t, model.ProductPraediAlert)

	vars := []model.SensitivityVariable{
		{Name: "regulatory_reporting.hourly_cost", Pessimistic: 30, Base: 45, Optimistic: 100},
		{Name: "ipc_surveillance.reduction_rate", Pessimistic: 30, Base: 43.6, Optimistic: 50},
		{Name: "investment.implementation", Pessimistic: 60000, Base: 50000, Optimistic: 40000},
	}
	scenarios, err := an.Analyze(in, vars)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	for i := 1; i < len(scenarios); i++ {
		assert.GreaterOrEqual(t, abs(scenarios[i-1].Swing), abs(scenarios[i].Swing))
	}
	assert.Equal(t, "investment.implementation", scenarios[0].Variable.Name)
	assert.Equal(t, "ipc_surveillance.reduction_rate", scenarios[1].Variable.Name)
	assert.Equal(t, "regulatory_reporting.hourly_cost", scenarios[2].Variable.Name)

	for _, sc := range scenarios {
		assert.Greater(t, sc.Optimistic.ROIPercentage, sc.Pessimistic.ROIPercentage, sc.Variable.Name)
	}
}

func TestAnalyzeInvestmentVariable(t *testing.T) {
	t.Parallel()
	an, in := analyzerInputs(t, model.ProductPraediAlert)

	scenarios, err := an.Analyze(in, []model.SensitivityVariable{
		{Name: "investment.maintenance", Pessimistic: 20000, Base: 10000, Optimistic: 0},
	})
	require.NoError(t, err)
	sc := scenarios[0]
	assert.Equal(t, sc.Base.TotalSavings, sc.Pessimistic.TotalSavings, "savings unaffected by cost")
	assert.InDelta(t, ROIPercent(sc.Base.TotalSavings, 75000), sc.Pessimistic.ROIPercentage, 0.0001)
}

func TestAnalyzeRejectsBadVariables(t *testing.T) {
	t.Parallel()
	an, in := analyzerInputs(t, model.ProductPraediAlert)

	for _, name := range []string{"reduction_rate", "investment.bonus", "pgx.adr_cost", "ipc_surveillance.nope", "radiology.x"} {
		_, err := an.Analyze(in, []model.SensitivityVariable{{Name: name}})
		assert.Error(t, err, name)
	}
}

func TestDefaultVariables(t *testing.T) {
	t.Parallel()
	_, in := analyzerInputs(t, model.ProductPraediAlert)
	vars := DefaultVariables(in)

	byName := make(map[string]model.SensitivityVariable)
	for _, v := range vars {
		byName[v.Name] = v
	}
	red := byName["ipc_surveillance.reduction_rate"]
	assert.InDelta(t, 30, red.Pessimistic, 0)
	assert.InDelta(t, 43.6, red.Base, 0.0001)
	assert.InDelta(t, 50, red.Optimistic, 0)

	impl := byName["investment.implementation"]
	assert.Greater(t, impl.Pessimistic, impl.Optimistic)
	_, ok := byName["ipc_surveillance.cost_per_hai"]
	assert.True(t, ok)
}

func TestCompareContract(t *testing.T) {
	t.Parallel()
	q := defaults.VISN21Contract()
	years := Project(2000000, 0, 0)

	cmp := CompareContract(q, years)
	require.Len(t, cmp.Years, 5)
	assert.InDelta(t, 7252333, cmp.TotalCost, 0)
	assert.InDelta(t, 10840000, cmp.TotalSavings, 0)
	assert.InDelta(t, 2000000-1435000, cmp.Years[0].Net, 0)
	assert.InDelta(t, cmp.NetBenefit, cmp.Years[4].CumulativeNet, 0.001)
	assert.InDelta(t, ROIPercent(10840000, 7252333), cmp.ROIPercent, 0.0001)
	assert.InDelta(t, 7252333.0/5/7, cmp.CostPerHospital, 0.001)

	short := CompareContract(q, years[:2])
	assert.Zero(t, short.Years[4].Savings)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
