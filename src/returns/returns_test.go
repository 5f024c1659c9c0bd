package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

func barsFromCloses(closes ...*float64) []datamodels.PriceBar {
	start := datamodels.NewDate(2024, 1, 1)
	bars := make([]datamodels.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = datamodels.PriceBar{Date: start.AddDays(i), Close: c}
	}
	return bars
}

func closes(values ...float64) []datamodels.PriceBar {
	ptrs := make([]*float64, len(values))
	for i, v := range values {
		ptrs[i] = datamodels.Float(v)
	}
	return barsFromCloses(ptrs...)
}

func TestDailyReturns(t *testing.T) {
	rows := DailyReturns(closes(100, 101, 102.01, 100.98, 103.03))

	require.Len(t, rows, 5)
	assert.Nil(t, rows[0].DailyReturn)
	expected := []float64{0.01, 0.01, -0.0101, 0.0203}
	for i, want := range expected {
		require.NotNil(t, rows[i+1].DailyReturn)
		assert.InDelta(t, want, *rows[i+1].DailyReturn, 1e-4)
	}
	assert.Equal(t, datamodels.NewDate(2024, 1, 3), rows[2].Date)
}

func TestDailyReturnsMissingAndZeroCloses(t *testing.T) {
	f := datamodels.Float
	rows := DailyReturns(barsFromCloses(f(100), nil, f(110), f(0), f(5)))

	require.Len(t, rows, 5)
	assert.Nil(t, rows[1].DailyReturn)
	assert.Nil(t, rows[2].DailyReturn)
	require.NotNil(t, rows[3].DailyReturn)
	assert.InDelta(t, -1.0, *rows[3].DailyReturn, 1e-12)
	assert.Nil(t, rows[4].DailyReturn)

	assert.Empty(t, DailyReturns(nil))
}

func TestPctChange(t *testing.T) {
	changes := PctChange([]float64{100, 110, 0, 5})
	require.Len(t, changes, 3)
	assert.InDelta(t, 0.1, changes[0], 1e-12)
	assert.InDelta(t, -1.0, changes[1], 1e-12)
	assert.True(t, math.IsNaN(changes[2]))
	assert.Empty(t, PctChange([]float64{1}))
}

func TestCalculatorMetrics(t *testing.T) {
	calculator := NewCalculator(datamodels.ReturnsConfig{})
	assert.Equal(t, DefaultTradingDays, calculator.TradingDays)

	returns := []float64{0.01, 0.01}
	assert.InDelta(t, 0.0201, calculator.CumulativeReturn(returns), 1e-12)

	annualized, err := calculator.AnnualizedReturn(returns)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(1.01, 252)-1, annualized, 1e-9)

	drawdown, err := calculator.MaxDrawdown(PctChange([]float64{100, 120, 90, 110}))
	require.NoError(t, err)
	assert.InDelta(t, -0.25, drawdown, 1e-12)

	_, err = calculator.SharpeRatio(PctChange([]float64{100, 200, 400}))
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))

	_, err = calculator.AnnualizedVolatility([]float64{0.01})
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
}

func TestSharpeRatioWithRiskFreeRate(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.015, 0.005}
	plain := &Calculator{TradingDays: 252}
	withRate := &Calculator{RiskFreeRate: 0.05, TradingDays: 252}

	sharpe, err := plain.SharpeRatio(returns)
	require.NoError(t, err)
	adjusted, err := withRate.SharpeRatio(returns)
	require.NoError(t, err)
	assert.Greater(t, sharpe, adjusted)
}

func TestAllMetrics(t *testing.T) {
	calculator := &Calculator{TradingDays: 252}

	metrics := calculator.AllMetrics(closes(100, 102, 101, 104, 103))
	assert.Equal(t, 4, metrics.Observations)
	assert.InDelta(t, 0.03, metrics.CumulativeReturn, 1e-12)
	assert.Greater(t, metrics.AnnualizedVolatility, 0.0)
	assert.NotNil(t, metrics.SharpeRatio)
	require.NotNil(t, metrics.MaxDrawdown)
	assert.LessOrEqual(t, *metrics.MaxDrawdown, 0.0)

	empty := calculator.AllMetrics(closes(100))
	assert.Equal(t, 0, empty.Observations)
	assert.Nil(t, empty.SharpeRatio)
	assert.Nil(t, empty.MaxDrawdown)
}

func TestEstimateBasicMetrics(t *testing.T) {
	basic := EstimateBasicMetrics(closes(100, 101, 102, 103, 104, 105))
	require.NotNil(t, basic.MeanReturn)
	require.NotNil(t, basic.Volatility)
	require.NotNil(t, basic.CumulativeReturn)
	assert.InDelta(t, 0.01, *basic.MeanReturn, 5e-4)
	assert.Greater(t, *basic.Volatility, 0.0)
	assert.InDelta(t, 0.05, *basic.CumulativeReturn, 1e-9)

	single := EstimateBasicMetrics(closes(100, 101))
	assert.NotNil(t, single.MeanReturn)
	assert.Nil(t, single.Volatility)

	empty := EstimateBasicMetrics(nil)
	assert.Nil(t, empty.MeanReturn)
	assert.Nil(t, empty.Volatility)
	assert.Nil(t, empty.CumulativeReturn)
}
