package returns

import (
	"math"

	"newscorr/src/aggregators"
	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

const DefaultTradingDays = 252

// Calculator annualizes daily return statistics.
type Calculator struct {
	RiskFreeRate float64
	TradingDays  int
}

func NewCalculator(config datamodels.ReturnsConfig) *Calculator {
	tradingDays := config.TradingDays
	if tradingDays <= 0 {
		tradingDays = DefaultTradingDays
	}
	return &Calculator{
		RiskFreeRate: config.RiskFreeRate,
		TradingDays:  tradingDays,
	}
}

// CumulativeReturn compounds the returns; an empty series compounds to 0.
func (c *Calculator) CumulativeReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth - 1
}

// AnnualizedReturn is (1 + mean daily return)^TradingDays - 1.
func (c *Calculator) AnnualizedReturn(returns []float64) (float64, error) {
	mean, err := aggregators.MeanFunc(returns)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+mean, float64(c.TradingDays)) - 1, nil
}

// AnnualizedVolatility is the sample standard deviation scaled by sqrt(TradingDays).
func (c *Calculator) AnnualizedVolatility(returns []float64) (float64, error) {
	std, err := aggregators.StandardDeviationFunc(returns)
	if err != nil {
		return 0, err
	}
	return std * math.Sqrt(float64(c.TradingDays)), nil
}

// SharpeRatio is sqrt(TradingDays) * mean(excess) / std(returns), where excess
// subtracts the daily share of the risk free rate.
func (c *Calculator) SharpeRatio(returns []float64) (float64, error) {
	std, err := aggregators.StandardDeviationFunc(returns)
	if err != nil {
		return 0, err
	}
	if std == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "returns have zero volatility")
	}
	dailyRiskFree := c.RiskFreeRate / float64(c.TradingDays)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRiskFree
	}
	meanExcess, err := aggregators.MeanFunc(excess)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(float64(c.TradingDays)) * meanExcess / std, nil
}

// MaxDrawdown is the most negative (cumulative - running peak) / running peak.
func (c *Calculator) MaxDrawdown(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, errors.Wrap(errors.ErrInsufficientData, "no returns to calculate drawdown")
	}
	cumulative := 1.0
	peak := math.Inf(-1)
	maxDrawdown := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		peak = math.Max(peak, cumulative)
		if peak <= 0 {
			continue
		}
		maxDrawdown = math.Min(maxDrawdown, (cumulative-peak)/peak)
	}
	return maxDrawdown, nil
}

// AllMetrics computes every metric from the bars' daily returns. Metrics that
// are undefined for the number of observations are zero (or nil for the
// pointer fields).
func (c *Calculator) AllMetrics(bars []datamodels.PriceBar) datamodels.ReturnMetrics {
	returns := DefinedReturns(DailyReturns(bars))
	metrics := datamodels.ReturnMetrics{Observations: len(returns)}
	if len(returns) == 0 {
		return metrics
	}

	metrics.CumulativeReturn = c.CumulativeReturn(returns)
	if annualized, err := c.AnnualizedReturn(returns); err == nil {
		metrics.AnnualizedReturn = annualized
	}
	if volatility, err := c.AnnualizedVolatility(returns); err == nil {
		metrics.AnnualizedVolatility = volatility
	}
	if sharpe, err := c.SharpeRatio(returns); err == nil {
		metrics.SharpeRatio = &sharpe
	}
	if drawdown, err := c.MaxDrawdown(returns); err == nil {
		metrics.MaxDrawdown = &drawdown
	}
	return metrics
}

// EstimateBasicMetrics returns the mean, sample standard deviation and
// cumulative value of the daily returns. Values are nil when there are too few
// returns to define them.
func EstimateBasicMetrics(bars []datamodels.PriceBar) datamodels.BasicMetrics {
	returns := DefinedReturns(DailyReturns(bars))
	basic := datamodels.BasicMetrics{}
	if len(returns) == 0 {
		return basic
	}

	calculator := &Calculator{TradingDays: DefaultTradingDays}
	if mean, err := aggregators.MeanFunc(returns); err == nil {
		basic.MeanReturn = &mean
	}
	if std, err := aggregators.StandardDeviationFunc(returns); err == nil {
		basic.Volatility = &std
	}
	cumulative := calculator.CumulativeReturn(returns)
	basic.CumulativeReturn = &cumulative
	return basic
}
