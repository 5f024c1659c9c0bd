package indicators

import (
	"github.com/markcheno/go-talib"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// Compute runs SMA, RSI and MACD over the bars' closes. Each row carries the
// values for its bar; values inside an indicator's lookback window are nil, and
// so is every value of an indicator the series is too short for.
func Compute(bars []datamodels.PriceBar, config datamodels.IndicatorConfig) ([]datamodels.IndicatorRow, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	closes, err := PrepareCloses(bars)
	if err != nil {
		return nil, err
	}

	rows := make([]datamodels.IndicatorRow, len(bars))
	for i, bar := range bars {
		rows[i] = datamodels.IndicatorRow{
			Date:  bar.Date,
			Close: closes[i],
			SMA:   make(map[int]*float64, len(config.SMAPeriods)),
		}
	}

	n := len(closes)
	for _, period := range config.SMAPeriods {
		smaValues := trimLookback(smaSeries(closes, period), period-1, n)
		for i := range rows {
			rows[i].SMA[period] = smaValues[i]
		}
	}

	rsiValues := trimLookback(rsiSeries(closes, config.RSIPeriod), config.RSIPeriod, n)
	macd, signal, hist := macdSeries(closes, config.MACDFast, config.MACDSlow, config.MACDSignal)
	macdLookback := MACDLookback(config)
	macdValues := trimLookback(macd, macdLookback, n)
	signalValues := trimLookback(signal, macdLookback, n)
	histValues := trimLookback(hist, macdLookback, n)
	for i := range rows {
		rows[i].RSI = rsiValues[i]
		rows[i].MACD = macdValues[i]
		rows[i].MACDSignal = signalValues[i]
		rows[i].MACDHist = histValues[i]
	}

	return rows, nil
}

// PrepareCloses extracts closes in bar order; every bar needs a close.
func PrepareCloses(bars []datamodels.PriceBar) ([]float64, error) {
	if len(bars) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no bars provided")
	}
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		if bar.Close == nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "bar %s has no close", bar.Date)
		}
		closes[i] = *bar.Close
	}
	return closes, nil
}

// CompleteTail returns the bars after the last bar without a close. The
// latest indicator values only depend on this unbroken run.
func CompleteTail(bars []datamodels.PriceBar) []datamodels.PriceBar {
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close == nil {
			return bars[i+1:]
		}
	}
	return bars
}

// MACDLookback is the index of the first bar with a MACD signal value.
func MACDLookback(config datamodels.IndicatorConfig) int {
	return (config.MACDSlow - 1) + (config.MACDSignal - 1)
}

// Latest returns the last row, or nil for no rows.
func Latest(rows []datamodels.IndicatorRow) *datamodels.IndicatorRow {
	if len(rows) == 0 {
		return nil
	}
	latest := rows[len(rows)-1]
	return &latest
}

// go-talib indexes past the end of short inputs, so each call is guarded and
// returns nil when the series cannot fill the lookback window.
func smaSeries(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nil
	}
	return talib.Sma(closes, period)
}

func rsiSeries(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}
	return talib.Rsi(closes, period)
}

func macdSeries(closes []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	if len(closes) <= (slow-1)+(signal-1) {
		return nil, nil, nil
	}
	return talib.Macd(closes, fast, slow, signal)
}

// trimLookback converts talib output to n per-row pointers, nil before the
// lookback index. A nil series gives n nils.
func trimLookback(values []float64, lookback, n int) []*float64 {
	out := make([]*float64, n)
	for i := lookback; i < len(values) && i < n; i++ {
		v := values[i]
		out[i] = &v
	}
	return out
}
