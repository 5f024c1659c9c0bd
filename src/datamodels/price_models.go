package datamodels

import (
	"fmt"
)

// PriceBar is one trading day of OHLCV data. Nil fields were missing or
// unparseable in the source.
type PriceBar struct {
	Date     Date     `json:"date"`
	Open     *float64 `json:"open,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Low      *float64 `json:"low,omitempty"`
	Close    *float64 `json:"close,omitempty"`
	AdjClose *float64 `json:"adj_close,omitempty"`
	Volume   *float64 `json:"volume,omitempty"`
}

// Validate checks low <= open,close <= high and volume >= 0 for the fields that are present.
func (b *PriceBar) Validate() error {
	if b.Low != nil && b.High != nil && *b.Low > *b.High {
		return fmt.Errorf("%s: low %v above high %v", b.Date, *b.Low, *b.High)
	}
	for name, v := range map[string]*float64{"open": b.Open, "close": b.Close} {
		if v == nil {
			continue
		}
		if b.Low != nil && *v < *b.Low {
			return fmt.Errorf("%s: %s %v below low %v", b.Date, name, *v, *b.Low)
		}
		if b.High != nil && *v > *b.High {
			return fmt.Errorf("%s: %s %v above high %v", b.Date, name, *v, *b.High)
		}
	}
	if b.Volume != nil && *b.Volume < 0 {
		return fmt.Errorf("%s: negative volume %v", b.Date, *b.Volume)
	}
	return nil
}

// DailyReturnRow holds close(t)/close(t-1) - 1; DailyReturn is nil when undefined.
type DailyReturnRow struct {
	Date        Date     `json:"date"`
	DailyReturn *float64 `json:"daily_return,omitempty"`
}

type ReturnMetrics struct {
	CumulativeReturn     float64  `json:"cumulative_return"`
	AnnualizedReturn     float64  `json:"annualized_return"`
	AnnualizedVolatility float64  `json:"annualized_volatility"`
	SharpeRatio          *float64 `json:"sharpe_ratio,omitempty"`
	MaxDrawdown          *float64 `json:"max_drawdown,omitempty"`
	Observations         int      `json:"observations"`
}

type BasicMetrics struct {
	MeanReturn       *float64 `json:"mean_return,omitempty"`
	Volatility       *float64 `json:"volatility,omitempty"`
	CumulativeReturn *float64 `json:"cumulative_return,omitempty"`
}

// IndicatorRow carries the technical indicators for one bar. Values inside an
// indicator's lookback window are nil.
type IndicatorRow struct {
	Date       Date             `json:"date"`
	Close      float64          `json:"close"`
	SMA        map[int]*float64 `json:"sma,omitempty"`
	RSI        *float64         `json:"rsi,omitempty"`
	MACD       *float64         `json:"macd,omitempty"`
	MACDSignal *float64         `json:"macd_signal,omitempty"`
	MACDHist   *float64         `json:"macd_hist,omitempty"`
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}
