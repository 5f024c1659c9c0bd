package datamodels

import "time"

// AlignedSample is one calendar date present in both the sentiment and the return series.
type AlignedSample struct {
	Date          Date    `json:"date"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	HeadlineCount int     `json:"headline_count"`
	DailyReturn   float64 `json:"daily_return"`
}

type SampleWindow struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

type CorrelationResult struct {
	Coefficient float64      `json:"coefficient"`
	Window      SampleWindow `json:"window"`
	SampleCount int          `json:"sample_count"`
}

// TickerReport is the outcome of analyzing one ticker. Error is set when the
// analysis failed; InsufficientData is set when it completed without a coefficient.
type TickerReport struct {
	Ticker              string             `json:"ticker"`
	RunId               string             `json:"run_id,omitempty"`
	PriceWindow         *SampleWindow      `json:"price_window,omitempty"`
	PriceBarCount       int                `json:"price_bar_count"`
	HeadlineCount       int                `json:"headline_count"`
	DailySentimentCount int                `json:"daily_sentiment_count"`
	Correlation         *CorrelationResult `json:"correlation,omitempty"`
	InsufficientData    bool               `json:"insufficient_data"`
	InsufficientReason  string             `json:"insufficient_reason,omitempty"`
	Metrics             *ReturnMetrics     `json:"metrics,omitempty"`
	Basic               *BasicMetrics      `json:"basic,omitempty"`
	LatestIndicators    *IndicatorRow      `json:"latest_indicators,omitempty"`
	Error               string             `json:"error,omitempty"`
	GeneratedAt         time.Time          `json:"generated_at"`
}

func (r *TickerReport) Failed() bool {
	return r.Error != ""
}
