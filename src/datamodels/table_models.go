package datamodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type BaseModel struct {
	Id        int64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BaseModelUUID struct {
	ID        uuid.UUID `gorm:"primarykey;default:gen_random_uuid();type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// gorm table of batch runs
type AnalysisRun struct {
	BaseModelUUID
	Tickers    pq.StringArray `gorm:"type:text[];not null"`
	StartedAt  time.Time      `gorm:"not null;index"`
	FinishedAt *time.Time
	Succeeded  int
	Failed     int
}

// gorm table of per-ticker correlation outcomes
type CorrelationReport struct {
	BaseModel
	RunId              uuid.UUID        `gorm:"type:uuid;not null;index"`
	Ticker             string           `gorm:"not null;index"`
	Coefficient        *decimal.Decimal `gorm:"type:numeric(12,9)"`
	WindowStart        *Date            `gorm:"type:date"`
	WindowEnd          *Date            `gorm:"type:date"`
	SampleCount        int              `gorm:"not null"`
	InsufficientData   bool             `gorm:"not null"`
	InsufficientReason string           `gorm:"type:text"`
	CumulativeReturn   decimal.Decimal  `gorm:"type:numeric(20,9)"`
	Volatility         decimal.Decimal  `gorm:"type:numeric(20,9)"`
	Error              string           `gorm:"type:text"`
	GeneratedAt        time.Time        `gorm:"not null;index"`
}

type DailySentimentRecord struct {
	BaseModel
	Ticker          string  `gorm:"not null;uniqueIndex:idx_sentiment_ticker_date"`
	Date            Date    `gorm:"not null;uniqueIndex:idx_sentiment_ticker_date"`
	AvgSentiment    float64 `gorm:"not null"`
	HeadlineCount   int     `gorm:"not null"`
	AvgSubjectivity float64 `gorm:"not null"`
}

type PriceBarRecord struct {
	BaseModel
	Ticker   string `gorm:"not null;uniqueIndex:idx_price_ticker_date"`
	Date     Date   `gorm:"not null;uniqueIndex:idx_price_ticker_date"`
	Open     *float64
	High     *float64
	Low      *float64
	Close    *float64
	AdjClose *float64
	Volume   *float64
}

func NewPriceBarRecord(ticker string, bar PriceBar) PriceBarRecord {
	return PriceBarRecord{
		Ticker:   ticker,
		Date:     bar.Date,
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		AdjClose: bar.AdjClose,
		Volume:   bar.Volume,
	}
}

func (r *PriceBarRecord) PriceBar() PriceBar {
	return PriceBar{
		Date:     r.Date,
		Open:     r.Open,
		High:     r.High,
		Low:      r.Low,
		Close:    r.Close,
		AdjClose: r.AdjClose,
		Volume:   r.Volume,
	}
}

// NewCorrelationReport flattens a TickerReport into its table row.
func NewCorrelationReport(runId uuid.UUID, report *TickerReport) CorrelationReport {
	row := CorrelationReport{
		RunId:              runId,
		Ticker:             report.Ticker,
		InsufficientData:   report.InsufficientData,
		InsufficientReason: report.InsufficientReason,
		Error:              report.Error,
		GeneratedAt:        report.GeneratedAt,
	}
	if report.Correlation != nil {
		coefficient := decimal.NewFromFloat(report.Correlation.Coefficient).Round(9)
		row.Coefficient = &coefficient
		start, end := report.Correlation.Window.Start, report.Correlation.Window.End
		row.WindowStart = &start
		row.WindowEnd = &end
		row.SampleCount = report.Correlation.SampleCount
	}
	if report.Basic != nil {
		if report.Basic.CumulativeReturn != nil {
			row.CumulativeReturn = decimal.NewFromFloat(*report.Basic.CumulativeReturn).Round(9)
		}
		if report.Basic.Volatility != nil {
			row.Volatility = decimal.NewFromFloat(*report.Basic.Volatility).Round(9)
		}
	}
	return row
}
