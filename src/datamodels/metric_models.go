package datamodels

import (
	"encoding/json"
	"time"
)

type MetricGeneratorType string

const (
	MetricGeneratorTypeTicker MetricGeneratorType = "ticker"
	MetricGeneratorTypeRun    MetricGeneratorType = "run"
)

const MetricNameTickerReport = "ticker_report"

// metric value is a JSON document, usually a TickerReport
type Metric struct {
	BaseModel
	MetricGeneratorId   string              `gorm:"not null;index" json:"metric_generator_id"`
	MetricGeneratorName string              `gorm:"not null;index" json:"metric_generator_name"`
	MetricGeneratorType MetricGeneratorType `gorm:"not null;index" json:"metric_generator_type"`
	MetricTime          time.Time           `gorm:"not null;index" json:"metric_time"`
	MetricName          string              `gorm:"not null;index" json:"metric_name"`
	MetricValue         []byte              `gorm:"not null;type:json" json:"metric_value"`
}

// NewTickerReportMetric wraps a report as a Metric keyed by its ticker.
func NewTickerReportMetric(report *TickerReport) (Metric, error) {
	value, err := json.Marshal(report)
	if err != nil {
		return Metric{}, err
	}
	return Metric{
		MetricGeneratorId:   report.RunId,
		MetricGeneratorName: report.Ticker,
		MetricGeneratorType: MetricGeneratorTypeTicker,
		MetricTime:          report.GeneratedAt,
		MetricName:          MetricNameTickerReport,
		MetricValue:         value,
	}, nil
}

// TickerReport decodes the metric value back into a report.
func (m *Metric) TickerReport() (*TickerReport, error) {
	var report TickerReport
	if err := json.Unmarshal(m.MetricValue, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
