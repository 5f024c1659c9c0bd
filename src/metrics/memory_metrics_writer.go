package metrics

import (
	"context"
	"sort"
	"strings"
	"sync"

	"newscorr/src/datamodels"
)

// MemoryMetricsWriter keeps the latest ticker report per ticker.
type MemoryMetricsWriter struct {
	reports map[string]*datamodels.TickerReport
	mu      sync.RWMutex
}

func NewMemoryMetricsWriter() *MemoryMetricsWriter {
	return &MemoryMetricsWriter{
		reports: make(map[string]*datamodels.TickerReport),
	}
}

// Write ignores metrics that are not ticker reports.
func (w *MemoryMetricsWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	if metric.MetricName != datamodels.MetricNameTickerReport {
		return nil
	}
	report, err := metric.TickerReport()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports[strings.ToUpper(report.Ticker)] = report
	return nil
}

func (w *MemoryMetricsWriter) Report(ticker string) (*datamodels.TickerReport, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	report, ok := w.reports[strings.ToUpper(ticker)]
	return report, ok
}

// Reports returns the stored reports ordered by ticker.
func (w *MemoryMetricsWriter) Reports() []*datamodels.TickerReport {
	w.mu.RLock()
	defer w.mu.RUnlock()
	reports := make([]*datamodels.TickerReport, 0, len(w.reports))
	for _, report := range w.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Ticker < reports[j].Ticker
	})
	return reports
}

func (w *MemoryMetricsWriter) Close() error {
	return nil
}
