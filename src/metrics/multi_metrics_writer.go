package metrics

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"newscorr/src/datamodels"
)

// MultiMetricsWriter writes metrics to multiple destinations
type MultiMetricsWriter struct {
	writers []MetricsWriter
	mu      sync.RWMutex
}

func NewMultiMetricsWriter(writers ...MetricsWriter) *MultiMetricsWriter {
	return &MultiMetricsWriter{
		writers: writers,
	}
}

func (w *MultiMetricsWriter) AddWriter(writer MetricsWriter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writers = append(w.writers, writer)
}

// WebsocketWriter returns the first websocket writer, or nil.
func (w *MultiMetricsWriter) WebsocketWriter() *WebsocketMetricsWriter {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, writer := range w.writers {
		if ws, ok := writer.(*WebsocketMetricsWriter); ok {
			return ws
		}
	}
	return nil
}

// Write forwards the metric to every writer. A failing writer does not stop
// the others; all failures are joined into the returned error.
func (w *MultiMetricsWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	slog.Debug("Fanning out metric", "generator", metric.MetricGeneratorName, "name", metric.MetricName, "writers", len(w.writers))

	var errs []error
	for _, writer := range w.writers {
		if err := writer.Write(ctx, metric); err != nil {
			slog.Error("Metric writer failed", "writer", fmt.Sprintf("%T", writer), "ticker", metric.MetricGeneratorName, "error", err)
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (w *MultiMetricsWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil {
			slog.Error("Failed to close metric writer", "writer", fmt.Sprintf("%T", writer), "error", err)
			errs = append(errs, err)
		}
	}
	w.writers = nil
	return stderrors.Join(errs...)
}
