package metrics

import (
	"context"
	"log/slog"

	"newscorr/src/database"
	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// MetricsWriter interface defines methods for writing metrics
type MetricsWriter interface {
	// Write persists or forwards one metric
	Write(ctx context.Context, metric datamodels.Metric) error
	// Close cleans up any resources
	Close() error
}

// BuildMetricsWriter assembles the writers enabled in config. db may be nil
// unless the db writer is enabled. extra writers are always included.
func BuildMetricsWriter(config *datamodels.MetricsWriterConfig, db database.MetricsDatabase, extra ...MetricsWriter) (*MultiMetricsWriter, error) {
	writers := append([]MetricsWriter{}, extra...)
	if config == nil {
		slog.Warn("MetricsWriterConfig is nil, only default metrics writers are used")
		return NewMultiMetricsWriter(writers...), nil
	}
	if config.WsWriter {
		writers = append(writers, NewWebSocketMetricsWriter())
	}
	if config.FileWriter {
		format := FileFormat(config.FileFormat)
		if format == "" {
			format = FormatCSV
		}
		metricsWriter, err := NewFileMetricsWriter(config.FilePath, format)
		if err != nil {
			return nil, err
		}
		writers = append(writers, metricsWriter)
	}
	if config.DbWriter {
		if db == nil {
			return nil, errors.New("db metrics writer needs a database connection")
		}
		writers = append(writers, NewDBMetricsWriter(db))
	}
	return NewMultiMetricsWriter(writers...), nil
}
