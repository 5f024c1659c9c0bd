package metrics

import (
	"context"
	"time"

	"newscorr/src/database"
	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// DBMetricsWriter appends every metric to the metrics table.
type DBMetricsWriter struct {
	db  database.MetricsDatabase
	now func() time.Time
}

func NewDBMetricsWriter(db database.MetricsDatabase) *DBMetricsWriter {
	return &DBMetricsWriter{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Write stamps metrics that carry no time with the write time.
func (w *DBMetricsWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	if metric.MetricTime.IsZero() {
		metric.MetricTime = w.now()
	}
	if _, err := w.db.WriteNewMetric(ctx, metric); err != nil {
		return errors.Wrapef(errors.ErrUpstreamUnavailable, err, "storing %s metric of %s", metric.MetricName, metric.MetricGeneratorName)
	}
	return nil
}

func (w *DBMetricsWriter) Close() error {
	return nil
}
