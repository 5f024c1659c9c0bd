package database

import (
	"context"

	"newscorr/src/datamodels"
)

type MetricsDatabase interface {
	WriteNewMetric(ctx context.Context, metric datamodels.Metric) (int64, error)
}

func (d *databaseImplementation) WriteNewMetric(ctx context.Context, metric datamodels.Metric) (int64, error) {
	tx := d.gormDb.WithContext(ctx).Create(&metric)
	return tx.RowsAffected, tx.Error
}
