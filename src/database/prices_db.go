package database

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm/clause"

	"newscorr/src/datamodels"
)

const batchSize = 5000

type PriceDatabase interface {
	WritePriceBars(ctx context.Context, ticker string, bars []datamodels.PriceBar) error
	// GetPriceBars returns bars in ascending date order; nil bounds are open.
	GetPriceBars(ctx context.Context, ticker string, start *datamodels.Date, end *datamodels.Date) ([]datamodels.PriceBar, error)
}

// WritePriceBars upserts bars on (ticker, date).
func (d *databaseImplementation) WritePriceBars(ctx context.Context, ticker string, bars []datamodels.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ticker = strings.ToUpper(ticker)
	records := make([]datamodels.PriceBarRecord, len(bars))
	for i, bar := range bars {
		records[i] = datamodels.NewPriceBarRecord(ticker, bar)
	}

	tx := d.gormDb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "adj_close", "volume", "updated_at"}),
		}).
		CreateInBatches(records, batchSize)
	if tx.Error != nil {
		slog.Error("Error inserting price bars", "ticker", ticker, "error", tx.Error)
		return tx.Error
	}
	return nil
}

func (d *databaseImplementation) GetPriceBars(ctx context.Context, ticker string, start *datamodels.Date, end *datamodels.Date) ([]datamodels.PriceBar, error) {
	query := d.gormDb.WithContext(ctx).
		Model(&datamodels.PriceBarRecord{}).
		Where("ticker = ?", strings.ToUpper(ticker))
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var records []datamodels.PriceBarRecord
	if err := query.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	bars := make([]datamodels.PriceBar, len(records))
	for i := range records {
		bars[i] = records[i].PriceBar()
	}
	return bars, nil
}
