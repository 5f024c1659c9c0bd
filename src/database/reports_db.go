package database

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm/clause"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// ReportChannel is the postgres notification channel for new correlation reports.
const ReportChannel = "correlation_report"

type ReportDatabase interface {
	CreateAnalysisRun(ctx context.Context, tickers []string) (uuid.UUID, error)
	FinishAnalysisRun(ctx context.Context, runId uuid.UUID, succeeded int, failed int) error
	WriteCorrelationReport(ctx context.Context, runId uuid.UUID, report *datamodels.TickerReport) error
	GetCorrelationReports(ctx context.Context, ticker string, limit int) ([]datamodels.CorrelationReport, error)
	GetLatestCorrelationReports(ctx context.Context) ([]datamodels.CorrelationReport, error)
	WriteDailySentiment(ctx context.Context, ticker string, rows []datamodels.DailySentimentRow) error
	// SubscribeReports delivers the ticker of every report written from now on.
	SubscribeReports(ctx context.Context, subscriberId string) (<-chan string, error)
	UnsubscribeReports(subscriberId string) error
}

func (d *databaseImplementation) CreateAnalysisRun(ctx context.Context, tickers []string) (uuid.UUID, error) {
	run := datamodels.AnalysisRun{
		Tickers:   pq.StringArray(tickers),
		StartedAt: time.Now().UTC(),
	}
	if err := d.gormDb.WithContext(ctx).Create(&run).Error; err != nil {
		return uuid.Nil, errors.Wrap(err, "creating analysis run")
	}
	return run.ID, nil
}

func (d *databaseImplementation) FinishAnalysisRun(ctx context.Context, runId uuid.UUID, succeeded int, failed int) error {
	return d.gormDb.WithContext(ctx).
		Model(&datamodels.AnalysisRun{}).
		Where("id = ?", runId).
		Updates(map[string]interface{}{
			"finished_at": time.Now().UTC(),
			"succeeded":   succeeded,
			"failed":      failed,
		}).Error
}

// WriteCorrelationReport stores the report row and notifies report subscribers.
func (d *databaseImplementation) WriteCorrelationReport(ctx context.Context, runId uuid.UUID, report *datamodels.TickerReport) error {
	row := datamodels.NewCorrelationReport(runId, report)
	if err := d.gormDb.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "writing correlation report for %s", report.Ticker)
	}
	if err := Notify(d.gormDb.WithContext(ctx), ReportChannel, report.Ticker, runId.String()); err != nil {
		slog.Warn("could not notify report subscribers", "ticker", report.Ticker, "error", err)
	}
	return nil
}

func (d *databaseImplementation) GetCorrelationReports(ctx context.Context, ticker string, limit int) ([]datamodels.CorrelationReport, error) {
	var reports []datamodels.CorrelationReport
	err := d.gormDb.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		Order("generated_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

// GetLatestCorrelationReports returns the newest report of every ticker.
func (d *databaseImplementation) GetLatestCorrelationReports(ctx context.Context) ([]datamodels.CorrelationReport, error) {
	var reports []datamodels.CorrelationReport
	err := d.gormDb.WithContext(ctx).
		Raw("SELECT DISTINCT ON (ticker) * FROM correlation_reports ORDER BY ticker, generated_at DESC").
		Scan(&reports).Error
	return reports, err
}

// WriteDailySentiment upserts the rows on (ticker, date).
func (d *databaseImplementation) WriteDailySentiment(ctx context.Context, ticker string, rows []datamodels.DailySentimentRow) error {
	if len(rows) == 0 {
		return nil
	}
	ticker = strings.ToUpper(ticker)
	records := make([]datamodels.DailySentimentRecord, len(rows))
	for i, row := range rows {
		records[i] = datamodels.DailySentimentRecord{
			Ticker:          ticker,
			Date:            row.Date,
			AvgSentiment:    row.AvgSentiment,
			HeadlineCount:   row.HeadlineCount,
			AvgSubjectivity: row.AvgSubjectivity,
		}
	}

	tx := d.gormDb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"avg_sentiment", "headline_count", "avg_subjectivity", "updated_at"}),
		}).
		CreateInBatches(records, batchSize)
	return tx.Error
}

func (d *databaseImplementation) SubscribeReports(ctx context.Context, subscriberId string) (<-chan string, error) {
	return d.notificationManager.Subscribe(ctx, subscriberId, ReportChannel, AnyObject)
}

func (d *databaseImplementation) UnsubscribeReports(subscriberId string) error {
	return d.notificationManager.Unsubscribe(ReportChannel, subscriberId, AnyObject)
}
