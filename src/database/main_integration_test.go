//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscorr/src/config"
	"newscorr/src/datamodels"
)

func TestMainIntegration(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := NewDBConnection(cfg.DatabaseConfig)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	bars := []datamodels.PriceBar{
		{Date: datamodels.NewDate(2024, 1, 2), Close: datamodels.Float(100)},
		{Date: datamodels.NewDate(2024, 1, 3), Close: datamodels.Float(101)},
	}
	require.NoError(t, db.WritePriceBars(ctx, "itest", bars))
	require.NoError(t, db.WritePriceBars(ctx, "itest", bars))

	loaded, err := db.GetPriceBars(ctx, "ITEST", nil, nil)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	updates, err := db.SubscribeReports(ctx, "integration")
	require.NoError(t, err)
	defer db.UnsubscribeReports("integration")

	runId, err := db.CreateAnalysisRun(ctx, []string{"ITEST"})
	require.NoError(t, err)
	report := &datamodels.TickerReport{Ticker: "ITEST", InsufficientData: true, InsufficientReason: "no sentiment data", GeneratedAt: time.Now()}
	require.NoError(t, db.WriteCorrelationReport(ctx, runId, report))
	require.NoError(t, db.FinishAnalysisRun(ctx, runId, 1, 0))

	select {
	case ticker := <-updates:
		assert.Equal(t, "ITEST", ticker)
	case <-time.After(5 * time.Second):
		t.Fatal("report notification not received")
	}

	reports, err := db.GetCorrelationReports(ctx, "itest", 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].InsufficientData)
}
