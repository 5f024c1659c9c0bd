package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

func TestBatchErrorTreatsInterruptAsClean(t *testing.T) {
	assert.NoError(t, batchError(nil))
	assert.NoError(t, batchError(context.Canceled))
	assert.NoError(t, batchError(fmt.Errorf("run: %w", context.Canceled)))

	failure := errors.Wrap(errors.ErrUpstreamUnavailable, "news source missing")
	assert.ErrorIs(t, batchError(failure), errors.ErrUpstreamUnavailable)
}

func TestLogReportsHandlesPartialBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() {
		logReports([]*datamodels.TickerReport{
			{Ticker: "AAPL", Correlation: &datamodels.CorrelationResult{Coefficient: 0.3, SampleCount: 5}},
			{Ticker: "MSFT", InsufficientData: true, InsufficientReason: "single overlapping date"},
			{Ticker: "TSLA", Error: ctx.Err().Error()},
		})
		logReports(nil)
	})
}
