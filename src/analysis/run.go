package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newscorr/src/aggregators"
	"newscorr/src/datamodels"
	"newscorr/src/newsfeatures"
)

const topPublisherCount = 3

type newsSummary struct {
	Headlines     int
	MeanWords     float64
	TopPublishers []datamodels.PublisherCount
}

func summarizeNews(news []datamodels.HeadlineRecord) newsSummary {
	summary := newsSummary{Headlines: len(news)}
	if len(news) == 0 {
		return summary
	}
	words := make([]float64, 0, len(news))
	for _, features := range newsfeatures.ExtractAll(news) {
		words = append(words, float64(features.LengthWords))
	}
	if mean, err := aggregators.MeanFunc(words); err == nil {
		summary.MeanWords = mean
	}
	publishers := newsfeatures.PublisherCounts(news)
	summary.TopPublishers = publishers[:min(topPublisherCount, len(publishers))]
	return summary
}

// Run analyzes every ticker and returns one report per ticker in input order.
// A ticker that fails carries the failure in its Error field and the batch
// continues. With workers <= 1 tickers run sequentially. Once ctx is done no
// new ticker is started; the unstarted ones are reported with the context
// error and Run returns it.
func (a *Analyzer) Run(ctx context.Context, tickers []string, workers int) ([]*datamodels.TickerReport, error) {
	news, err := a.loadNews(ctx)
	if err != nil {
		return nil, err
	}

	runId := uuid.New()
	if a.reportStore != nil {
		if id, err := a.reportStore.CreateAnalysisRun(ctx, tickers); err == nil {
			runId = id
		} else {
			slog.Error("failed to create analysis run", "error", err)
		}
	}
	if workers < 1 {
		workers = 1
	}

	started := time.Now()
	summary := summarizeNews(news)
	slog.Info("starting analysis run",
		"run_id", runId,
		"tickers", len(tickers),
		"workers", workers,
		"headlines", summary.Headlines,
		"mean_headline_words", summary.MeanWords,
		"top_publishers", summary.TopPublishers)

	reports := make([]*datamodels.TickerReport, len(tickers))
	group := &errgroup.Group{}
	group.SetLimit(workers)

schedule:
	for i, ticker := range tickers {
		select {
		case <-ctx.Done():
			break schedule
		default:
		}
		group.Go(func() error {
			reports[i] = a.runTicker(ctx, runId, ticker, news)
			return nil
		})
	}
	group.Wait()

	succeeded, failed := 0, 0
	for i, report := range reports {
		if report == nil {
			reports[i] = &datamodels.TickerReport{
				Ticker:      strings.ToUpper(strings.TrimSpace(tickers[i])),
				RunId:       runId.String(),
				Error:       ctx.Err().Error(),
				GeneratedAt: time.Now().UTC(),
			}
		}
		if reports[i].Failed() {
			failed++
		} else {
			succeeded++
		}
	}

	if a.reportStore != nil {
		if err := a.reportStore.FinishAnalysisRun(context.WithoutCancel(ctx), runId, succeeded, failed); err != nil {
			slog.Error("failed to finish analysis run", "run_id", runId, "error", err)
		}
	}
	slog.Info("analysis run finished",
		"run_id", runId,
		"succeeded", succeeded,
		"failed", failed,
		"elapsed", time.Since(started))

	return reports, ctx.Err()
}

func (a *Analyzer) runTicker(ctx context.Context, runId uuid.UUID, ticker string, news []datamodels.HeadlineRecord) *datamodels.TickerReport {
	report, daily, err := a.analyze(ctx, ticker, news)
	if err != nil {
		slog.Error("ticker analysis failed", "ticker", ticker, "error", err)
		report = &datamodels.TickerReport{
			Ticker:      strings.ToUpper(strings.TrimSpace(ticker)),
			Error:       err.Error(),
			GeneratedAt: time.Now().UTC(),
		}
		daily = nil
	}
	report.RunId = runId.String()
	a.publish(ctx, runId, report, daily)
	return report
}
