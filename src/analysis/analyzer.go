package analysis

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"newscorr/src/aggregators"
	"newscorr/src/correlation"
	"newscorr/src/datamodels"
	"newscorr/src/feeds"
	"newscorr/src/indicators"
	"newscorr/src/metrics"
	"newscorr/src/returns"
	"newscorr/src/sentiment"
	"newscorr/src/utils/errors"
	"newscorr/src/utils/symbols"
)

const reasonNoSentiment = "no sentiment data"

// ReportStore persists the outcome of a batch run.
type ReportStore interface {
	CreateAnalysisRun(ctx context.Context, tickers []string) (uuid.UUID, error)
	FinishAnalysisRun(ctx context.Context, runId uuid.UUID, succeeded int, failed int) error
	WriteCorrelationReport(ctx context.Context, runId uuid.UUID, report *datamodels.TickerReport) error
	WriteDailySentiment(ctx context.Context, ticker string, rows []datamodels.DailySentimentRow) error
}

// Analyzer runs the sentiment/return pipeline for single tickers. The news
// records are loaded once and shared read-only by every analysis.
type Analyzer struct {
	priceFeed       feeds.PriceFeed
	newsFeed        feeds.NewsFeed
	scorer          sentiment.Scorer
	aggregator      *aggregators.DailySentimentAggregator
	indicatorConfig datamodels.IndicatorConfig
	calculator      *returns.Calculator
	metricsWriter   metrics.MetricsWriter
	reportStore     ReportStore
	dictionary      *symbols.TickerDictionary
	plotter         *metrics.SentimentReturnPlotter

	newsMu     sync.Mutex
	news       []datamodels.HeadlineRecord
	newsLoaded bool
}

type AnalyzerBuilder struct {
	analyzer *Analyzer
}

func NewAnalyzer() *AnalyzerBuilder {
	return &AnalyzerBuilder{
		analyzer: &Analyzer{
			indicatorConfig: datamodels.DefaultIndicatorConfig(),
			calculator:      &returns.Calculator{TradingDays: returns.DefaultTradingDays},
			aggregator:      aggregators.NewDailySentimentAggregatorBuilder().Build(),
		},
	}
}

func (b *AnalyzerBuilder) WithPriceFeed(feed feeds.PriceFeed) *AnalyzerBuilder {
	b.analyzer.priceFeed = feed
	return b
}

func (b *AnalyzerBuilder) WithNewsFeed(feed feeds.NewsFeed) *AnalyzerBuilder {
	b.analyzer.newsFeed = feed
	return b
}

// WithNewsRecords supplies already loaded headlines; the news feed is then not read.
func (b *AnalyzerBuilder) WithNewsRecords(records []datamodels.HeadlineRecord) *AnalyzerBuilder {
	b.analyzer.news = records
	b.analyzer.newsLoaded = true
	return b
}

func (b *AnalyzerBuilder) WithScorer(scorer sentiment.Scorer) *AnalyzerBuilder {
	b.analyzer.scorer = scorer
	return b
}

func (b *AnalyzerBuilder) WithAggregator(aggregator *aggregators.DailySentimentAggregator) *AnalyzerBuilder {
	b.analyzer.aggregator = aggregator
	return b
}

func (b *AnalyzerBuilder) WithIndicatorConfig(config datamodels.IndicatorConfig) *AnalyzerBuilder {
	b.analyzer.indicatorConfig = config
	return b
}

func (b *AnalyzerBuilder) WithCalculator(calculator *returns.Calculator) *AnalyzerBuilder {
	b.analyzer.calculator = calculator
	return b
}

func (b *AnalyzerBuilder) WithMetricsWriter(writer metrics.MetricsWriter) *AnalyzerBuilder {
	b.analyzer.metricsWriter = writer
	return b
}

func (b *AnalyzerBuilder) WithReportStore(store ReportStore) *AnalyzerBuilder {
	b.analyzer.reportStore = store
	return b
}

func (b *AnalyzerBuilder) WithTickerDictionary(dictionary *symbols.TickerDictionary) *AnalyzerBuilder {
	b.analyzer.dictionary = dictionary
	return b
}

func (b *AnalyzerBuilder) WithPlotter(plotter *metrics.SentimentReturnPlotter) *AnalyzerBuilder {
	b.analyzer.plotter = plotter
	return b
}

func (b *AnalyzerBuilder) Build() (*Analyzer, error) {
	a := b.analyzer
	if a.priceFeed == nil {
		return nil, errors.New("analyzer needs a price feed")
	}
	if a.newsFeed == nil && !a.newsLoaded {
		return nil, errors.New("analyzer needs a news feed or news records")
	}
	if err := a.indicatorConfig.Validate(); err != nil {
		return nil, err
	}
	if a.scorer == nil {
		a.scorer = sentiment.NewLexiconScorer()
	}
	if a.dictionary == nil {
		a.dictionary = symbols.NewTickerDictionary(nil)
	}
	return a, nil
}

// loadNews reads the news feed on first use. A failed load is retried on the next call.
func (a *Analyzer) loadNews(ctx context.Context) ([]datamodels.HeadlineRecord, error) {
	a.newsMu.Lock()
	defer a.newsMu.Unlock()
	if a.newsLoaded {
		return a.news, nil
	}
	records, err := a.newsFeed.LoadNews(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "loading news from %s", a.newsFeed.GetName())
	}
	a.news = records
	a.newsLoaded = true
	return records, nil
}

// AnalyzeTicker runs the pipeline for one ticker and publishes the report.
// Missing sentiment or too few aligned dates is reported through
// InsufficientData; a price source failure is returned as an error.
func (a *Analyzer) AnalyzeTicker(ctx context.Context, ticker string) (*datamodels.TickerReport, error) {
	news, err := a.loadNews(ctx)
	if err != nil {
		return nil, err
	}
	runId := uuid.New()
	report, daily, err := a.analyze(ctx, ticker, news)
	if err != nil {
		return nil, err
	}
	report.RunId = runId.String()
	a.publish(ctx, runId, report, daily)
	return report, nil
}

func (a *Analyzer) analyze(ctx context.Context, ticker string, news []datamodels.HeadlineRecord) (*datamodels.TickerReport, []datamodels.DailySentimentRow, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, "empty ticker")
	}

	bars, err := a.priceFeed.LoadPrices(ctx, ticker)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading prices for %s", ticker)
	}

	report := &datamodels.TickerReport{
		Ticker:        ticker,
		PriceBarCount: len(bars),
		GeneratedAt:   time.Now().UTC(),
	}
	if len(bars) > 0 {
		report.PriceWindow = &datamodels.SampleWindow{Start: bars[0].Date, End: bars[len(bars)-1].Date}
	}

	returnMetrics := a.calculator.AllMetrics(bars)
	report.Metrics = &returnMetrics
	basic := returns.EstimateBasicMetrics(bars)
	report.Basic = &basic

	report.LatestIndicators = a.latestIndicators(ticker, bars)

	headlines := feeds.FilterByTicker(news, ticker, a.dictionary.Aliases(ticker))
	report.HeadlineCount = len(headlines)
	scored := sentiment.ScoreHeadlines(a.scorer, headlines)
	daily := a.aggregator.Aggregate(scored)
	report.DailySentimentCount = len(daily)

	if len(daily) == 0 {
		report.InsufficientData = true
		report.InsufficientReason = reasonNoSentiment
		slog.Info("no sentiment data for ticker", "ticker", ticker, "headlines", len(headlines))
		return report, daily, nil
	}

	samples, err := correlation.Align(daily, returns.DailyReturns(bars))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "aligning %s", ticker)
	}

	result, err := correlation.Correlate(samples)
	switch {
	case errors.Is(err, errors.ErrInsufficientData):
		report.InsufficientData = true
		report.InsufficientReason = insufficientReason(samples)
	case err != nil:
		return nil, nil, errors.Wrapf(err, "correlating %s", ticker)
	default:
		report.Correlation = result
	}

	if a.plotter != nil && len(samples) > 0 {
		if _, err := a.plotter.Plot(ticker, samples, result); err != nil {
			slog.Warn("could not plot ticker", "ticker", ticker, "error", err)
		}
	}

	slog.Info("analyzed ticker",
		"ticker", ticker,
		"headlines", report.HeadlineCount,
		"sentiment_days", report.DailySentimentCount,
		"aligned", len(samples),
		"insufficient", report.InsufficientData)
	return report, daily, nil
}

// latestIndicators computes over the bars after the last missing close.
func (a *Analyzer) latestIndicators(ticker string, bars []datamodels.PriceBar) *datamodels.IndicatorRow {
	tail := indicators.CompleteTail(bars)
	if len(tail) < len(bars) {
		slog.Warn("bars without close, indicators use the bars after the last gap",
			"ticker", ticker, "bars", len(bars), "used", len(tail))
	}
	if len(tail) == 0 {
		return nil
	}
	rows, err := indicators.Compute(tail, a.indicatorConfig)
	if err != nil {
		slog.Warn("indicators unavailable", "ticker", ticker, "error", err)
		return nil
	}
	return indicators.Latest(rows)
}

func insufficientReason(samples []datamodels.AlignedSample) string {
	switch len(samples) {
	case 0:
		return "no overlapping dates"
	case 1:
		return "single overlapping date"
	default:
		return "constant series"
	}
}

// publish writes the report to the metrics writer and the report store.
// Failures are logged; the report itself stands.
func (a *Analyzer) publish(ctx context.Context, runId uuid.UUID, report *datamodels.TickerReport, daily []datamodels.DailySentimentRow) {
	if a.metricsWriter != nil {
		metric, err := datamodels.NewTickerReportMetric(report)
		if err == nil {
			err = a.metricsWriter.Write(ctx, metric)
		}
		if err != nil {
			slog.Error("failed to write report metric", "ticker", report.Ticker, "error", err)
		}
	}
	if a.reportStore == nil {
		return
	}
	if len(daily) > 0 {
		if err := a.reportStore.WriteDailySentiment(ctx, report.Ticker, daily); err != nil {
			slog.Error("failed to store daily sentiment", "ticker", report.Ticker, "error", err)
		}
	}
	if err := a.reportStore.WriteCorrelationReport(ctx, runId, report); err != nil {
		slog.Error("failed to store report", "ticker", report.Ticker, "error", err)
	}
}
