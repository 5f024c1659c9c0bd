package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"newscorr/src/aggregators"
	"newscorr/src/analysis"
	"newscorr/src/config"
	"newscorr/src/database"
	"newscorr/src/datamodels"
	"newscorr/src/feeds"
	"newscorr/src/metrics"
	"newscorr/src/returns"
	"newscorr/src/server"
	"newscorr/src/utils/errors"
	"newscorr/src/utils/general"
	"newscorr/src/utils/logging"
	"newscorr/src/utils/symbols"
	"newscorr/src/version"
)

func main() {
	os.Exit(start())
}

// start returns the exit code so deferred closers run before os.Exit.
func start() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	appConfig, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}

	logCloser, err := logging.Initialize(appConfig.LogConfig)
	if err != nil {
		slog.Error("Failed to initialize logging", "error", err)
		return 1
	}
	defer logCloser.Close()

	slog.Info("Ramping up newscorr", version.LogAttrs())

	if err := run(ctx, appConfig); err != nil {
		slog.Error("newscorr failed", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, appConfig *datamodels.AppConfig) error {
	var db database.NewscorrDatabase
	if appConfig.DatabaseConfig.Enabled {
		conn, err := database.NewDBConnection(appConfig.DatabaseConfig)
		if err != nil {
			return err
		}
		defer conn.Close()
		db = conn
	}

	dictionary, err := symbols.NewTickerDictionaryFromConfig(&appConfig.SymbolsConfig)
	if err != nil {
		return err
	}

	reports := metrics.NewMemoryMetricsWriter()
	metricsWriter, err := metrics.BuildMetricsWriter(appConfig.MetricsWriter, db, reports)
	if err != nil {
		return err
	}
	defer metricsWriter.Close()

	if appConfig.ServerConfig.Enabled {
		wsWriter := metricsWriter.WebsocketWriter()
		if wsWriter == nil {
			wsWriter = metrics.NewWebSocketMetricsWriter()
			metricsWriter.AddWriter(wsWriter)
		}
		srv := server.NewServer(appConfig.ServerConfig, config.NewWSConfig(appConfig.ServerConfig)).
			WithMetricsWriter(wsWriter).
			WithReports(reports)
		if db != nil {
			srv = srv.WithReportDatabase(db)
		}
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error("Server failed", "error", err)
			}
		}()
	}

	analyzer, err := buildAnalyzer(appConfig, db, dictionary, metricsWriter)
	if err != nil {
		return err
	}

	results, err := analyzer.Run(ctx, appConfig.Analysis.Tickers, appConfig.Analysis.Workers)
	logReports(results)
	if err := batchError(err); err != nil {
		return err
	}
	if ctx.Err() != nil {
		slog.Info("Interrupted, remaining tickers were not analyzed")
	}

	slog.Info("System usage", "usage", general.GetSystemUsage())

	if appConfig.ServerConfig.Enabled {
		slog.Info("Batch finished, serving reports until interrupted")
		<-ctx.Done()
		slog.Info("Shutting down...")
	}
	return nil
}

// batchError drops the interruption error; the partial batch was already reported.
func batchError(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func logReports(results []*datamodels.TickerReport) {
	for _, report := range results {
		switch {
		case report.Failed():
			slog.Warn("ticker failed", "ticker", report.Ticker, "error", report.Error)
		case report.InsufficientData:
			slog.Info("no correlation available", "ticker", report.Ticker, "reason", report.InsufficientReason)
		default:
			slog.Info("correlation",
				"ticker", report.Ticker,
				"coefficient", report.Correlation.Coefficient,
				"samples", report.Correlation.SampleCount,
				"start", report.Correlation.Window.Start,
				"end", report.Correlation.Window.End)
		}
	}
}

func buildAnalyzer(appConfig *datamodels.AppConfig, db database.NewscorrDatabase, dictionary *symbols.TickerDictionary, metricsWriter metrics.MetricsWriter) (*analysis.Analyzer, error) {
	var priceFeed feeds.PriceFeed
	if appConfig.Analysis.PriceSource == datamodels.PriceSourceDb {
		priceFeed = feeds.NewPriceDbFeed(db)
	} else {
		csvFeed, err := feeds.NewPriceCsvFeedBuilder(appConfig.Analysis.DataDir).Build()
		if err != nil {
			return nil, err
		}
		priceFeed = csvFeed
	}

	newsFeed, err := feeds.NewNewsCsvFeedBuilder(appConfig.Analysis.NewsSource).Build()
	if err != nil {
		return nil, err
	}

	sentimentFunc, err := aggregators.GetAggregatorFunc(appConfig.Analysis.SentimentAggregator)
	if err != nil {
		return nil, err
	}

	builder := analysis.NewAnalyzer().
		WithAggregator(aggregators.NewDailySentimentAggregatorBuilder().WithSentimentFunc(sentimentFunc).Build()).
		WithPriceFeed(priceFeed).
		WithNewsFeed(newsFeed).
		WithIndicatorConfig(appConfig.Indicators).
		WithCalculator(returns.NewCalculator(appConfig.Returns)).
		WithMetricsWriter(metricsWriter).
		WithTickerDictionary(dictionary)
	if appConfig.Analysis.PersistResults && db != nil {
		builder = builder.WithReportStore(db)
	}
	if appConfig.PlotConfig.Enabled {
		builder = builder.WithPlotter(metrics.NewSentimentReturnPlotter(appConfig.PlotConfig.OutputDir))
	}
	return builder.Build()
}
