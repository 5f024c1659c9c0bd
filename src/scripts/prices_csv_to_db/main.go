package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"newscorr/src/config"
	"newscorr/src/database"
	"newscorr/src/feeds"
	"newscorr/src/utils/general"
	"newscorr/src/utils/symbols"
)

// Loads a folder of <TICKER>.csv daily price files into the price_bar_records
// table so analysis.price_source can be set to db. Alias file names are stored
// under their canonical ticker.

func main() {
	if len(os.Args) != 2 {
		slog.Error("Usage: prices_csv_to_db <data_dir>")
		os.Exit(1)
	}
	dataDir := os.Args[1]
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		slog.Error("Data directory does not exist", "error", err)
		os.Exit(1)
	}
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		slog.Error("Failed to get files in data directory", "error", err)
		os.Exit(1)
	}
	slog.Info("Found files", "num_files", len(files))

	appConfig, err := config.Load()
	if err != nil {
		slog.Error("Failed to get newscorr config", "error", err)
		os.Exit(1)
	}
	db, err := database.NewDBConnection(appConfig.DatabaseConfig)
	if err != nil {
		slog.Error("Failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	dictionary, err := symbols.NewTickerDictionaryFromConfig(&appConfig.SymbolsConfig)
	if err != nil {
		slog.Error("Failed to load symbols", "error", err)
		os.Exit(1)
	}

	feed, err := feeds.NewPriceCsvFeedBuilder(dataDir).Build()
	if err != nil {
		slog.Error("Failed to build price feed", "error", err)
		os.Exit(1)
	}

	tickers := make([]string, 0, len(files))
	for _, file := range files {
		tickers = append(tickers, strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))))
	}
	canonical := make([]string, len(tickers))
	for i, ticker := range tickers {
		canonical[i] = dictionary.Canonical(ticker)
	}
	if !general.NoDuplicateItemsInSlice(canonical) {
		slog.Error("Several files map to the same canonical ticker", "files", tickers, "canonical", canonical)
		os.Exit(1)
	}

	ctx := context.Background()
	failed := make([]string, 0)
	for i, ticker := range tickers {
		bars, err := feed.LoadPrices(ctx, ticker)
		if err != nil {
			slog.Error("Failed to parse price csv", "ticker", ticker, "error", err)
			failed = append(failed, ticker)
			continue
		}
		if err := db.WritePriceBars(ctx, canonical[i], bars); err != nil {
			slog.Error("Failed to insert price bars", "ticker", canonical[i], "error", err)
			failed = append(failed, ticker)
			continue
		}
		slog.Info("Inserted price bars", "ticker", canonical[i], "bars", len(bars))
	}
	if len(failed) > 0 {
		slog.Error("Some files were not loaded", "tickers", failed)
		os.Exit(1)
	}
}
