package feeds

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// PriceFeed loads the daily bars of one ticker in ascending date order.
type PriceFeed interface {
	GetName() string
	LoadPrices(ctx context.Context, ticker string) ([]datamodels.PriceBar, error)
}

// PriceCsvFeed reads <dataDir>/<TICKER>.csv files with a Date column and OHLCV columns.
type PriceCsvFeed struct {
	dataDir     string
	dateColumn  string
	closeColumn string
	dropInvalid bool
}

type PriceCsvFeedBuilder struct {
	dataDir     string
	dateColumn  string
	closeColumn string
	dropInvalid bool
}

func NewPriceCsvFeedBuilder(dataDir string) *PriceCsvFeedBuilder {
	return &PriceCsvFeedBuilder{
		dataDir:     dataDir,
		dateColumn:  "Date",
		closeColumn: "Close",
	}
}

func (b *PriceCsvFeedBuilder) WithDateColumn(name string) *PriceCsvFeedBuilder {
	b.dateColumn = name
	return b
}

func (b *PriceCsvFeedBuilder) WithCloseColumn(name string) *PriceCsvFeedBuilder {
	b.closeColumn = name
	return b
}

// WithDropInvalid drops bars that fail PriceBar.Validate instead of keeping them.
func (b *PriceCsvFeedBuilder) WithDropInvalid(dropInvalid bool) *PriceCsvFeedBuilder {
	b.dropInvalid = dropInvalid
	return b
}

func (b *PriceCsvFeedBuilder) Build() (*PriceCsvFeed, error) {
	if b.dataDir == "" {
		return nil, errors.New("price data dir is required")
	}
	if b.dateColumn == "" || b.closeColumn == "" {
		return nil, errors.New("date and close column names are required")
	}
	return &PriceCsvFeed{
		dataDir:     b.dataDir,
		dateColumn:  b.dateColumn,
		closeColumn: b.closeColumn,
		dropInvalid: b.dropInvalid,
	}, nil
}

func (f *PriceCsvFeed) GetName() string {
	return "PriceCsvFeed_" + f.dataDir
}

// SourceFor returns the file a ticker's prices are read from.
func (f *PriceCsvFeed) SourceFor(ticker string) string {
	return JoinSource(f.dataDir, strings.ToUpper(strings.TrimSpace(ticker))+".csv")
}

// LoadPrices reads a ticker's price file. A missing file is ErrUpstreamUnavailable;
// a file without the date or close column, or with a repeated date, is
// ErrMalformedSource. Rows with unparseable dates are dropped, unparseable
// numbers become nil.
func (f *PriceCsvFeed) LoadPrices(ctx context.Context, ticker string) ([]datamodels.PriceBar, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty ticker")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := f.SourceFor(ticker)
	reader, err := OpenSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	table, err := readCsvTable(reader, source)
	if err != nil {
		return nil, err
	}

	dateIdx := table.column(f.dateColumn)
	closeIdx := table.column(f.closeColumn)
	if dateIdx < 0 || closeIdx < 0 {
		return nil, errors.Wrapf(errors.ErrMalformedSource, "%s needs %q and %q columns", source, f.dateColumn, f.closeColumn)
	}
	openIdx := table.column("Open")
	highIdx := table.column("High")
	lowIdx := table.column("Low")
	adjCloseIdx := table.column("Adj Close", "Adj_Close", "AdjClose")
	volumeIdx := table.column("Volume")

	bars := make([]datamodels.PriceBar, 0, len(table.records))
	badDates, invalid := 0, 0
	for _, record := range table.records {
		ts, err := ParseTimestamp(cell(record, dateIdx))
		if err != nil {
			badDates++
			continue
		}
		bar := datamodels.PriceBar{
			Date:     datamodels.DateOf(ts),
			Open:     floatCell(record, openIdx),
			High:     floatCell(record, highIdx),
			Low:      floatCell(record, lowIdx),
			Close:    floatCell(record, closeIdx),
			AdjClose: floatCell(record, adjCloseIdx),
			Volume:   floatCell(record, volumeIdx),
		}
		if err := bar.Validate(); err != nil {
			invalid++
			if f.dropInvalid {
				continue
			}
			slog.Debug("price bar fails validation", "ticker", ticker, "error", err)
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	for i := 1; i < len(bars); i++ {
		if bars[i].Date == bars[i-1].Date {
			return nil, errors.Wrapef(errors.ErrMalformedSource, errors.ErrDuplicateDate, "%s repeats %s", source, bars[i].Date)
		}
	}

	if badDates > 0 || invalid > 0 || table.badRecords > 0 {
		slog.Warn("price rows skipped or flagged",
			"ticker", ticker,
			"unparseable_dates", badDates,
			"invalid_bars", invalid,
			"malformed_records", table.badRecords)
	}
	slog.Debug("loaded prices", "ticker", ticker, "bars", len(bars), "source", source)

	return bars, nil
}
