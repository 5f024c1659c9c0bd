package feeds

import (
	"context"
	"log/slog"
	"strings"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// NewsFeed loads the bulk headline dataset.
type NewsFeed interface {
	GetName() string
	LoadNews(ctx context.Context) ([]datamodels.HeadlineRecord, error)
}

type NewsCsvFeed struct {
	source         string
	headlineColumn string
	dateColumn     string
}

type NewsCsvFeedBuilder struct {
	source         string
	headlineColumn string
	dateColumn     string
}

func NewNewsCsvFeedBuilder(source string) *NewsCsvFeedBuilder {
	return &NewsCsvFeedBuilder{
		source:         source,
		headlineColumn: "headline",
		dateColumn:     "date",
	}
}

func (b *NewsCsvFeedBuilder) WithHeadlineColumn(name string) *NewsCsvFeedBuilder {
	b.headlineColumn = name
	return b
}

func (b *NewsCsvFeedBuilder) WithDateColumn(name string) *NewsCsvFeedBuilder {
	b.dateColumn = name
	return b
}

func (b *NewsCsvFeedBuilder) Build() (*NewsCsvFeed, error) {
	if b.source == "" {
		return nil, errors.New("news source is required")
	}
	return &NewsCsvFeed{
		source:         b.source,
		headlineColumn: b.headlineColumn,
		dateColumn:     b.dateColumn,
	}, nil
}

func (f *NewsCsvFeed) GetName() string {
	return "NewsCsvFeed_" + f.source
}

// LoadNews reads every headline of the source. A missing source is
// ErrUpstreamUnavailable and a source without headline or date columns is
// ErrMalformedSource. Records with unparseable dates are kept with a nil timestamp.
func (f *NewsCsvFeed) LoadNews(ctx context.Context) ([]datamodels.HeadlineRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := OpenSource(ctx, f.source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	table, err := readCsvTable(reader, f.source)
	if err != nil {
		return nil, err
	}

	headlineIdx := table.column(f.headlineColumn, "title")
	dateIdx := table.column(f.dateColumn, "published_at", "datetime")
	if headlineIdx < 0 || dateIdx < 0 {
		return nil, errors.Wrapf(errors.ErrMalformedSource, "%s needs %q and %q columns", f.source, f.headlineColumn, f.dateColumn)
	}
	publisherIdx := table.column("publisher", "source")
	urlIdx := table.column("url", "link")
	stockIdx := table.column("stock", "ticker", "symbol")

	records := make([]datamodels.HeadlineRecord, 0, len(table.records))
	badDates := 0
	for _, record := range table.records {
		headline := datamodels.HeadlineRecord{
			Headline:  cell(record, headlineIdx),
			Publisher: cell(record, publisherIdx),
			URL:       cell(record, urlIdx),
			Stock:     strings.ToUpper(cell(record, stockIdx)),
		}
		if ts, err := ParseTimestamp(cell(record, dateIdx)); err == nil {
			headline.Timestamp = &ts
		} else {
			badDates++
		}
		records = append(records, headline)
	}

	if badDates > 0 || table.badRecords > 0 {
		slog.Warn("news rows with problems",
			"source", f.source,
			"unparseable_dates", badDates,
			"malformed_records", table.badRecords)
	}
	slog.Info("loaded news", "source", f.source, "records", len(records))

	return records, nil
}

// FilterByTicker keeps the records tagged with the ticker or one of its aliases,
// ignoring case. Records from a source that carries no tags at all are
// returned unfiltered.
func FilterByTicker(records []datamodels.HeadlineRecord, ticker string, aliases []string) []datamodels.HeadlineRecord {
	tagged := false
	for _, record := range records {
		if record.Stock != "" {
			tagged = true
			break
		}
	}
	if !tagged {
		return records
	}

	wanted := map[string]bool{strings.ToUpper(strings.TrimSpace(ticker)): true}
	for _, alias := range aliases {
		wanted[strings.ToUpper(strings.TrimSpace(alias))] = true
	}

	filtered := make([]datamodels.HeadlineRecord, 0)
	for _, record := range records {
		if wanted[strings.ToUpper(record.Stock)] {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
