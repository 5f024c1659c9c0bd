package feeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

const aaplCsv = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-03,101,103,100,102,102,1200
2024-01-02,99,101,98,100,100,1000
not-a-date,1,1,1,1,1,1
2024-01-04,102,104,101,,103,900
`

const newsCsv = `headline,url,publisher,date,stock
"Apple beats earnings, shares surge",https://a.example/1,Reuters,2020-06-05 10:30:00-04:00,AAPL
Apple faces lawsuit,https://a.example/2,Benzinga Newsdesk,2020-06-05 14:00:00-04:00,aapl
Microsoft rallies,https://b.example/3,Reuters,2020-06-06,MSFT
Undated headline,,Reuters,soon,AAPL
`

type FeedsTestSuite struct {
	suite.Suite
	ctx     context.Context
	dataDir string
}

func TestFeedsTestSuite(t *testing.T) {
	suite.Run(t, new(FeedsTestSuite))
}

func (s *FeedsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dataDir = s.T().TempDir()
	s.writeFile("AAPL.csv", aaplCsv)
	s.writeFile("news.csv", newsCsv)
}

func (s *FeedsTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dataDir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *FeedsTestSuite) priceFeed() *PriceCsvFeed {
	feed, err := NewPriceCsvFeedBuilder(s.dataDir).Build()
	s.Require().NoError(err)
	return feed
}

func (s *FeedsTestSuite) TestLoadPricesSortsAndDropsBadDates() {
	bars, err := s.priceFeed().LoadPrices(s.ctx, "aapl")
	s.Require().NoError(err)
	s.Require().Len(bars, 3)

	s.Equal(datamodels.NewDate(2024, 1, 2), bars[0].Date)
	s.Equal(datamodels.NewDate(2024, 1, 3), bars[1].Date)
	s.Equal(datamodels.NewDate(2024, 1, 4), bars[2].Date)
	s.InDelta(100.0, *bars[0].Close, 1e-12)
	s.InDelta(1000.0, *bars[0].Volume, 1e-12)
	s.Nil(bars[2].Close)
	s.InDelta(103.0, *bars[2].AdjClose, 1e-12)
}

func (s *FeedsTestSuite) TestLoadPricesHeaderIsCaseInsensitive() {
	s.writeFile("MSFT.csv", "\ufeffdate,CLOSE\n2024-01-02,10\n2024-01-03,11\n")
	bars, err := s.priceFeed().LoadPrices(s.ctx, "MSFT")
	s.Require().NoError(err)
	s.Len(bars, 2)
	s.Nil(bars[0].Open)
}

func (s *FeedsTestSuite) TestLoadPricesMissingFile() {
	_, err := s.priceFeed().LoadPrices(s.ctx, "NOPE")
	s.ErrorIs(err, errors.ErrUpstreamUnavailable)
}

func (s *FeedsTestSuite) TestLoadPricesMissingColumn() {
	s.writeFile("BAD.csv", "Date,Open\n2024-01-02,10\n")
	_, err := s.priceFeed().LoadPrices(s.ctx, "BAD")
	s.ErrorIs(err, errors.ErrMalformedSource)
}

func (s *FeedsTestSuite) TestLoadPricesDuplicateDate() {
	s.writeFile("DUP.csv", "Date,Close\n2024-01-02,10\n2024-01-02,11\n")
	_, err := s.priceFeed().LoadPrices(s.ctx, "DUP")
	s.ErrorIs(err, errors.ErrMalformedSource)
	s.ErrorIs(err, errors.ErrDuplicateDate)
}

func (s *FeedsTestSuite) TestLoadPricesEmptyTicker() {
	_, err := s.priceFeed().LoadPrices(s.ctx, " ")
	s.ErrorIs(err, errors.ErrInvalidInput)
}

func (s *FeedsTestSuite) TestLoadPricesDropInvalid() {
	s.writeFile("INV.csv", "Date,Low,High,Close\n2024-01-02,9,11,10\n2024-01-03,9,11,20\n")
	feed, err := NewPriceCsvFeedBuilder(s.dataDir).WithDropInvalid(true).Build()
	s.Require().NoError(err)
	bars, err := feed.LoadPrices(s.ctx, "INV")
	s.Require().NoError(err)
	s.Len(bars, 1)

	bars, err = s.priceFeed().LoadPrices(s.ctx, "INV")
	s.Require().NoError(err)
	s.Len(bars, 2)
}

func (s *FeedsTestSuite) TestLoadNews() {
	feed, err := NewNewsCsvFeedBuilder(filepath.Join(s.dataDir, "news.csv")).Build()
	s.Require().NoError(err)

	records, err := feed.LoadNews(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 4)

	s.Equal("Apple beats earnings, shares surge", records[0].Headline)
	s.Equal("Reuters", records[0].Publisher)
	s.Equal("AAPL", records[1].Stock)
	date, ok := records[0].Date()
	s.True(ok)
	s.Equal(datamodels.NewDate(2020, 6, 5), date)
	s.Nil(records[3].Timestamp)
}

func (s *FeedsTestSuite) TestLoadNewsMissingSource() {
	feed, err := NewNewsCsvFeedBuilder(filepath.Join(s.dataDir, "missing.csv")).Build()
	s.Require().NoError(err)
	_, err = feed.LoadNews(s.ctx)
	s.ErrorIs(err, errors.ErrUpstreamUnavailable)
}

func (s *FeedsTestSuite) TestLoadNewsMissingHeadlineColumn() {
	path := s.writeFile("bad_news.csv", "text,date\nhello,2020-01-01\n")
	feed, err := NewNewsCsvFeedBuilder(path).Build()
	s.Require().NoError(err)
	_, err = feed.LoadNews(s.ctx)
	s.ErrorIs(err, errors.ErrMalformedSource)
}

func (s *FeedsTestSuite) TestFilterByTicker() {
	records := []datamodels.HeadlineRecord{
		{Headline: "a", Stock: "AAPL"},
		{Headline: "b", Stock: "MSFT"},
		{Headline: "c", Stock: "FB"},
	}
	s.Len(FilterByTicker(records, "aapl", nil), 1)
	s.Len(FilterByTicker(records, "META", []string{"fb"}), 1)
	s.Empty(FilterByTicker(records, "TSLA", nil))

	untagged := []datamodels.HeadlineRecord{{Headline: "x"}, {Headline: "y"}}
	s.Len(FilterByTicker(untagged, "AAPL", nil), 2)
}

func (s *FeedsTestSuite) TestParseTimestamp() {
	cases := map[string]time.Time{
		"2020-06-05":                time.Date(2020, 6, 5, 0, 0, 0, 0, time.UTC),
		"2020-06-05 10:30:00":       time.Date(2020, 6, 5, 10, 30, 0, 0, time.UTC),
		"2020-06-05T10:30:00Z":      time.Date(2020, 6, 5, 10, 30, 0, 0, time.UTC),
		"06/05/2020":                time.Date(2020, 6, 5, 0, 0, 0, 0, time.UTC),
		"2020-06-05 10:30:00-04:00": time.Date(2020, 6, 5, 14, 30, 0, 0, time.UTC),
	}
	for value, want := range cases {
		got, err := ParseTimestamp(value)
		s.Require().NoError(err, value)
		s.True(want.Equal(got), value)
	}

	_, err := ParseTimestamp("yesterday")
	s.ErrorIs(err, errors.ErrMalformedSource)
	_, err = ParseTimestamp("")
	s.Error(err)
}

func (s *FeedsTestSuite) TestJoinSource() {
	s.Equal("gs://bucket/prices/AAPL.csv", JoinSource("gs://bucket/prices", "AAPL.csv"))
	s.Equal(filepath.Join("data", "AAPL.csv"), JoinSource("data", "AAPL.csv"))
}

type fakePriceDatabase struct {
	bars map[string][]datamodels.PriceBar
}

func (f *fakePriceDatabase) WritePriceBars(ctx context.Context, ticker string, bars []datamodels.PriceBar) error {
	f.bars[ticker] = bars
	return nil
}

func (f *fakePriceDatabase) GetPriceBars(ctx context.Context, ticker string, start, end *datamodels.Date) ([]datamodels.PriceBar, error) {
	return f.bars[ticker], nil
}

func (s *FeedsTestSuite) TestPriceDbFeed() {
	db := &fakePriceDatabase{bars: map[string][]datamodels.PriceBar{}}
	s.Require().NoError(db.WritePriceBars(s.ctx, "AAPL", []datamodels.PriceBar{{Date: datamodels.NewDate(2024, 1, 2), Close: datamodels.Float(1)}}))

	feed := NewPriceDbFeed(db)
	bars, err := feed.LoadPrices(s.ctx, "AAPL")
	s.Require().NoError(err)
	s.Len(bars, 1)

	_, err = feed.LoadPrices(s.ctx, "MSFT")
	s.ErrorIs(err, errors.ErrUpstreamUnavailable)
}
