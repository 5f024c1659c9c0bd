package metrics

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

func reportMetric(t *testing.T, ticker string, coefficient float64) datamodels.Metric {
	t.Helper()
	report := &datamodels.TickerReport{
		Ticker: ticker,
		RunId:  "run-1",
		Correlation: &datamodels.CorrelationResult{
			Coefficient: coefficient,
			SampleCount: 3,
		},
		GeneratedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
	}
	metric, err := datamodels.NewTickerReportMetric(report)
	require.NoError(t, err)
	return metric
}

func TestFileMetricsWriterCSV(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileMetricsWriter(dir, FormatCSV)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, writer.Write(ctx, reportMetric(t, "AAPL", 0.5)))
	require.NoError(t, writer.Write(ctx, reportMetric(t, "AAPL", 0.6)))
	require.NoError(t, writer.Close())

	f, err := os.Open(writer.FilePath("AAPL"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "AAPL", rows[1][2])
	assert.Equal(t, datamodels.MetricNameTickerReport, rows[1][4])
	assert.Contains(t, rows[2][5], `"coefficient":0.6`)
}

func TestFileMetricsWriterJSON(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFileMetricsWriter(dir, FormatJSON)
	require.NoError(t, err)

	require.NoError(t, writer.Write(context.Background(), reportMetric(t, "MSFT", -0.2)))
	require.NoError(t, writer.Close())

	f, err := os.Open(writer.FilePath("MSFT"))
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var line struct {
		MetricGeneratorName string                  `json:"metric_generator_name"`
		MetricValue         datamodels.TickerReport `json:"metric_value"`
	}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
	assert.Equal(t, "MSFT", line.MetricGeneratorName)
	assert.InDelta(t, -0.2, line.MetricValue.Correlation.Coefficient, 1e-12)
}

func TestFileMetricsWriterRejectsUnknownFormat(t *testing.T) {
	_, err := NewFileMetricsWriter(t.TempDir(), FileFormat("xml"))
	assert.Error(t, err)
}

func TestMemoryMetricsWriterKeepsLatestPerTicker(t *testing.T) {
	writer := NewMemoryMetricsWriter()
	ctx := context.Background()
	require.NoError(t, writer.Write(ctx, reportMetric(t, "MSFT", 0.1)))
	require.NoError(t, writer.Write(ctx, reportMetric(t, "AAPL", 0.2)))
	require.NoError(t, writer.Write(ctx, reportMetric(t, "AAPL", 0.3)))
	require.NoError(t, writer.Write(ctx, datamodels.Metric{MetricName: "other"}))

	reports := writer.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, "AAPL", reports[0].Ticker)
	assert.InDelta(t, 0.3, reports[0].Correlation.Coefficient, 1e-12)

	report, ok := writer.Report("msft")
	require.True(t, ok)
	assert.Equal(t, "MSFT", report.Ticker)
	_, ok = writer.Report("TSLA")
	assert.False(t, ok)
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	w.writes++
	return assert.AnError
}

func (w *failingWriter) Close() error { return nil }

func TestMultiMetricsWriterContinuesPastFailures(t *testing.T) {
	failing := &failingWriter{}
	memory := NewMemoryMetricsWriter()
	multi := NewMultiMetricsWriter(failing, memory)

	err := multi.Write(context.Background(), reportMetric(t, "AAPL", 0.4))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, failing.writes)
	assert.Len(t, memory.Reports(), 1)
	assert.Nil(t, multi.WebsocketWriter())
	assert.NoError(t, multi.Close())
}

func TestBuildMetricsWriter(t *testing.T) {
	memory := NewMemoryMetricsWriter()
	multi, err := BuildMetricsWriter(nil, nil, memory)
	require.NoError(t, err)
	assert.Len(t, multi.writers, 1)

	cfg := &datamodels.MetricsWriterConfig{WsWriter: true, FileWriter: true, FilePath: t.TempDir()}
	multi, err = BuildMetricsWriter(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, multi.writers, 2)
	assert.NotNil(t, multi.WebsocketWriter())

	_, err = BuildMetricsWriter(&datamodels.MetricsWriterConfig{DbWriter: true}, nil)
	assert.Error(t, err)
}

func TestWebsocketMetricsWriterBroadcasts(t *testing.T) {
	writer := NewWebSocketMetricsWriter()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		writer.AddClient(conn)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return writer.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, writer.Write(context.Background(), reportMetric(t, "AAPL", 0.7)))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var message struct {
		MetricGeneratorName string                  `json:"metric_generator_name"`
		MetricValue         datamodels.TickerReport `json:"metric_value"`
	}
	require.NoError(t, client.ReadJSON(&message))
	assert.Equal(t, "AAPL", message.MetricGeneratorName)
	assert.InDelta(t, 0.7, message.MetricValue.Correlation.Coefficient, 1e-12)

	require.NoError(t, writer.Close())
	assert.Equal(t, 0, writer.ClientCount())
}

func TestSentimentReturnPlotter(t *testing.T) {
	dir := t.TempDir()
	samples := []datamodels.AlignedSample{
		{Date: datamodels.NewDate(2024, 1, 2), AvgSentiment: 0.1, HeadlineCount: 2, DailyReturn: 0.01},
		{Date: datamodels.NewDate(2024, 1, 3), AvgSentiment: -0.2, HeadlineCount: 1, DailyReturn: -0.02},
		{Date: datamodels.NewDate(2024, 1, 4), AvgSentiment: 0.4, HeadlineCount: 3, DailyReturn: 0.015},
	}
	result := &datamodels.CorrelationResult{Coefficient: 0.9, SampleCount: 3}

	paths, err := NewSentimentReturnPlotter(dir).Plot("aapl", samples, result)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, paths[0], "AAPL_scatter.png")

	_, err = NewSentimentReturnPlotter(dir).Plot("aapl", nil, nil)
	assert.Error(t, err)
}

func TestRegressionLine(t *testing.T) {
	assert.Nil(t, regressionLine(nil))
	line := regressionLine(stats.Series{{X: 2, Y: 4}, {X: 0, Y: 0}, {X: 1, Y: 2}})
	require.Len(t, line, 3)
	assert.InDelta(t, 0.0, line[0].X, 1e-12)
	assert.InDelta(t, 4.0, line[2].Y, 1e-9)
}

type fakeMetricsDatabase struct {
	metrics []datamodels.Metric
	err     error
}

func (f *fakeMetricsDatabase) WriteNewMetric(ctx context.Context, metric datamodels.Metric) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.metrics = append(f.metrics, metric)
	return int64(len(f.metrics)), nil
}

func TestDBMetricsWriterStampsMissingTime(t *testing.T) {
	db := &fakeMetricsDatabase{}
	writer := NewDBMetricsWriter(db)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	writer.now = func() time.Time { return fixed }

	metric := reportMetric(t, "AAPL", 0.4)
	metric.MetricTime = time.Time{}
	require.NoError(t, writer.Write(context.Background(), metric))
	require.Len(t, db.metrics, 1)
	assert.Equal(t, fixed, db.metrics[0].MetricTime)

	db.err = assert.AnError
	err := writer.Write(context.Background(), metric)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
}
