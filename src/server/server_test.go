package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"newscorr/src/datamodels"
	"newscorr/src/metrics"
)

type fakeReportDatabase struct {
	rows []datamodels.CorrelationReport
}

func (f *fakeReportDatabase) CreateAnalysisRun(ctx context.Context, tickers []string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeReportDatabase) FinishAnalysisRun(ctx context.Context, runId uuid.UUID, succeeded int, failed int) error {
	return nil
}

func (f *fakeReportDatabase) WriteCorrelationReport(ctx context.Context, runId uuid.UUID, report *datamodels.TickerReport) error {
	return nil
}

func (f *fakeReportDatabase) GetCorrelationReports(ctx context.Context, ticker string, limit int) ([]datamodels.CorrelationReport, error) {
	out := []datamodels.CorrelationReport{}
	for _, row := range f.rows {
		if strings.EqualFold(row.Ticker, ticker) && len(out) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeReportDatabase) GetLatestCorrelationReports(ctx context.Context) ([]datamodels.CorrelationReport, error) {
	return f.rows, nil
}

func (f *fakeReportDatabase) WriteDailySentiment(ctx context.Context, ticker string, rows []datamodels.DailySentimentRow) error {
	return nil
}

func (f *fakeReportDatabase) SubscribeReports(ctx context.Context, subscriberId string) (<-chan string, error) {
	return make(chan string), nil
}

func (f *fakeReportDatabase) UnsubscribeReports(subscriberId string) error {
	return nil
}

type ServerTestSuite struct {
	suite.Suite
	ctx      context.Context
	reports  *metrics.MemoryMetricsWriter
	wsWriter *metrics.WebsocketMetricsWriter
	server   *Server
	http     *httptest.Server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.reports = metrics.NewMemoryMetricsWriter()
	s.wsWriter = metrics.NewWebSocketMetricsWriter()

	metric, err := datamodels.NewTickerReportMetric(&datamodels.TickerReport{
		Ticker:      "AAPL",
		Correlation: &datamodels.CorrelationResult{Coefficient: 0.42, SampleCount: 10},
		GeneratedAt: time.Now(),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.reports.Write(s.ctx, metric))

	s.server = NewServer(datamodels.ServerConfig{Port: "0"}, datamodels.WSConfig{}).
		WithMetricsWriter(s.wsWriter).
		WithReports(s.reports)
	handler, err := s.server.Handler()
	s.Require().NoError(err)
	s.http = httptest.NewServer(handler)
}

func (s *ServerTestSuite) TearDownTest() {
	s.http.Close()
}

func (s *ServerTestSuite) get(path string) *http.Response {
	resp, err := http.Get(s.http.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *ServerTestSuite) TestHealth() {
	resp := s.get("/health")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerTestSuite) TestReports() {
	resp := s.get("/reports")
	s.Equal(http.StatusOK, resp.StatusCode)
	var reports []datamodels.TickerReport
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&reports))
	s.Require().Len(reports, 1)
	s.Equal("AAPL", reports[0].Ticker)
}

func (s *ServerTestSuite) TestTickerReport() {
	resp := s.get("/reports/aapl")
	s.Equal(http.StatusOK, resp.StatusCode)
	var report datamodels.TickerReport
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&report))
	s.InDelta(0.42, report.Correlation.Coefficient, 1e-12)

	s.Equal(http.StatusNotFound, s.get("/reports/TSLA").StatusCode)
}

func (s *ServerTestSuite) TestHistoryWithoutDatabase() {
	s.Equal(http.StatusServiceUnavailable, s.get("/reports/AAPL/history").StatusCode)
}

func (s *ServerTestSuite) TestHistoryFromDatabase() {
	db := &fakeReportDatabase{rows: []datamodels.CorrelationReport{
		{Ticker: "AAPL", SampleCount: 3},
		{Ticker: "AAPL", SampleCount: 2},
		{Ticker: "MSFT", SampleCount: 1},
	}}
	server := NewServer(datamodels.ServerConfig{}, datamodels.WSConfig{}).
		WithMetricsWriter(s.wsWriter).
		WithReports(s.reports).
		WithReportDatabase(db)
	handler, err := server.Handler()
	s.Require().NoError(err)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/reports/aapl/history?limit=1", nil))
	s.Equal(http.StatusOK, recorder.Code)
	var rows []datamodels.CorrelationReport
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &rows))
	s.Len(rows, 1)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/reports/aapl/history?limit=zero", nil))
	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ServerTestSuite) TestStoredReports() {
	s.Equal(http.StatusServiceUnavailable, s.get("/reports/stored").StatusCode)

	db := &fakeReportDatabase{rows: []datamodels.CorrelationReport{
		{Ticker: "AAPL", SampleCount: 3},
		{Ticker: "MSFT", SampleCount: 1},
	}}
	server := NewServer(datamodels.ServerConfig{}, datamodels.WSConfig{}).
		WithMetricsWriter(s.wsWriter).
		WithReports(s.reports).
		WithReportDatabase(db)
	handler, err := server.Handler()
	s.Require().NoError(err)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/reports/stored", nil))
	s.Equal(http.StatusOK, recorder.Code)
	var rows []datamodels.CorrelationReport
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &rows))
	s.Len(rows, 2)
}

func (s *ServerTestSuite) TestHandlerNeedsMetricsWriter() {
	_, err := NewServer(datamodels.ServerConfig{}, datamodels.WSConfig{}).Handler()
	s.Error(err)
}

func (s *ServerTestSuite) TestWebSocketStream() {
	url := "ws" + strings.TrimPrefix(s.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var welcome WebSocketResponse
	s.Require().NoError(conn.ReadJSON(&welcome))
	s.True(welcome.Success)

	s.Require().NoError(conn.WriteJSON(WebSocketMessage{MessageType: Reports, Message: json.RawMessage(`"aapl"`)}))
	var response struct {
		Success bool                    `json:"success"`
		Data    datamodels.TickerReport `json:"data"`
	}
	s.Require().NoError(conn.ReadJSON(&response))
	s.True(response.Success)
	s.Equal("AAPL", response.Data.Ticker)

	s.Require().NoError(conn.WriteJSON(WebSocketMessage{MessageType: "bogus"}))
	var failure WebSocketResponse
	s.Require().NoError(conn.ReadJSON(&failure))
	s.False(failure.Success)

	metric, err := datamodels.NewTickerReportMetric(&datamodels.TickerReport{Ticker: "MSFT", GeneratedAt: time.Now()})
	s.Require().NoError(err)
	s.Require().NoError(s.wsWriter.Write(s.ctx, metric))
	var broadcast struct {
		MetricGeneratorName string `json:"metric_generator_name"`
	}
	s.Require().NoError(conn.ReadJSON(&broadcast))
	s.Equal("MSFT", broadcast.MetricGeneratorName)
}

func (s *ServerTestSuite) TestStoredReportMetric() {
	metric, err := storedReportMetric(datamodels.CorrelationReport{Ticker: "AAPL", RunId: uuid.New()})
	s.Require().NoError(err)
	s.Equal("AAPL", metric.MetricGeneratorName)
	s.Equal(MetricNameStoredReport, metric.MetricName)
	s.True(json.Valid(metric.MetricValue))
}
