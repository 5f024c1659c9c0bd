package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"newscorr/src/database"
	"newscorr/src/datamodels"
	"newscorr/src/metrics"
	"newscorr/src/utils/errors"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr           string
	upgrader       websocket.Upgrader
	httpMux        *http.ServeMux
	metricsWriter  *metrics.WebsocketMetricsWriter
	reports        *metrics.MemoryMetricsWriter
	reportDb       database.ReportDatabase
	reportEndpoint string
	healthEndpoint string
}

func NewServer(config datamodels.ServerConfig, wsConfig datamodels.WSConfig) *Server {
	s := &Server{
		addr:           ":" + config.Port,
		upgrader:       wsConfig.Upgrader,
		httpMux:        http.NewServeMux(),
		reportEndpoint: config.ReportEndpoint,
		healthEndpoint: config.HealthEndpoint,
	}
	if s.reportEndpoint == "" {
		s.reportEndpoint = "/reports"
	}
	if s.healthEndpoint == "" {
		s.healthEndpoint = "/health"
	}
	return s
}

func (s *Server) WithMetricsWriter(metricsWriter *metrics.WebsocketMetricsWriter) *Server {
	s.metricsWriter = metricsWriter
	return s
}

// WithReports serves the reports collected in memory by the current process.
func (s *Server) WithReports(reports *metrics.MemoryMetricsWriter) *Server {
	s.reports = reports
	return s
}

// WithReportDatabase serves stored report history and relays reports written
// by other processes to websocket clients.
func (s *Server) WithReportDatabase(db database.ReportDatabase) *Server {
	s.reportDb = db
	return s
}

// Handler registers every route and returns the mux.
func (s *Server) Handler() (http.Handler, error) {
	if s.metricsWriter == nil {
		return nil, errors.New("metrics writer is nil")
	}
	if s.reports == nil {
		s.reports = metrics.NewMemoryMetricsWriter()
	}
	s.RegisterHealthCheck()
	s.RegisterReportHandlers()
	s.RegisterWebSocketHandler()
	s.RegisterSwagger()
	return s.httpMux, nil
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.reportDb != nil {
		go s.relayReportNotifications(ctx)
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down server", "error", err)
		}
		s.metricsWriter.Close()
	}()

	slog.Info("Starting server", "addr", s.addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// relayReportNotifications forwards reports announced through postgres to websocket clients.
func (s *Server) relayReportNotifications(ctx context.Context) {
	subscriberId := uuid.NewString()
	updates, err := s.reportDb.SubscribeReports(ctx, subscriberId)
	if err != nil {
		slog.Error("Failed to subscribe to report notifications", "error", err)
		return
	}
	defer func() {
		if err := s.reportDb.UnsubscribeReports(subscriberId); err != nil {
			slog.Debug("unsubscribe failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ticker, ok := <-updates:
			if !ok {
				return
			}
			rows, err := s.reportDb.GetCorrelationReports(ctx, ticker, 1)
			if err != nil || len(rows) == 0 {
				slog.Warn("Could not load notified report", "ticker", ticker, "error", err)
				continue
			}
			metric, err := storedReportMetric(rows[0])
			if err != nil {
				slog.Error("Could not encode stored report", "ticker", ticker, "error", err)
				continue
			}
			if err := s.metricsWriter.Write(ctx, metric); err != nil {
				slog.Warn("Could not relay stored report", "ticker", ticker, "error", err)
			}
		}
	}
}

func storedReportMetric(row datamodels.CorrelationReport) (datamodels.Metric, error) {
	value, err := json.Marshal(row)
	if err != nil {
		return datamodels.Metric{}, err
	}
	return datamodels.Metric{
		MetricGeneratorId:   row.RunId.String(),
		MetricGeneratorName: row.Ticker,
		MetricGeneratorType: datamodels.MetricGeneratorTypeTicker,
		MetricTime:          row.GeneratedAt,
		MetricName:          MetricNameStoredReport,
		MetricValue:         value,
	}, nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	s.metricsWriter.AddClient(conn)
	defer s.metricsWriter.RemoveClient(conn)

	slog.Info("Client connected", "remote", conn.RemoteAddr().String())

	welcomeMessage := WebSocketResponse{
		Success: true,
		Data:    "Welcome to the newscorr report stream",
	}
	if err := s.metricsWriter.Send(conn, welcomeMessage); err != nil {
		slog.Error("Failed to send welcome message", "error", err)
		return
	}

	for {
		mType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Error reading message", "error", err)
			}
			return
		}
		if mType != websocket.TextMessage {
			slog.Debug("Ignoring non-text websocket message", "type", mType)
			continue
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(msg, &wsMessage); err != nil {
			s.metricsWriter.Send(conn, WebSocketResponse{Success: false, Error: "invalid message: " + err.Error()})
			continue
		}

		var response WebSocketResponse
		switch wsMessage.MessageType {
		case Reports:
			response = s.handleReportsRequest(wsMessage.Message)
		case Ping:
			response = WebSocketResponse{Success: true, Data: "pong"}
		default:
			response = WebSocketResponse{Success: false, Error: fmt.Sprintf("unknown message type %q", wsMessage.MessageType)}
		}
		if err := s.metricsWriter.Send(conn, response); err != nil {
			slog.Error("Failed to send response", "error", err)
			return
		}
	}
}
