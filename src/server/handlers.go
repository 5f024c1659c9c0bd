package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title newscorr API
// @version 1.0
// @description Correlation reports between news sentiment and stock returns
// @host localhost:8080
// @BasePath /

// MetricNameStoredReport names metrics relayed from the report database.
const MetricNameStoredReport = "stored_correlation_report"

const defaultHistoryLimit = 20

// WebSocketMessageType represents the type of WebSocket message
// @Description Type of message sent by a client over WebSocket
type WebSocketMessageType string

const (
	// Reports requests the current reports; the message may name one ticker
	Reports WebSocketMessageType = "reports"
	Ping    WebSocketMessageType = "ping"
)

// WebSocketMessage represents a message sent over WebSocket
// @Description Message structure for WebSocket communication
type WebSocketMessage struct {
	// Required: true
	// Enum: reports, ping
	MessageType WebSocketMessageType `json:"message_type" example:"reports"`
	// Optional JSON payload, a ticker string for reports
	Message json.RawMessage `json:"message,omitempty" swaggertype:"string"`
}

// WebSocketResponse represents a response sent back over WebSocket
// @Description Response structure for WebSocket communication
type WebSocketResponse struct {
	// Required: true
	Success bool   `json:"success" example:"true"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty" example:"unknown ticker"`
}

// RegisterHealthCheck registers the health check endpoint
// @Summary Health check endpoint
// @Tags health
// @Produce plain
// @Success 200 {string} string "newscorr is healthy"
// @Router /health [get]
func (s *Server) RegisterHealthCheck() {
	s.httpMux.HandleFunc("GET "+s.healthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("newscorr is healthy"))
	})
}

// RegisterReportHandlers registers the report endpoints
// @Summary Latest correlation reports
// @Tags reports
// @Produce json
// @Success 200 {array} datamodels.TickerReport
// @Router /reports [get]
func (s *Server) RegisterReportHandlers() {
	s.httpMux.HandleFunc("GET "+s.reportEndpoint, s.handleReports)
	s.httpMux.HandleFunc("GET "+s.reportEndpoint+"/stored", s.handleStoredReports)
	s.httpMux.HandleFunc("GET "+s.reportEndpoint+"/{ticker}", s.handleTickerReport)
	s.httpMux.HandleFunc("GET "+s.reportEndpoint+"/{ticker}/history", s.handleTickerHistory)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reports.Reports())
}

// handleTickerReport returns the latest report of one ticker
// @Summary Latest report of one ticker
// @Tags reports
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Success 200 {object} datamodels.TickerReport
// @Failure 404 {object} WebSocketResponse
// @Router /reports/{ticker} [get]
func (s *Server) handleTickerReport(w http.ResponseWriter, r *http.Request) {
	ticker := r.PathValue("ticker")
	report, ok := s.reports.Report(ticker)
	if !ok {
		writeJSON(w, http.StatusNotFound, WebSocketResponse{Success: false, Error: "no report for " + strings.ToUpper(ticker)})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleTickerHistory returns stored reports of one ticker, newest first
// @Summary Stored report history of one ticker
// @Tags reports
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} datamodels.CorrelationReport
// @Failure 503 {object} WebSocketResponse
// @Router /reports/{ticker}/history [get]
func (s *Server) handleTickerHistory(w http.ResponseWriter, r *http.Request) {
	if s.reportDb == nil {
		writeJSON(w, http.StatusServiceUnavailable, WebSocketResponse{Success: false, Error: "report database is not configured"})
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, WebSocketResponse{Success: false, Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	rows, err := s.reportDb.GetCorrelationReports(r.Context(), r.PathValue("ticker"), limit)
	if err != nil {
		slog.Error("Failed to load report history", "error", err)
		writeJSON(w, http.StatusInternalServerError, WebSocketResponse{Success: false, Error: "could not load report history"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleStoredReports returns the newest stored report of every ticker
// @Summary Newest stored report per ticker
// @Tags reports
// @Produce json
// @Success 200 {array} datamodels.CorrelationReport
// @Failure 503 {object} WebSocketResponse
// @Router /reports/stored [get]
func (s *Server) handleStoredReports(w http.ResponseWriter, r *http.Request) {
	if s.reportDb == nil {
		writeJSON(w, http.StatusServiceUnavailable, WebSocketResponse{Success: false, Error: "report database is not configured"})
		return
	}
	rows, err := s.reportDb.GetLatestCorrelationReports(r.Context())
	if err != nil {
		slog.Error("Failed to load stored reports", "error", err)
		writeJSON(w, http.StatusInternalServerError, WebSocketResponse{Success: false, Error: "could not load stored reports"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// RegisterWebSocketHandler registers the WebSocket endpoint
// @Summary WebSocket report stream
// @Description Streams every new report as it is produced
// @Tags websocket
// @Success 101 {string} string "Switching protocols to websocket"
// @Router /ws [get]
func (s *Server) RegisterWebSocketHandler() {
	s.httpMux.HandleFunc("/ws", s.handleWebSocket)
}

// RegisterSwagger registers the Swagger documentation endpoint
// @Summary Swagger documentation endpoint
// @Tags docs
// @Produce json,html
// @Success 200 {string} string "Swagger documentation UI"
// @Router /swagger/ [get]
func (s *Server) RegisterSwagger() {
	s.httpMux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// handleReportsRequest answers a reports message with every report, or the one named ticker.
func (s *Server) handleReportsRequest(payload json.RawMessage) WebSocketResponse {
	if len(payload) == 0 || string(payload) == "null" {
		return WebSocketResponse{Success: true, Data: s.reports.Reports()}
	}
	var ticker string
	if err := json.Unmarshal(payload, &ticker); err != nil {
		slog.Debug("Failed to unmarshal reports payload", "error", err)
		return WebSocketResponse{Success: false, Error: "reports message must be a ticker string"}
	}
	report, ok := s.reports.Report(ticker)
	if !ok {
		return WebSocketResponse{Success: false, Error: "no report for " + strings.ToUpper(ticker)}
	}
	return WebSocketResponse{Success: true, Data: report}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
