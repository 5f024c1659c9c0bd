package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"newscorr/src/datamodels"
)

const writeWait = 5 * time.Second

// metricMessage is the wire form of a Metric with its value inlined as JSON.
type metricMessage struct {
	MetricGeneratorId   string                         `json:"metric_generator_id"`
	MetricGeneratorName string                         `json:"metric_generator_name"`
	MetricGeneratorType datamodels.MetricGeneratorType `json:"metric_generator_type"`
	MetricTime          time.Time                      `json:"metric_time"`
	MetricName          string                         `json:"metric_name"`
	MetricValue         json.RawMessage                `json:"metric_value"`
}

func newMetricMessage(metric datamodels.Metric) metricMessage {
	value := json.RawMessage(metric.MetricValue)
	if !json.Valid(value) {
		value, _ = json.Marshal(string(metric.MetricValue))
	}
	return metricMessage{
		MetricGeneratorId:   metric.MetricGeneratorId,
		MetricGeneratorName: metric.MetricGeneratorName,
		MetricGeneratorType: metric.MetricGeneratorType,
		MetricTime:          metric.MetricTime,
		MetricName:          metric.MetricName,
		MetricValue:         value,
	}
}

// WebsocketMetricsWriter broadcasts every metric to the connected clients.
// Clients that fail a write are dropped.
type WebsocketMetricsWriter struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

func NewWebSocketMetricsWriter() *WebsocketMetricsWriter {
	return &WebsocketMetricsWriter{
		clients: make(map[*websocket.Conn]bool),
	}
}

func (w *WebsocketMetricsWriter) AddClient(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[conn] = true
}

func (w *WebsocketMetricsWriter) RemoveClient(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *WebsocketMetricsWriter) ClientCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Send writes v to one client under the writer lock so it never interleaves with a broadcast.
func (w *WebsocketMetricsWriter) Send(conn *websocket.Conn, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func (w *WebsocketMetricsWriter) Write(ctx context.Context, metric datamodels.Metric) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	message := newMetricMessage(metric)
	for client := range w.clients {
		client.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.WriteJSON(message); err != nil {
			slog.Warn("dropping websocket client", "remote", client.RemoteAddr().String(), "error", err)
			client.Close()
			delete(w.clients, client)
		}
	}
	return nil
}

func (w *WebsocketMetricsWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for client := range w.clients {
		client.Close()
		delete(w.clients, client)
	}
	return nil
}
