package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *NotificationManager {
	return &NotificationManager{subscribers: make(map[string]map[string]map[string]chan<- string)}
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no notification received")
		return ""
	}
}

func TestHandleNotificationRoutesByObject(t *testing.T) {
	nm := newTestManager()
	aapl := make(chan string, 1)
	all := make(chan string, 2)
	nm.subscribers[ReportChannel] = map[string]map[string]chan<- string{
		"AAPL":    {"a": aapl},
		AnyObject: {"b": all},
	}

	nm.handleNotification(ReportChannel, "AAPL;run-1")
	nm.handleNotification(ReportChannel, "MSFT;run-1")

	assert.Equal(t, "AAPL", receive(t, aapl))
	assert.Equal(t, "AAPL", receive(t, all))
	assert.Equal(t, "MSFT", receive(t, all))
	assert.Empty(t, aapl)
}

func TestHandleNotificationIgnoresMalformedPayload(t *testing.T) {
	nm := newTestManager()
	ch := make(chan string, 1)
	nm.subscribers[ReportChannel] = map[string]map[string]chan<- string{AnyObject: {"a": ch}}

	nm.handleNotification(ReportChannel, "no-separator")
	assert.Empty(t, ch)
}

func TestHandleNotificationSkipsFullSubscriber(t *testing.T) {
	nm := newTestManager()
	ch := make(chan string)
	nm.subscribers[ReportChannel] = map[string]map[string]chan<- string{AnyObject: {"a": ch}}

	require.NotPanics(t, func() { nm.handleNotification(ReportChannel, "AAPL;x") })
}
