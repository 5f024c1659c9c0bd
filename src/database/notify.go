package database

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newscorr/src/utils/errors"
)

// AnyObject subscribes to every object published on a channel.
const AnyObject = "*"

// NotificationManager multiplexes one postgres LISTEN connection over many subscribers.
type NotificationManager struct {
	listener    *pq.Listener
	subscribers map[string]map[string]map[string]chan<- string // channel -> objectId -> subscriberId
	mu          sync.RWMutex
}

func NewNotificationManager(db *gorm.DB) (*NotificationManager, error) {
	dialector, ok := db.Config.Dialector.(*postgres.Dialector)
	if !ok {
		return nil, errors.New("notifications require the postgres dialector")
	}
	listener := pq.NewListener(dialector.DSN, 10*time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("postgres listener event", "event", event, "error", err)
		}
	})

	nm := &NotificationManager{
		listener:    listener,
		subscribers: make(map[string]map[string]map[string]chan<- string),
	}

	go nm.listen()

	return nm, nil
}

func (nm *NotificationManager) listen() {
	for notification := range nm.listener.Notify {
		if notification == nil {
			continue
		}
		nm.handleNotification(notification.Channel, notification.Extra)
	}
}

func (nm *NotificationManager) handleNotification(channel, payload string) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()

	objectId, _, ok := strings.Cut(payload, ";")
	if !ok {
		slog.Error("Invalid payload format", "payload", payload)
		return
	}

	subs, ok := nm.subscribers[channel]
	if !ok {
		return
	}
	for _, key := range []string{objectId, AnyObject} {
		for subscriberId, ch := range subs[key] {
			select {
			case ch <- objectId:
			default:
				slog.Warn("Notification channel is full, skipping", "channel", channel, "subscriber", subscriberId)
			}
		}
	}
}

// Subscribe returns a channel receiving the object ids notified on channel.
func (nm *NotificationManager) Subscribe(ctx context.Context, subscriberId string, channel string, objectId string) (<-chan string, error) {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, ok := nm.subscribers[channel]; !ok {
		if err := nm.listener.Listen(channel); err != nil {
			return nil, errors.Wrapf(err, "failed to listen on channel %s", channel)
		}
		nm.subscribers[channel] = make(map[string]map[string]chan<- string)
	}

	if nm.subscribers[channel][objectId] == nil {
		nm.subscribers[channel][objectId] = make(map[string]chan<- string)
	}

	ch := make(chan string, 10)
	nm.subscribers[channel][objectId][subscriberId] = ch

	slog.Debug("Subscribed to channel", "channel", channel, "objectId", objectId, "subscriberId", subscriberId)
	return ch, nil
}

func (nm *NotificationManager) Unsubscribe(channel string, subscriberId string, objectIds ...string) error {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	subs, ok := nm.subscribers[channel]
	if !ok {
		return errors.Newf("no subscribers for channel %s", channel)
	}

	for _, objectId := range objectIds {
		if objSubs, ok := subs[objectId]; ok {
			if ch, exists := objSubs[subscriberId]; exists {
				close(ch)
				delete(objSubs, subscriberId)
			}

			if len(objSubs) == 0 {
				delete(subs, objectId)
			}
		}
	}

	if len(subs) == 0 {
		if err := nm.listener.Unlisten(channel); err != nil {
			return errors.Wrapf(err, "failed to unlisten on channel %s", channel)
		}
		delete(nm.subscribers, channel)
	}

	return nil
}

func (nm *NotificationManager) Close() error {
	if err := nm.listener.UnlistenAll(); err != nil {
		slog.Debug("unlisten all failed", "error", err)
	}
	return nm.listener.Close()
}

// Notify publishes "objectId;payload" on channel.
func Notify(db *gorm.DB, channel string, objectId string, payload string) error {
	if err := db.Exec("SELECT pg_notify(?, ?)", channel, objectId+";"+payload).Error; err != nil {
		return errors.Wrap(err, "failed to send notification")
	}
	return nil
}
