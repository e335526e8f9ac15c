package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Channel is the Postgres NOTIFY channel the companions trigger publishes on.
const Channel = "companion_changes"

// OperationReload is delivered after a reconnect, when notifications may have been missed.
const OperationReload = "RELOAD"

// ChangeEvent describes a write to a watched table
type ChangeEvent struct {
	Table     string
	Operation string // INSERT, UPDATE, DELETE or RELOAD
}

// ChangeHandler is a callback function for change events
type ChangeHandler func(event ChangeEvent)

// PubSub handles PostgreSQL LISTEN/NOTIFY for companion changes
type PubSub struct {
	connStr  string
	listener *pq.Listener
	handlers []ChangeHandler
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPubSub creates a new PubSub instance for the database at connStr
func NewPubSub(connStr string) *PubSub {
	ctx, cancel := context.WithCancel(context.Background())

	return &PubSub{
		connStr:  connStr,
		handlers: make([]ChangeHandler, 0),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Subscribe adds a handler for change events
func (ps *PubSub) Subscribe(handler ChangeHandler) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.handlers = append(ps.handlers, handler)
}

// Start begins listening for notifications
func (ps *PubSub) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Error("PubSub listener error", slog.Any("error", err))
		}
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed:
			slog.Warn("PubSub connection attempt failed, will retry")
		case pq.ListenerEventDisconnected:
			slog.Warn("PubSub disconnected, will attempt reconnect")
		case pq.ListenerEventReconnected:
			slog.Info("PubSub reconnected, triggering full reload")
			ps.notifyHandlers(ChangeEvent{Table: "companions", Operation: OperationReload})
		}
	}

	ps.listener = pq.NewListener(ps.connStr, 10*time.Second, time.Minute, reportProblem)

	if err := ps.listener.Listen(Channel); err != nil {
		return fmt.Errorf("failed to listen on %s channel: %w", Channel, err)
	}

	slog.Info("PubSub started listening for companion changes")

	go ps.processNotifications()

	return nil
}

// Stop closes the listener
func (ps *PubSub) Stop() {
	ps.cancel()
	if ps.listener != nil {
		ps.listener.Close()
	}
	slog.Info("PubSub stopped")
}

func (ps *PubSub) processNotifications() {
	for {
		select {
		case <-ps.ctx.Done():
			return
		case notification := <-ps.listener.Notify:
			if notification == nil {
				// Connection lost, will be handled by reportProblem callback
				continue
			}

			event, ok := parsePayload(notification.Extra)
			if !ok {
				slog.Warn("Invalid notification payload", slog.String("payload", notification.Extra))
				continue
			}

			slog.Debug("Received change notification",
				slog.String("table", event.Table),
				slog.String("operation", event.Operation))

			ps.notifyHandlers(event)
		}
	}
}

// parsePayload reads the "table_name:operation" payload written by notify_companion_change.
func parsePayload(payload string) (ChangeEvent, bool) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Table: parts[0], Operation: parts[1]}, true
}

func (ps *PubSub) notifyHandlers(event ChangeEvent) {
	ps.mu.RLock()
	handlers := make([]ChangeHandler, len(ps.handlers))
	copy(handlers, ps.handlers)
	ps.mu.RUnlock()

	for _, handler := range handlers {
		// Run handlers in goroutines to avoid blocking the notification loop
		go handler(event)
	}
}
