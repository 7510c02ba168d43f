// Package changefeed relays PostgreSQL NOTIFY events on order changes into the
// in-process broker hub.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"brokerage/internal/pkg/broker"

	"github.com/lib/pq"
)

// Config bounds the listener's reconnect backoff.
type Config struct {
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinReconnectInterval: 10 * time.Second,
		MaxReconnectInterval: time.Minute,
	}
}

// Feed owns one LISTEN connection and publishes every notification it receives.
type Feed struct {
	dsn     string
	channel string
	cfg     Config
	hub     *broker.Hub
	logger  *slog.Logger

	mu       sync.Mutex
	listener *pq.Listener
	done     chan struct{}
}

func New(dsn, channel string, cfg Config, hub *broker.Hub, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MinReconnectInterval <= 0 || cfg.MaxReconnectInterval < cfg.MinReconnectInterval {
		cfg = DefaultConfig()
	}
	return &Feed{
		dsn:     dsn,
		channel: channel,
		cfg:     cfg,
		hub:     hub,
		logger:  logger.With("component", "changefeed", "channel", channel),
	}
}

// Start opens the listener and relays notifications until ctx is done or Close is called.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listener != nil {
		return fmt.Errorf("change feed already started")
	}

	listener := pq.NewListener(f.dsn, f.cfg.MinReconnectInterval, f.cfg.MaxReconnectInterval, f.onEvent)
	if err := listener.Listen(f.channel); err != nil {
		_ = listener.Close()
		return fmt.Errorf("listen %s: %w", f.channel, err)
	}

	f.listener = listener
	f.done = make(chan struct{})
	go f.run(ctx, listener, f.done)

	f.logger.Info("change feed started")
	return nil
}

// Ping checks the listener connection. An error makes pq reconnect in the background.
func (f *Feed) Ping() error {
	f.mu.Lock()
	listener := f.listener
	f.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("change feed not started")
	}
	return listener.Ping()
}

// Close stops relaying, closes the listener and disconnects every subscriber.
func (f *Feed) Close() error {
	f.mu.Lock()
	listener, done := f.listener, f.done
	f.listener, f.done = nil, nil
	f.mu.Unlock()

	if listener == nil {
		return nil
	}

	err := listener.Close()
	<-done
	f.hub.Close()
	return err
}

func (f *Feed) run(ctx context.Context, listener *pq.Listener, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// Sent after a reconnect. Anything published meanwhile is lost,
				// so viewers have to re-fetch.
				f.logger.Warn("listener reconnected, resetting subscribers")
				f.hub.Reset()
				continue
			}
			f.dispatch(n)
		}
	}
}

func (f *Feed) dispatch(n *pq.Notification) {
	change, err := ParsePayload(n.Extra)
	if err != nil {
		f.logger.Warn("dropping malformed notification", "payload", n.Extra, "error", err)
		return
	}

	if dropped := f.hub.Publish(change); dropped > 0 {
		f.logger.Info("disconnected slow subscribers", "count", dropped)
	}
}

func (f *Feed) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		f.logger.Debug("listener connected")
	case pq.ListenerEventDisconnected:
		f.logger.Warn("listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		f.logger.Info("listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		f.logger.Error("listener connection attempt failed", "error", err)
	}
}

// ParsePayload decodes the JSON written by the notify trigger.
func ParsePayload(payload string) (broker.Change, error) {
	var change broker.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return broker.Change{}, err
	}

	switch change.Operation {
	case broker.OperationInsert, broker.OperationUpdate, broker.OperationDelete:
	default:
		return broker.Change{}, fmt.Errorf("unknown operation %q", change.Operation)
	}
	if change.Table == "" || change.ID == "" {
		return broker.Change{}, fmt.Errorf("payload misses table or id")
	}

	return change, nil
}
