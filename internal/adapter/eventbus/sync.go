// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// ErrClosed is returned by Close on an already closed bus.
var ErrClosed = errors.New("event bus already closed")

// wildcard is the pseudo event type used for SubscribeAll handlers.
const wildcard domain.EventType = "*"

// SyncEventBus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers are invoked without the bus lock held, so a
// handler may publish further events or unsubscribe itself.
//
// Thread-safety: safe for concurrent Publish, Subscribe and Unsubscribe.
type SyncEventBus struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[domain.EventType][]subscription
	byID   map[domain.SubscriptionID]domain.EventType
	nextID atomic.Uint64
	closed bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
	filter  ports.EventFilter
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		logger: slog.New(slog.DiscardHandler),
		subs:   make(map[domain.EventType][]subscription),
		byID:   make(map[domain.SubscriptionID]domain.EventType),
	}
}

// SetLogger sets the logger for this event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers event to the handlers registered for its type, then to
// wildcard handlers. A panicking handler is logged and does not stop delivery.
// Publishing on a closed bus does nothing.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.subs[event.Type()])+len(bus.subs[wildcard]))
	targets = append(targets, bus.subs[event.Type()]...)
	targets = append(targets, bus.subs[wildcard]...)
	logger := bus.logger
	bus.mu.RUnlock()

	logger.Debug("event published",
		slog.String("event_type", string(event.Type())),
		slog.Int("handlers", len(targets)))

	for _, sub := range targets {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		bus.deliver(logger, sub, event)
	}
}

func (bus *SyncEventBus) deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// It returns an empty ID when the bus is closed.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, handler, nil)
}

// SubscribeFiltered registers a handler that only sees events accepted by filter.
func (bus *SyncEventBus) SubscribeFiltered(eventType domain.EventType, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, handler, filter)
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(wildcard, handler, nil)
}

func (bus *SyncEventBus) add(eventType domain.EventType, handler domain.EventHandler, filter ports.EventFilter) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		bus.logger.Warn("subscribe on closed event bus", slog.String("event_type", string(eventType)))
		return ""
	}

	prefix := "sub"
	if eventType == wildcard {
		prefix = "sub-all"
	}
	id := domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID.Add(1)))

	bus.subs[eventType] = append(bus.subs[eventType], subscription{id: id, handler: handler, filter: filter})
	bus.byID[id] = eventType
	return id
}

// Unsubscribe removes a previously registered handler. Unknown IDs are ignored.
// Remaining handlers keep their delivery order.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	eventType, ok := bus.byID[id]
	if !ok {
		return
	}
	delete(bus.byID, id)

	bus.subs[eventType] = slices.DeleteFunc(bus.subs[eventType], func(s subscription) bool {
		return s.id == id
	})
	if len(bus.subs[eventType]) == 0 {
		delete(bus.subs, eventType)
	}
}

// HasSubscribers reports whether an event of the given type would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[eventType]) > 0 || len(bus.subs[wildcard]) > 0
}

// Close drops every subscription. Further publishes are ignored.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.subs = make(map[domain.EventType][]subscription)
	bus.byID = make(map[domain.SubscriptionID]domain.EventType)
	return nil
}

// SubscriberCount returns the number of active subscriptions, wildcard included.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.byID)
}

var _ ports.FilteringEventBus = (*SyncEventBus)(nil)
