// Package notification is the message-passing boundary between the
// assignment engine and notification delivery. The engine emits events and
// moves on; persistence and fan-out happen on a background worker, and every
// failure is absorbed here. The core's correctness never depends on a
// notification landing.
package notification

import (
	"context"
	"sync"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// deliverTimeout bounds one event's persistence + fan-out.
const deliverTimeout = 10 * time.Second

// Event is one assignment-lifecycle notification addressed to one or more
// users. Every registered device session of each target user is addressed.
type Event struct {
	ID      string // Set by the dispatcher
	UserIDs []primitive.ObjectID
	Title   string
	Message string
	Type    string // domain.EventWorkoutAssigned etc.
	Payload map[string]string
}

// Dispatcher accepts lifecycle events without blocking the caller.
type Dispatcher interface {
	// Notify enqueues the event. It never blocks and never reports failure;
	// when the queue is full the event is dropped and logged.
	Notify(event Event)
	// Close stops accepting events and waits for queued ones to drain.
	Close()
}

// storeDispatcher persists notifications and logs the device fan-out; the
// push transport itself sits behind this boundary and is out of scope.
type storeDispatcher struct {
	notifications repository.NotificationRepository
	sessions      repository.DeviceSessionRepository
	logger        zerolog.Logger
	events        chan Event
	done          chan struct{}

	// mu serializes enqueues against Close so Notify can never send on the
	// closed events channel.
	mu     sync.Mutex
	closed bool
}

// NewDispatcher starts the background worker. bufferSize bounds the number
// of in-flight events; beyond that Notify drops.
func NewDispatcher(
	notifications repository.NotificationRepository,
	sessions repository.DeviceSessionRepository,
	logger zerolog.Logger,
	bufferSize int,
) Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	d := &storeDispatcher{
		notifications: notifications,
		sessions:      sessions,
		logger:        logger.With().Str("component", "notification_dispatcher").Logger(),
		events:        make(chan Event, bufferSize),
		done:          make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *storeDispatcher) Notify(event Event) {
	event.ID = uuid.NewString()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn().
			Str("event_id", event.ID).
			Str("type", event.Type).
			Msg("dispatcher closed, event dropped")
		return
	}
	select {
	case d.events <- event:
		d.mu.Unlock()
	default:
		d.mu.Unlock()
		d.logger.Warn().
			Str("event_id", event.ID).
			Str("type", event.Type).
			Msg("notification queue full, event dropped")
	}
}

func (d *storeDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *storeDispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		d.deliver(event)
	}
}

// deliver runs detached from any request context: the owning mutation has
// already returned by the time this executes.
func (d *storeDispatcher) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	for _, userID := range event.UserIDs {
		if _, err := d.notifications.Create(ctx, &domain.Notification{
			UserID:  userID,
			Title:   event.Title,
			Message: event.Message,
			Type:    event.Type,
			Payload: event.Payload,
		}); err != nil {
			d.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("user_id", userID.Hex()).
				Msg("failed to persist notification")
			continue
		}

		tokens, err := d.sessions.GetTokensByUserID(ctx, userID)
		if err != nil {
			d.logger.Warn().Err(err).
				Str("event_id", event.ID).
				Str("user_id", userID.Hex()).
				Msg("failed to load device sessions for fan-out")
			continue
		}

		d.logger.Info().
			Str("event_id", event.ID).
			Str("type", event.Type).
			Str("user_id", userID.Hex()).
			Int("devices", len(tokens)).
			Msg("notification dispatched")
	}
}

// NopDispatcher discards every event. Useful when notifications are disabled.
type NopDispatcher struct{}

func (NopDispatcher) Notify(Event) {}
func (NopDispatcher) Close()       {}
