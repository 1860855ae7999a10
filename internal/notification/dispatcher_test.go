package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fitlink/coaching-api/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingNotificationRepo struct {
	mu      sync.Mutex
	created []domain.Notification
	failing bool
}

func (r *recordingNotificationRepo) Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return primitive.NilObjectID, errors.New("store unavailable")
	}
	cp := *n
	cp.ID = primitive.NewObjectID()
	r.created = append(r.created, cp)
	return cp.ID, nil
}

func (r *recordingNotificationRepo) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.created...)
}

type staticSessionRepo struct {
	tokens map[primitive.ObjectID][]string
}

func (r *staticSessionRepo) Upsert(ctx context.Context, session *domain.DeviceSession) error {
	return nil
}

func (r *staticSessionRepo) GetTokensByUserID(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return r.tokens[userID], nil
}

func TestDispatcher(t *testing.T) {
	t.Run("persists one record per target user", func(t *testing.T) {
		store := &recordingNotificationRepo{}
		sessions := &staticSessionRepo{tokens: map[primitive.ObjectID][]string{}}
		d := NewDispatcher(store, sessions, zerolog.Nop(), 8)

		userA := primitive.NewObjectID()
		userB := primitive.NewObjectID()
		d.Notify(Event{
			UserIDs: []primitive.ObjectID{userA, userB},
			Title:   "Workout Completed",
			Message: "Your client finished",
			Type:    domain.EventWorkoutCompleted,
			Payload: map[string]string{"assignmentId": primitive.NewObjectID().Hex()},
		})
		d.Close()

		created := store.all()
		require.Len(t, created, 2)
		assert.Equal(t, userA, created[0].UserID)
		assert.Equal(t, userB, created[1].UserID)
		assert.Equal(t, domain.EventWorkoutCompleted, created[0].Type)
		assert.False(t, created[0].IsRead)
	})

	t.Run("close drains queued events", func(t *testing.T) {
		store := &recordingNotificationRepo{}
		d := NewDispatcher(store, &staticSessionRepo{}, zerolog.Nop(), 16)

		for i := 0; i < 5; i++ {
			d.Notify(Event{
				UserIDs: []primitive.ObjectID{primitive.NewObjectID()},
				Type:    domain.EventWorkoutAssigned,
			})
		}
		d.Close()

		assert.Len(t, store.all(), 5)
	})

	t.Run("notify after close is dropped, not panicked", func(t *testing.T) {
		store := &recordingNotificationRepo{}
		d := NewDispatcher(store, &staticSessionRepo{}, zerolog.Nop(), 4)
		d.Close()

		d.Notify(Event{UserIDs: []primitive.ObjectID{primitive.NewObjectID()}})
		assert.Empty(t, store.all())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		d := NewDispatcher(&recordingNotificationRepo{}, &staticSessionRepo{}, zerolog.Nop(), 4)
		d.Close()
		d.Close()
	})

	t.Run("concurrent notify and close do not panic", func(t *testing.T) {
		store := &recordingNotificationRepo{}
		d := NewDispatcher(store, &staticSessionRepo{}, zerolog.Nop(), 2)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					d.Notify(Event{
						UserIDs: []primitive.ObjectID{primitive.NewObjectID()},
						Type:    domain.EventWorkoutAssigned,
					})
				}
			}()
		}
		d.Close()
		wg.Wait()
	})

	t.Run("store failure is absorbed", func(t *testing.T) {
		store := &recordingNotificationRepo{failing: true}
		d := NewDispatcher(store, &staticSessionRepo{}, zerolog.Nop(), 4)

		d.Notify(Event{UserIDs: []primitive.ObjectID{primitive.NewObjectID()}})
		d.Close()

		assert.Empty(t, store.all())
	})
}

func TestNopDispatcher(t *testing.T) {
	d := NopDispatcher{}
	d.Notify(Event{Type: domain.EventCoachFeedback})
	d.Close()
}
