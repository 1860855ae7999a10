package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification event types emitted by the assignment engine.
const (
	EventWorkoutAssigned  = "workout_assigned"
	EventWorkoutCompleted = "workout_completed"
	EventCoachFeedback    = "coach_feedback"
)

// Notification is a persisted, per-user notification record. Delivery to
// devices is best-effort and decoupled from the mutation that produced it.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	Payload   map[string]string  `bson:"payload,omitempty" json:"payload,omitempty"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DeviceSession records one device token for a user. Assignment events are
// addressed to every session of the target user.
type DeviceSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	DeviceToken string             `bson:"deviceToken" json:"deviceToken"`
	Platform    string             `bson:"platform,omitempty" json:"platform,omitempty"` // ios / android / web
	LastSeenAt  time.Time          `bson:"lastSeenAt" json:"lastSeenAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
