package mongo

import (
	"context"
	"errors"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const deviceSessionCollectionName = "device_sessions"

// mongoDeviceSessionRepository implements repository.DeviceSessionRepository
type mongoDeviceSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoDeviceSessionRepository creates a new DeviceSession repository backed by MongoDB.
func NewMongoDeviceSessionRepository(db *mongo.Database) repository.DeviceSessionRepository {
	return &mongoDeviceSessionRepository{
		collection: db.Collection(deviceSessionCollectionName),
	}
}

// Upsert registers a device token for a user, refreshing lastSeenAt when the
// (userId, deviceToken) pair already exists.
func (r *mongoDeviceSessionRepository) Upsert(ctx context.Context, session *domain.DeviceSession) error {
	if session.UserID == primitive.NilObjectID || session.DeviceToken == "" {
		return errors.New("device session requires userId and deviceToken")
	}

	now := time.Now().UTC()
	filter := bson.M{"userId": session.UserID, "deviceToken": session.DeviceToken}
	update := bson.M{
		"$set": bson.M{
			"platform":   session.Platform,
			"lastSeenAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":      session.UserID,
			"deviceToken": session.DeviceToken,
			"createdAt":   now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetTokensByUserID returns every registered device token for a user.
func (r *mongoDeviceSessionRepository) GetTokensByUserID(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.DeviceSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(sessions))
	for _, s := range sessions {
		tokens = append(tokens, s.DeviceToken)
	}
	return tokens, nil
}

// EnsureDeviceSessionIndexes creates the indexes for the device_sessions collection.
func EnsureDeviceSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "deviceToken", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
