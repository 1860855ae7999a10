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

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// CreateActive inserts a new assignment. The partial unique index on
// (templateId, clientId) over isActive=true documents makes the
// "no duplicate active assignment" check atomic with the insert; a plain
// find-then-insert would race under concurrent double-assignment.
func (r *mongoAssignmentRepository) CreateActive(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.TemplateID == primitive.NilObjectID ||
		assignment.CoachID == primitive.NilObjectID ||
		assignment.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires templateId, coachId and clientId")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.AssignedAt = now
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.Status == "" {
		assignment.Status = domain.StatusAssigned
	}
	assignment.IsActive = true
	assignment.IsDeleted = false

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// ListByClientID retrieves all non-deleted assignments for a client,
// most recently assigned first.
func (r *mongoAssignmentRepository) ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error) {
	filter := bson.M{"clientId": clientID, "isDeleted": false}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByCoachID retrieves one page of the coach's non-deleted assignments
// plus the total count of the filtered result set.
func (r *mongoAssignmentRepository) ListByCoachID(ctx context.Context, coachID primitive.ObjectID, filter repository.AssignmentListFilter, page, limit int) ([]domain.Assignment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := bson.M{"coachId": coachID, "isDeleted": false}
	if filter.ClientID != primitive.NilObjectID {
		query["clientId"] = filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	// Total must be computed on the same (filtered) query the page comes from.
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "assignedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// statusDeriveStages are the pipeline stages that recompute status,
// completedAt and isActive from the current exercises array. They run inside
// the same atomic update as the exercise mutation, so the derivation always
// reads the post-merge list. completedAt keeps its first-written value via
// $ifNull.
func statusDeriveStages(now time.Time) []bson.M {
	allCompleted := bson.M{"$allElementsTrue": bson.A{
		bson.M{"$map": bson.M{
			"input": "$exercises",
			"as":    "ex",
			"in":    "$$ex.isCompleted",
		}},
	}}
	anyCompleted := bson.M{"$anyElementTrue": bson.A{
		bson.M{"$map": bson.M{
			"input": "$exercises",
			"as":    "ex",
			"in":    "$$ex.isCompleted",
		}},
	}}

	return []bson.M{
		{"$set": bson.M{
			"status": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": allCompleted, "then": string(domain.StatusCompleted)},
					bson.M{"case": anyCompleted, "then": string(domain.StatusInProgress)},
				},
				"default": string(domain.StatusAssigned),
			}},
			"completedAt": bson.M{"$cond": bson.A{
				allCompleted,
				bson.M{"$ifNull": bson.A{"$completedAt", now}},
				"$completedAt",
			}},
			"isActive": bson.M{"$cond": bson.A{allCompleted, false, true}},
			"updatedAt": now,
		}},
	}
}

// UpdateExerciseCompletion marks one snapshot exercise complete and
// re-derives the aggregate status in a single FindOneAndUpdate, so two
// concurrent completions of different exercises never lose an update.
func (r *mongoAssignmentRepository) UpdateExerciseCompletion(ctx context.Context, assignmentID, clientID, exerciseID primitive.ObjectID, sets []domain.CompletedSet, notes string) (*domain.Assignment, error) {
	now := time.Now().UTC()
	if sets == nil {
		sets = []domain.CompletedSet{}
	}

	filter := bson.M{
		"_id":       assignmentID,
		"clientId":  clientID,
		"isDeleted": false,
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"exercises": bson.M{"$map": bson.M{
				"input": "$exercises",
				"as":    "ex",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$ex.exerciseId", exerciseID}},
					bson.M{"$mergeObjects": bson.A{"$$ex", bson.M{
						"completedSets": sets,
						"notes":         notes,
						"isCompleted":   true,
					}}},
					"$$ex",
				}},
			}},
		}},
	}
	for _, stage := range statusDeriveStages(now) {
		pipeline = append(pipeline, stage)
	}

	return r.findOneAndUpdate(ctx, filter, pipeline)
}

// Complete records performance and client notes on a fully-completed
// assignment. The filter refuses documents with any incomplete exercise, so
// a concurrent un-finished state can never slip into completed here.
func (r *mongoAssignmentRepository) Complete(ctx context.Context, assignmentID, clientID primitive.ObjectID, perf *domain.Performance, clientNote string) (*domain.Assignment, error) {
	now := time.Now().UTC()

	filter := bson.M{
		"_id":       assignmentID,
		"clientId":  clientID,
		"isDeleted": false,
		"exercises": bson.M{"$not": bson.M{"$elemMatch": bson.M{"isCompleted": false}}},
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"performance": perf,
			"clientNotes": clientNote,
			"status":      string(domain.StatusCompleted),
			"completedAt": bson.M{"$ifNull": bson.A{"$completedAt", now}},
			"isActive":    false,
			"updatedAt":   now,
		}},
	}

	return r.findOneAndUpdate(ctx, filter, pipeline)
}

// SetClientNotes overwrites the client's free-text notes. No status effect.
func (r *mongoAssignmentRepository) SetClientNotes(ctx context.Context, assignmentID, clientID primitive.ObjectID, notes string) (*domain.Assignment, error) {
	filter := bson.M{"_id": assignmentID, "clientId": clientID, "isDeleted": false}
	update := bson.M{"$set": bson.M{"clientNotes": notes, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SetCoachNote overwrites the coach's note. No status effect.
func (r *mongoAssignmentRepository) SetCoachNote(ctx context.Context, assignmentID, coachID primitive.ObjectID, note string) (*domain.Assignment, error) {
	filter := bson.M{"_id": assignmentID, "coachId": coachID, "isDeleted": false}
	update := bson.M{"$set": bson.M{"coachNote": note, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SetCoachFeedback overwrites the coach's feedback. No status effect.
func (r *mongoAssignmentRepository) SetCoachFeedback(ctx context.Context, assignmentID, coachID primitive.ObjectID, feedback string) (*domain.Assignment, error) {
	filter := bson.M{"_id": assignmentID, "coachId": coachID, "isDeleted": false}
	update := bson.M{"$set": bson.M{"coachFeedback": feedback, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SoftDelete marks the assignment deleted and releases the active-assignment
// slot for its (templateId, clientId) pair.
func (r *mongoAssignmentRepository) SoftDelete(ctx context.Context, assignmentID, coachID primitive.ObjectID) error {
	filter := bson.M{"_id": assignmentID, "coachId": coachID, "isDeleted": false}
	update := bson.M{"$set": bson.M{
		"isDeleted": true,
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoAssignmentRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update interface{}) (*domain.Assignment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Assignment
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// EnsureAssignmentIndexes creates the indexes for the assignments collection.
// The partial unique index enforces "at most one active assignment per
// (templateId, clientId)" at the storage layer.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "templateId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_assignment").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "assignedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "assignedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
