package repository

import (
	"context"

	"fitlink/coaching-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByIDs returns the users that exist; missing ids are simply absent
	// from the result so read-side joins can degrade to partial records.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.User, error)
}

// ExerciseRepository defines the interface for interacting with the catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Exercise, error)
	ListActive(ctx context.Context) ([]domain.Exercise, error)
	// Search does a case-insensitive substring match over name, category,
	// equipment and muscle groups, restricted to active entries.
	Search(ctx context.Context, query string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// TemplateRepository defines the interface for workout template data.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.WorkoutTemplate, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
}

// AssignmentListFilter narrows the coach-side assignment listing.
// Zero values mean "no filter".
type AssignmentListFilter struct {
	ClientID primitive.ObjectID
	Status   domain.AssignmentStatus
}

// AssignmentRepository is the store behind the assignment lifecycle engine.
//
// Every mutating method applies its change as one atomic read-modify-write
// on the assignment document and returns the post-update document, so status
// recomputation always sees the merged exercise list. Ownership ids are part
// of the update filters; a mismatch surfaces as ErrNotFound and the service
// layer distinguishes Forbidden via a prior fetch.
type AssignmentRepository interface {
	// CreateActive inserts a new assignment. It fails with ErrConflict when
	// an active (assigned or in_progress, not deleted) assignment already
	// exists for the same (templateId, clientId) pair; the check-then-create
	// is atomic via a partial unique index, not a read followed by a write.
	CreateActive(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error)
	// ListByCoachID returns one page plus the total count of the filtered
	// result set, newest assignment first.
	ListByCoachID(ctx context.Context, coachID primitive.ObjectID, filter AssignmentListFilter, page, limit int) ([]domain.Assignment, int64, error)

	// UpdateExerciseCompletion marks one snapshot exercise complete with the
	// client's recorded sets and notes, and re-derives status/completedAt
	// from the post-merge exercise list in the same update.
	UpdateExerciseCompletion(ctx context.Context, assignmentID, clientID, exerciseID primitive.ObjectID, sets []domain.CompletedSet, notes string) (*domain.Assignment, error)

	// Complete records performance and client notes and moves the assignment
	// to completed. The filter requires every exercise to already be
	// complete; completedAt keeps its first-written value.
	Complete(ctx context.Context, assignmentID, clientID primitive.ObjectID, perf *domain.Performance, clientNote string) (*domain.Assignment, error)

	SetClientNotes(ctx context.Context, assignmentID, clientID primitive.ObjectID, notes string) (*domain.Assignment, error)
	SetCoachNote(ctx context.Context, assignmentID, coachID primitive.ObjectID, note string) (*domain.Assignment, error)
	SetCoachFeedback(ctx context.Context, assignmentID, coachID primitive.ObjectID, feedback string) (*domain.Assignment, error)
	SoftDelete(ctx context.Context, assignmentID, coachID primitive.ObjectID) error
}

// DeviceSessionRepository stores device tokens used for notification fan-out.
type DeviceSessionRepository interface {
	Upsert(ctx context.Context, session *domain.DeviceSession) error
	GetTokensByUserID(ctx context.Context, userID primitive.ObjectID) ([]string, error)
}

// NotificationRepository persists dispatched notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error)
}
