package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for the assignment lifecycle
type AssignmentStatus string

const (
	StatusAssigned   AssignmentStatus = "assigned"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed" // Terminal
)

// ValidAssignmentStatus reports whether s is a known lifecycle status.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CompletedSet records what the client actually did for one set.
type CompletedSet struct {
	RepsCompleted int     `bson:"repsCompleted" json:"repsCompleted"`
	WeightUsed    float64 `bson:"weightUsed" json:"weightUsed"`
	Notes         string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// AssignedExercise is one entry of the assignment's exercise snapshot.
// The prescription fields (sets/reps/weight/rest/order) are frozen at
// assignment time; the completion fields are mutated by the client.
type AssignedExercise struct {
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets            int                `bson:"sets" json:"sets"`
	Reps            int                `bson:"reps" json:"reps"`
	Weight          float64            `bson:"weight" json:"weight"`
	RestTimeSeconds int                `bson:"restTimeSeconds" json:"restTimeSeconds"`
	Order           int                `bson:"order" json:"order"`
	IsCompleted     bool               `bson:"isCompleted" json:"isCompleted"`
	CompletedSets   []CompletedSet     `bson:"completedSets" json:"completedSets"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"` // Client-entered
}

// Performance is the structured summary a client records at completion.
type Performance struct {
	OverallRating   int    `bson:"overallRating" json:"overallRating"`     // 1-5
	DifficultyLevel int    `bson:"difficultyLevel" json:"difficultyLevel"` // 1-5
	EnergyLevel     int    `bson:"energyLevel" json:"energyLevel"`         // 1-5
	PainLevel       int    `bson:"painLevel" json:"painLevel"`             // 0-5
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Assignment is a client-specific, time-bound instantiation of a
// WorkoutTemplate with its own completion state.
//
// TemplateID, CoachID, ClientID and AssignedAt are immutable after creation.
// Status is derived from the exercise snapshot on every mutation and never
// set independently. CompletedAt is written exactly once.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TemplateID primitive.ObjectID `bson:"templateId" json:"templateId"`
	CoachID    primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`

	AssignedAt  time.Time  `bson:"assignedAt" json:"assignedAt"`
	DueAt       time.Time  `bson:"dueAt" json:"dueAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	Status    AssignmentStatus   `bson:"status" json:"status"`
	Exercises []AssignedExercise `bson:"exercises" json:"exercises"`

	ClientNotes   string       `bson:"clientNotes,omitempty" json:"clientNotes,omitempty"`
	CoachNote     string       `bson:"coachNote,omitempty" json:"coachNote,omitempty"`
	CoachFeedback string       `bson:"coachFeedback,omitempty" json:"coachFeedback,omitempty"`
	Performance   *Performance `bson:"performance,omitempty" json:"performance,omitempty"`

	// IsActive mirrors "status is assigned or in_progress and not deleted".
	// It is maintained alongside status so the duplicate-assignment guard
	// can hang a partial unique index off a single field.
	IsActive  bool `bson:"isActive" json:"isActive"`
	IsDeleted bool `bson:"isDeleted" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AllExercisesCompleted reports whether every exercise of the snapshot has
// been marked complete. True for an empty snapshot is not a concern: creation
// requires a non-empty template.
func (a *Assignment) AllExercisesCompleted() bool {
	for i := range a.Exercises {
		if !a.Exercises[i].IsCompleted {
			return false
		}
	}
	return true
}

// DeriveStatus computes the lifecycle status from the exercise snapshot.
// completed iff every exercise is complete, in_progress iff at least one is,
// assigned otherwise.
func (a *Assignment) DeriveStatus() AssignmentStatus {
	total := len(a.Exercises)
	done := 0
	for i := range a.Exercises {
		if a.Exercises[i].IsCompleted {
			done++
		}
	}
	switch {
	case total > 0 && done == total:
		return StatusCompleted
	case done > 0:
		return StatusInProgress
	default:
		return StatusAssigned
	}
}

// ExerciseByID returns the snapshot entry for the given catalog exercise,
// or nil when the exercise is not part of this assignment.
func (a *Assignment) ExerciseByID(exerciseID primitive.ObjectID) *AssignedExercise {
	for i := range a.Exercises {
		if a.Exercises[i].ExerciseID == exerciseID {
			return &a.Exercises[i]
		}
	}
	return nil
}

// OwnedByClient is the capability check for all client-side mutations.
func (a *Assignment) OwnedByClient(clientID primitive.ObjectID) bool {
	return a.ClientID == clientID
}

// OwnedByCoach is the capability check for all coach-side mutations.
func (a *Assignment) OwnedByCoach(coachID primitive.ObjectID) bool {
	return a.CoachID == coachID
}
