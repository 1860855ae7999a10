package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateExercise is one prescribed exercise inside a template.
type TemplateExercise struct {
	ExerciseID      primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets            int                `bson:"sets" json:"sets"`
	Reps            int                `bson:"reps" json:"reps"`
	Weight          float64            `bson:"weight" json:"weight"` // 0 means bodyweight
	RestTimeSeconds int                `bson:"restTimeSeconds" json:"restTimeSeconds"`
	Order           int                `bson:"order" json:"order"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutTemplate is a coach-authored, reusable exercise prescription.
// It is not tied to a specific client; assigning it to a client snapshots
// its exercise list into an Assignment.
//
// Status is informational only. The assignment engine never consults it;
// completion state lives on the Assignment.
type WorkoutTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name      string             `bson:"name" json:"name"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []TemplateExercise `bson:"exercises" json:"exercises"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SnapshotExercises produces the positional copy of the template's exercise
// list used when creating an Assignment. Order is preserved, completion
// state starts empty. Later template edits do not touch the copy.
func (t *WorkoutTemplate) SnapshotExercises() []AssignedExercise {
	snapshot := make([]AssignedExercise, len(t.Exercises))
	for i, ex := range t.Exercises {
		snapshot[i] = AssignedExercise{
			ExerciseID:      ex.ExerciseID,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			Weight:          ex.Weight,
			RestTimeSeconds: ex.RestTimeSeconds,
			Order:           ex.Order,
			IsCompleted:     false,
			CompletedSets:   []CompletedSet{},
		}
	}
	return snapshot
}
