package service

import (
	"context"
	"testing"
	"time"

	"fitlink/coaching-api/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// assignmentFixture wires an assignmentService against in-memory fakes with
// one coach, one active client and a two-exercise template pre-seeded.
type assignmentFixture struct {
	svc            AssignmentService
	assignmentRepo *fakeAssignmentRepo
	templateRepo   *fakeTemplateRepo
	exerciseRepo   *fakeExerciseRepo
	userRepo       *fakeUserRepo
	dispatcher     *fakeDispatcher

	coach    *domain.User
	client   *domain.User
	pushUps  *domain.Exercise
	squats   *domain.Exercise
	template *domain.WorkoutTemplate
	dueAt    time.Time
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	ctx := context.Background()

	f := &assignmentFixture{
		assignmentRepo: newFakeAssignmentRepo(),
		templateRepo:   newFakeTemplateRepo(),
		exerciseRepo:   newFakeExerciseRepo(),
		userRepo:       newFakeUserRepo(),
		dispatcher:     &fakeDispatcher{},
		dueAt:          time.Now().Add(48 * time.Hour),
	}

	f.coach = &domain.User{Name: "Coach Carter", Email: "coach@example.com", Role: domain.RoleCoach, IsActive: true}
	coachID, err := f.userRepo.Create(ctx, f.coach)
	require.NoError(t, err)
	f.coach.ID = coachID

	f.client = &domain.User{Name: "Casey Client", Email: "client@example.com", Role: domain.RoleClient, IsActive: true}
	clientID, err := f.userRepo.Create(ctx, f.client)
	require.NoError(t, err)
	f.client.ID = clientID

	f.pushUps = &domain.Exercise{Name: "Push-ups", MuscleGroups: []string{"chest"}}
	pushUpsID, err := f.exerciseRepo.Create(ctx, f.pushUps)
	require.NoError(t, err)
	f.pushUps.ID = pushUpsID

	f.squats = &domain.Exercise{Name: "Squats", MuscleGroups: []string{"legs"}}
	squatsID, err := f.exerciseRepo.Create(ctx, f.squats)
	require.NoError(t, err)
	f.squats.ID = squatsID

	f.template = &domain.WorkoutTemplate{
		CoachID: coachID,
		Name:    "Full Body A",
		Exercises: []domain.TemplateExercise{
			{ExerciseID: pushUpsID, Sets: 3, Reps: 12, Weight: 0, RestTimeSeconds: 60, Order: 1},
			{ExerciseID: squatsID, Sets: 4, Reps: 10, Weight: 40, RestTimeSeconds: 90, Order: 2},
		},
	}
	templateID, err := f.templateRepo.Create(ctx, f.template)
	require.NoError(t, err)
	f.template.ID = templateID

	f.svc = NewAssignmentService(f.assignmentRepo, f.templateRepo, f.exerciseRepo, f.userRepo, f.dispatcher, zerolog.Nop())
	return f
}

func (f *assignmentFixture) assign(t *testing.T) *domain.Assignment {
	t.Helper()
	assignment, err := f.svc.AssignWorkout(context.Background(), f.coach.ID, f.template.ID, f.client.ID, f.dueAt)
	require.NoError(t, err)
	return assignment
}

func (f *assignmentFixture) completeAll(t *testing.T, assignmentID primitive.ObjectID) *domain.Assignment {
	t.Helper()
	ctx := context.Background()
	sets := []domain.CompletedSet{{RepsCompleted: 10, WeightUsed: 0}}
	_, err := f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignmentID, f.pushUps.ID, sets, "")
	require.NoError(t, err)
	updated, err := f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignmentID, f.squats.ID, sets, "")
	require.NoError(t, err)
	return updated
}

// --- creation ---

func TestAssignWorkout(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the template prescription", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		assert.Equal(t, domain.StatusAssigned, assignment.Status)
		assert.Nil(t, assignment.CompletedAt)
		require.Len(t, assignment.Exercises, 2)
		assert.Equal(t, f.pushUps.ID, assignment.Exercises[0].ExerciseID)
		assert.Equal(t, 3, assignment.Exercises[0].Sets)
		assert.Equal(t, 12, assignment.Exercises[0].Reps)
		assert.Equal(t, f.squats.ID, assignment.Exercises[1].ExerciseID)
		assert.Equal(t, 40.0, assignment.Exercises[1].Weight)
		assert.False(t, assignment.Exercises[0].IsCompleted)
	})

	t.Run("notifies the client", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		events := f.dispatcher.eventsOfType(domain.EventWorkoutAssigned)
		require.Len(t, events, 1)
		assert.Equal(t, []primitive.ObjectID{f.client.ID}, events[0].UserIDs)
	})

	t.Run("later template edits do not reach the snapshot", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		f.templateRepo.mutateTemplate(f.template.ID, func(tpl *domain.WorkoutTemplate) {
			tpl.Exercises[0].Sets = 10
			tpl.Exercises = tpl.Exercises[:1]
		})

		got, err := f.svc.GetAssignmentByID(ctx, f.client.ID, assignment.ID)
		require.NoError(t, err)
		require.Len(t, got.Exercises, 2)
		assert.Equal(t, 3, got.Exercises[0].Sets)
	})

	t.Run("rejects a template owned by another coach", func(t *testing.T) {
		f := newAssignmentFixture(t)
		otherCoach := &domain.User{Name: "Other", Email: "other@example.com", Role: domain.RoleCoach, IsActive: true}
		otherID, err := f.userRepo.Create(ctx, otherCoach)
		require.NoError(t, err)

		_, err = f.svc.AssignWorkout(ctx, otherID, f.template.ID, f.client.ID, f.dueAt)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("rejects an unknown template", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.svc.AssignWorkout(ctx, f.coach.ID, primitive.NewObjectID(), f.client.ID, f.dueAt)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects an inactive client", func(t *testing.T) {
		f := newAssignmentFixture(t)
		inactive := &domain.User{Name: "Gone", Email: "gone@example.com", Role: domain.RoleClient, IsActive: false}
		inactiveID, err := f.userRepo.Create(ctx, inactive)
		require.NoError(t, err)

		_, err = f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, inactiveID, f.dueAt)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects a coach account as assignment target", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, f.coach.ID, f.dueAt)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects a due date in the past", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, f.client.ID, time.Now().Add(-time.Hour))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects an empty template", func(t *testing.T) {
		f := newAssignmentFixture(t)
		empty := &domain.WorkoutTemplate{CoachID: f.coach.ID, Name: "Empty"}
		emptyID, err := f.templateRepo.Create(ctx, empty)
		require.NoError(t, err)

		_, err = f.svc.AssignWorkout(ctx, f.coach.ID, emptyID, f.client.ID, f.dueAt)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAssignWorkoutDuplicateGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("second active assignment for same template and client conflicts", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		_, err := f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, f.client.ID, f.dueAt)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("reassignment allowed after completion", func(t *testing.T) {
		f := newAssignmentFixture(t)
		first := f.assign(t)
		f.completeAll(t, first.ID)

		second, err := f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, f.client.ID, f.dueAt)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("reassignment allowed after soft delete", func(t *testing.T) {
		f := newAssignmentFixture(t)
		first := f.assign(t)
		require.NoError(t, f.svc.DeleteAssignment(ctx, f.coach.ID, first.ID))

		_, err := f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, f.client.ID, f.dueAt)
		assert.NoError(t, err)
	})

	t.Run("same template assignable to a different client", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		other := &domain.User{Name: "Second Client", Email: "second@example.com", Role: domain.RoleClient, IsActive: true}
		otherID, err := f.userRepo.Create(ctx, other)
		require.NoError(t, err)

		_, err = f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, otherID, f.dueAt)
		assert.NoError(t, err)
	})
}

// --- completion state machine ---

func TestUpdateExerciseCompletion(t *testing.T) {
	ctx := context.Background()
	sets := []domain.CompletedSet{{RepsCompleted: 12, WeightUsed: 0, Notes: "felt easy"}}

	t.Run("first exercise moves the assignment to in_progress", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		updated, err := f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignment.ID, f.pushUps.ID, sets, "good form")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Nil(t, updated.CompletedAt)

		ex := updated.ExerciseByID(f.pushUps.ID)
		require.NotNil(t, ex)
		assert.True(t, ex.IsCompleted)
		assert.Equal(t, sets, ex.CompletedSets)
		assert.Equal(t, "good form", ex.Notes)
	})

	t.Run("last exercise completes the assignment and notifies the coach", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		updated := f.completeAll(t, assignment.ID)

		assert.Equal(t, domain.StatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedAt)

		events := f.dispatcher.eventsOfType(domain.EventWorkoutCompleted)
		require.Len(t, events, 1)
		assert.Equal(t, []primitive.ObjectID{f.coach.ID}, events[0].UserIDs)
	})

	t.Run("re-recording an exercise does not re-notify", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		f.completeAll(t, assignment.ID)

		_, err := f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignment.ID, f.squats.ID, sets, "redone")
		require.NoError(t, err)

		assert.Len(t, f.dispatcher.eventsOfType(domain.EventWorkoutCompleted), 1)
	})

	t.Run("exercise outside the snapshot is not found", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		_, err := f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignment.ID, primitive.NewObjectID(), sets, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("another client cannot record completions", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		_, err := f.svc.UpdateExerciseCompletion(ctx, primitive.NewObjectID(), assignment.ID, f.pushUps.ID, sets, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCompleteWorkout(t *testing.T) {
	ctx := context.Background()
	perf := domain.Performance{OverallRating: 4, DifficultyLevel: 3, EnergyLevel: 4, PainLevel: 0}

	t.Run("rejected while exercises remain incomplete", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		_, err := f.svc.CompleteWorkout(ctx, f.client.ID, assignment.ID, perf, "")
		assert.ErrorIs(t, err, ErrInvalidState)

		sets := []domain.CompletedSet{{RepsCompleted: 12}}
		_, err = f.svc.UpdateExerciseCompletion(ctx, f.client.ID, assignment.ID, f.pushUps.ID, sets, "")
		require.NoError(t, err)

		_, err = f.svc.CompleteWorkout(ctx, f.client.ID, assignment.ID, perf, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("records performance after auto-completion without moving completedAt", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		autoCompleted := f.completeAll(t, assignment.ID)
		require.NotNil(t, autoCompleted.CompletedAt)
		firstCompletedAt := *autoCompleted.CompletedAt

		finalized, err := f.svc.CompleteWorkout(ctx, f.client.ID, assignment.ID, perf, "tough but good")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusCompleted, finalized.Status)
		require.NotNil(t, finalized.Performance)
		assert.Equal(t, 4, finalized.Performance.OverallRating)
		assert.Equal(t, "tough but good", finalized.ClientNotes)
		require.NotNil(t, finalized.CompletedAt)
		assert.True(t, finalized.CompletedAt.Equal(firstCompletedAt))
	})

	t.Run("only notifies once across both completion paths", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		f.completeAll(t, assignment.ID)

		_, err := f.svc.CompleteWorkout(ctx, f.client.ID, assignment.ID, perf, "")
		require.NoError(t, err)

		assert.Len(t, f.dispatcher.eventsOfType(domain.EventWorkoutCompleted), 1)
	})

	t.Run("another client cannot complete", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		f.completeAll(t, assignment.ID)

		_, err := f.svc.CompleteWorkout(ctx, primitive.NewObjectID(), assignment.ID, perf, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("deletion between fetch and update reads as not found", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		f.completeAll(t, assignment.ID)

		racingSvc := NewAssignmentService(
			&deleteBeforeCompleteRepo{fakeAssignmentRepo: f.assignmentRepo, coachID: f.coach.ID},
			f.templateRepo, f.exerciseRepo, f.userRepo, f.dispatcher, zerolog.Nop(),
		)

		_, err := racingSvc.CompleteWorkout(ctx, f.client.ID, assignment.ID, perf, "")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrInvalidState)
	})
}

// --- notes and feedback ---

func TestNotesAndFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("client notes round-trip", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		updated, err := f.svc.AddClientNotes(ctx, f.client.ID, assignment.ID, "knee felt stiff")
		require.NoError(t, err)
		assert.Equal(t, "knee felt stiff", updated.ClientNotes)
	})

	t.Run("coach note does not notify", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		updated, err := f.svc.AddCoachNote(ctx, f.coach.ID, assignment.ID, "watch squat depth")
		require.NoError(t, err)
		assert.Equal(t, "watch squat depth", updated.CoachNote)
		assert.Empty(t, f.dispatcher.eventsOfType(domain.EventCoachFeedback))
	})

	t.Run("coach feedback notifies the client", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		updated, err := f.svc.AddCoachFeedback(ctx, f.coach.ID, assignment.ID, "great session")
		require.NoError(t, err)
		assert.Equal(t, "great session", updated.CoachFeedback)

		events := f.dispatcher.eventsOfType(domain.EventCoachFeedback)
		require.Len(t, events, 1)
		assert.Equal(t, []primitive.ObjectID{f.client.ID}, events[0].UserIDs)
	})

	t.Run("another coach cannot write notes or feedback", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		stranger := primitive.NewObjectID()

		_, err := f.svc.AddCoachNote(ctx, stranger, assignment.ID, "x")
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = f.svc.AddCoachFeedback(ctx, stranger, assignment.ID, "x")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("client cannot write coach fields", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		_, err := f.svc.AddCoachNote(ctx, f.client.ID, assignment.ID, "x")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

// --- deletion ---

func TestDeleteAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deleted assignment reads as gone", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		require.NoError(t, f.svc.DeleteAssignment(ctx, f.coach.ID, assignment.ID))

		_, err := f.svc.GetAssignmentByID(ctx, f.client.ID, assignment.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		details, err := f.svc.GetClientAssignments(ctx, f.client.ID)
		require.NoError(t, err)
		assert.Empty(t, details)
	})

	t.Run("only the owning coach can delete", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		err := f.svc.DeleteAssignment(ctx, primitive.NewObjectID(), assignment.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

// --- read side ---

func TestGetClientAssignments(t *testing.T) {
	ctx := context.Background()

	t.Run("joins template, profiles and catalog records", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		details, err := f.svc.GetClientAssignments(ctx, f.client.ID)
		require.NoError(t, err)
		require.Len(t, details, 1)

		detail := details[0]
		require.NotNil(t, detail.Template)
		assert.Equal(t, "Full Body A", detail.Template.Name)
		require.NotNil(t, detail.Coach)
		assert.Equal(t, "Coach Carter", detail.Coach.Name)
		require.NotNil(t, detail.Client)
		assert.Equal(t, "Casey Client", detail.Client.Name)

		require.Len(t, detail.Exercises, 2)
		require.NotNil(t, detail.Exercises[0].Exercise)
		assert.Equal(t, "Push-ups", detail.Exercises[0].Exercise.Name)
		require.NotNil(t, detail.Exercises[1].Exercise)
		assert.Equal(t, "Squats", detail.Exercises[1].Exercise.Name)
	})

	t.Run("missing catalog record degrades to nil without losing the prescription", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		f.exerciseRepo.mu.Lock()
		delete(f.exerciseRepo.exercises, f.pushUps.ID)
		f.exerciseRepo.mu.Unlock()

		details, err := f.svc.GetClientAssignments(ctx, f.client.ID)
		require.NoError(t, err)
		require.Len(t, details, 1)

		assert.Nil(t, details[0].Exercises[0].Exercise)
		assert.Equal(t, 3, details[0].Exercises[0].Sets)
		assert.NotNil(t, details[0].Exercises[1].Exercise)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		f := newAssignmentFixture(t)
		details, err := f.svc.GetClientAssignments(ctx, f.client.ID)
		require.NoError(t, err)
		assert.NotNil(t, details)
		assert.Empty(t, details)
	})
}

func TestGetCoachAssignments(t *testing.T) {
	ctx := context.Background()

	// seedMany creates n assignments for the coach across n fresh clients.
	seedMany := func(t *testing.T, f *assignmentFixture, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			client := &domain.User{
				Name:     "Client",
				Email:    primitive.NewObjectID().Hex() + "@example.com",
				Role:     domain.RoleClient,
				IsActive: true,
			}
			clientID, err := f.userRepo.Create(ctx, client)
			require.NoError(t, err)
			_, err = f.svc.AssignWorkout(ctx, f.coach.ID, f.template.ID, clientID, f.dueAt)
			require.NoError(t, err)
		}
	}

	t.Run("pages against the filtered total", func(t *testing.T) {
		f := newAssignmentFixture(t)
		seedMany(t, f, 25)

		page, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{Page: 2, Limit: 10})
		require.NoError(t, err)

		assert.Len(t, page.Items, 10)
		assert.Equal(t, int64(25), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.Pages)
	})

	t.Run("last page is partial", func(t *testing.T) {
		f := newAssignmentFixture(t)
		seedMany(t, f, 25)

		page, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Items, 5)
	})

	t.Run("defaults page and limit", func(t *testing.T) {
		f := newAssignmentFixture(t)
		seedMany(t, f, 12)

		page, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.Pages)
	})

	t.Run("status filter narrows total and pages", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)
		seedMany(t, f, 3)
		f.completeAll(t, assignment.ID)

		page, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{Status: domain.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, domain.StatusCompleted, page.Items[0].Status)
	})

	t.Run("client filter", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)
		seedMany(t, f, 3)

		page, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{ClientID: f.client.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("unknown status is invalid input", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.svc.GetCoachAssignments(ctx, f.coach.ID, CoachListOptions{Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("another coach sees nothing", func(t *testing.T) {
		f := newAssignmentFixture(t)
		f.assign(t)

		page, err := f.svc.GetCoachAssignments(ctx, primitive.NewObjectID(), CoachListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestGetAssignmentByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owning client and coach can read", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		forClient, err := f.svc.GetAssignmentByID(ctx, f.client.ID, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, assignment.ID, forClient.ID)

		forCoach, err := f.svc.GetAssignmentByID(ctx, f.coach.ID, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, assignment.ID, forCoach.ID)
	})

	t.Run("strangers are forbidden", func(t *testing.T) {
		f := newAssignmentFixture(t)
		assignment := f.assign(t)

		_, err := f.svc.GetAssignmentByID(ctx, primitive.NewObjectID(), assignment.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		f := newAssignmentFixture(t)
		_, err := f.svc.GetAssignmentByID(ctx, f.client.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
