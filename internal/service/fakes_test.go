package service

import (
	"context"
	"sync"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/notification"
	"fitlink/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces with the same
// observable semantics as the Mongo implementations: atomic updates return
// the post-update document, ownership mismatches read as ErrNotFound at the
// repo level, and the duplicate-active guard is enforced on insert.

// --- assignment repo fake ---

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]*domain.Assignment
	order       []primitive.ObjectID // insertion order, oldest first
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: map[primitive.ObjectID]*domain.Assignment{}}
}

func (f *fakeAssignmentRepo) CreateActive(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.assignments {
		if existing.TemplateID == assignment.TemplateID &&
			existing.ClientID == assignment.ClientID &&
			existing.IsActive && !existing.IsDeleted {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}

	now := time.Now().UTC()
	stored := *assignment
	stored.ID = primitive.NewObjectID()
	stored.AssignedAt = now
	stored.IsActive = true
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Exercises = append([]domain.AssignedExercise(nil), assignment.Exercises...)

	f.assignments[stored.ID] = &stored
	f.order = append(f.order, stored.ID)
	return stored.ID, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	cp.Exercises = append([]domain.AssignedExercise(nil), a.Exercises...)
	return &cp, nil
}

func (f *fakeAssignmentRepo) ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Assignment
	for i := len(f.order) - 1; i >= 0; i-- {
		a := f.assignments[f.order[i]]
		if a.ClientID == clientID && !a.IsDeleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByCoachID(ctx context.Context, coachID primitive.ObjectID, filter repository.AssignmentListFilter, page, limit int) ([]domain.Assignment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []domain.Assignment
	for i := len(f.order) - 1; i >= 0; i-- {
		a := f.assignments[f.order[i]]
		if a.CoachID != coachID || a.IsDeleted {
			continue
		}
		if filter.ClientID != primitive.NilObjectID && a.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, *a)
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []domain.Assignment{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// deriveAndStamp mirrors the status derivation the Mongo pipeline performs
// inside the same update.
func deriveAndStamp(a *domain.Assignment, now time.Time) {
	a.Status = a.DeriveStatus()
	if a.Status == domain.StatusCompleted {
		if a.CompletedAt == nil {
			t := now
			a.CompletedAt = &t
		}
		a.IsActive = false
	}
	a.UpdatedAt = now
}

func (f *fakeAssignmentRepo) UpdateExerciseCompletion(ctx context.Context, assignmentID, clientID, exerciseID primitive.ObjectID, sets []domain.CompletedSet, notes string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.assignments[assignmentID]
	if !ok || a.ClientID != clientID || a.IsDeleted {
		return nil, repository.ErrNotFound
	}

	for i := range a.Exercises {
		if a.Exercises[i].ExerciseID == exerciseID {
			a.Exercises[i].IsCompleted = true
			a.Exercises[i].CompletedSets = append([]domain.CompletedSet(nil), sets...)
			a.Exercises[i].Notes = notes
		}
	}
	deriveAndStamp(a, time.Now().UTC())

	cp := *a
	cp.Exercises = append([]domain.AssignedExercise(nil), a.Exercises...)
	return &cp, nil
}

func (f *fakeAssignmentRepo) Complete(ctx context.Context, assignmentID, clientID primitive.ObjectID, perf *domain.Performance, clientNote string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.assignments[assignmentID]
	if !ok || a.ClientID != clientID || a.IsDeleted || !a.AllExercisesCompleted() {
		return nil, repository.ErrNotFound
	}

	now := time.Now().UTC()
	a.Performance = perf
	a.ClientNotes = clientNote
	a.Status = domain.StatusCompleted
	if a.CompletedAt == nil {
		t := now
		a.CompletedAt = &t
	}
	a.IsActive = false
	a.UpdatedAt = now

	cp := *a
	return &cp, nil
}

func (f *fakeAssignmentRepo) SetClientNotes(ctx context.Context, assignmentID, clientID primitive.ObjectID, notes string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[assignmentID]
	if !ok || a.ClientID != clientID || a.IsDeleted {
		return nil, repository.ErrNotFound
	}
	a.ClientNotes = notes
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (f *fakeAssignmentRepo) SetCoachNote(ctx context.Context, assignmentID, coachID primitive.ObjectID, note string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[assignmentID]
	if !ok || a.CoachID != coachID || a.IsDeleted {
		return nil, repository.ErrNotFound
	}
	a.CoachNote = note
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (f *fakeAssignmentRepo) SetCoachFeedback(ctx context.Context, assignmentID, coachID primitive.ObjectID, feedback string) (*domain.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[assignmentID]
	if !ok || a.CoachID != coachID || a.IsDeleted {
		return nil, repository.ErrNotFound
	}
	a.CoachFeedback = feedback
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (f *fakeAssignmentRepo) SoftDelete(ctx context.Context, assignmentID, coachID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[assignmentID]
	if !ok || a.CoachID != coachID || a.IsDeleted {
		return repository.ErrNotFound
	}
	a.IsDeleted = true
	a.IsActive = false
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// deleteBeforeCompleteRepo soft-deletes the assignment right before the
// completion update runs, reproducing a coach deletion landing between the
// service's ownership fetch and the atomic update.
type deleteBeforeCompleteRepo struct {
	*fakeAssignmentRepo
	coachID primitive.ObjectID
}

func (r *deleteBeforeCompleteRepo) Complete(ctx context.Context, assignmentID, clientID primitive.ObjectID, perf *domain.Performance, clientNote string) (*domain.Assignment, error) {
	_ = r.fakeAssignmentRepo.SoftDelete(ctx, assignmentID, r.coachID)
	return r.fakeAssignmentRepo.Complete(ctx, assignmentID, clientID, perf, clientNote)
}

// --- template repo fake ---

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]*domain.WorkoutTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[primitive.ObjectID]*domain.WorkoutTemplate{}}
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *template
	stored.ID = primitive.NewObjectID()
	stored.Exercises = append([]domain.TemplateExercise(nil), template.Exercises...)
	f.templates[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tpl
	cp.Exercises = append([]domain.TemplateExercise(nil), tpl.Exercises...)
	return &cp, nil
}

func (f *fakeTemplateRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.WorkoutTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]domain.WorkoutTemplate{}
	for _, id := range ids {
		if tpl, ok := f.templates[id]; ok {
			out[id] = *tpl
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WorkoutTemplate
	for _, tpl := range f.templates {
		if tpl.CoachID == coachID {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

// mutateTemplate edits a stored template in place, bypassing the service
// layer, the way a concurrent coach edit would.
func (f *fakeTemplateRepo) mutateTemplate(id primitive.ObjectID, fn func(*domain.WorkoutTemplate)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tpl, ok := f.templates[id]; ok {
		fn(tpl)
	}
}

// --- user repo fake ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
	email map[string]primitive.ObjectID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[primitive.ObjectID]*domain.User{},
		email: map[string]primitive.ObjectID{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.email[user.Email]; exists {
		return primitive.NilObjectID, repository.ErrConflict
	}
	stored := *user
	if stored.ID == primitive.NilObjectID {
		stored.ID = primitive.NewObjectID()
	}
	f.users[stored.ID] = &stored
	f.email[stored.Email] = stored.ID
	return stored.ID, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.email[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f.users[id]
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

// --- exercise repo fake ---

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]*domain.Exercise{}}
}

func (f *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *exercise
	if stored.ID == primitive.NilObjectID {
		stored.ID = primitive.NewObjectID()
	}
	stored.IsActive = true
	f.exercises[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ex
	return &cp, nil
}

func (f *fakeExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]domain.Exercise{}
	for _, id := range ids {
		if ex, ok := f.exercises[id]; ok {
			out[id] = *ex
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) ListActive(ctx context.Context) ([]domain.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Exercise
	for _, ex := range f.exercises {
		if ex.IsActive {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) Search(ctx context.Context, query string) ([]domain.Exercise, error) {
	return f.ListActive(ctx)
}

func (f *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	f.exercises[exercise.ID] = &stored
	return nil
}

func (f *fakeExerciseRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	ex.IsActive = false
	return nil
}

// --- notification dispatcher fake ---

type fakeDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (f *fakeDispatcher) Notify(event notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeDispatcher) Close() {}

func (f *fakeDispatcher) eventsOfType(eventType string) []notification.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Event
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
