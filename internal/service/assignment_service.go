package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/notification"
	"fitlink/coaching-api/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Read-side view types ---

// TemplateInfo is the template's display slice of an assignment view.
type TemplateInfo struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Notes string             `json:"notes,omitempty"`
}

// CoachInfo is the coach's public profile slice of an assignment view.
type CoachInfo struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	Specialization []string           `json:"specialization,omitempty"`
	Credentials    string             `json:"credentials,omitempty"`
}

// ClientInfo is the client's public profile slice of an assignment view.
type ClientInfo struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	FitnessLevel   string             `json:"fitnessLevel,omitempty"`
	Goals          []string           `json:"goals,omitempty"`
}

// AssignedExerciseDetail pairs one frozen snapshot entry with the live
// catalog record it refers to. Exercise is nil when the catalog entry no
// longer resolves; the prescription stays intact either way.
type AssignedExerciseDetail struct {
	domain.AssignedExercise
	Exercise *domain.Exercise `json:"exercise,omitempty"`
}

// AssignmentDetail is the fully joined view of one assignment: the frozen
// prescription plus descriptive metadata re-hydrated from current catalog,
// template and profile state. Any unresolvable join leaves its field nil.
type AssignmentDetail struct {
	ID            primitive.ObjectID       `json:"id"`
	Status        domain.AssignmentStatus  `json:"status"`
	AssignedAt    time.Time                `json:"assignedAt"`
	DueAt         time.Time                `json:"dueAt"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
	ClientNotes   string                   `json:"clientNotes,omitempty"`
	CoachNote     string                   `json:"coachNote,omitempty"`
	CoachFeedback string                   `json:"coachFeedback,omitempty"`
	Performance   *domain.Performance      `json:"performance,omitempty"`
	Template      *TemplateInfo            `json:"template,omitempty"`
	Coach         *CoachInfo               `json:"coach,omitempty"`
	Client        *ClientInfo              `json:"client,omitempty"`
	Exercises     []AssignedExerciseDetail `json:"exercises"`
}

// AssignmentPage is one page of the coach-side listing.
type AssignmentPage struct {
	Items []AssignmentDetail `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Pages int                `json:"pages"`
}

// CoachListOptions narrows and pages the coach-side listing.
type CoachListOptions struct {
	Status   domain.AssignmentStatus
	ClientID primitive.ObjectID
	Page     int
	Limit    int
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// --- Service Interface ---

// AssignmentService is the workout-assignment lifecycle engine: creation,
// the completion state machine, notes/feedback, and the joined read side.
type AssignmentService interface {
	AssignWorkout(ctx context.Context, coachID, templateID, clientID primitive.ObjectID, dueAt time.Time) (*domain.Assignment, error)

	UpdateExerciseCompletion(ctx context.Context, clientID, assignmentID, exerciseID primitive.ObjectID, sets []domain.CompletedSet, notes string) (*domain.Assignment, error)
	CompleteWorkout(ctx context.Context, clientID, assignmentID primitive.ObjectID, perf domain.Performance, clientNote string) (*domain.Assignment, error)

	AddClientNotes(ctx context.Context, clientID, assignmentID primitive.ObjectID, notes string) (*domain.Assignment, error)
	AddCoachNote(ctx context.Context, coachID, assignmentID primitive.ObjectID, note string) (*domain.Assignment, error)
	AddCoachFeedback(ctx context.Context, coachID, assignmentID primitive.ObjectID, feedback string) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error

	GetClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]AssignmentDetail, error)
	GetCoachAssignments(ctx context.Context, coachID primitive.ObjectID, opts CoachListOptions) (*AssignmentPage, error)
	GetAssignmentByID(ctx context.Context, requesterID, assignmentID primitive.ObjectID) (*AssignmentDetail, error)
}

// --- Service Implementation ---

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	templateRepo   repository.TemplateRepository
	exerciseRepo   repository.ExerciseRepository
	userRepo       repository.UserRepository
	dispatcher     notification.Dispatcher
	logger         zerolog.Logger
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
	dispatcher notification.Dispatcher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		exerciseRepo:   exerciseRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		logger:         logger.With().Str("component", "assignment_service").Logger(),
	}
}

// === Creation ===

// AssignWorkout snapshots the template's exercise list into a new assignment
// for the client. The template itself is untouched; later template edits do
// not propagate to the snapshot.
func (s *assignmentService) AssignWorkout(ctx context.Context, coachID, templateID, clientID primitive.ObjectID, dueAt time.Time) (*domain.Assignment, error) {
	if coachID == primitive.NilObjectID || templateID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach, template and client ids are required", ErrInvalidInput)
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: template", ErrNotFound)
		}
		return nil, err
	}
	if template.CoachID != coachID {
		return nil, fmt.Errorf("%w: you can only assign templates you created", ErrForbidden)
	}
	if len(template.Exercises) == 0 {
		return nil, fmt.Errorf("%w: template has no exercises", ErrInvalidInput)
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: client", ErrNotFound)
		}
		return nil, err
	}
	if !client.CanBeAssigned() {
		return nil, fmt.Errorf("%w: client not found or not active", ErrNotFound)
	}

	if dueAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: due date cannot be in the past", ErrInvalidInput)
	}

	assignment := &domain.Assignment{
		TemplateID: templateID,
		CoachID:    coachID,
		ClientID:   clientID,
		DueAt:      dueAt.UTC(),
		Status:     domain.StatusAssigned,
		Exercises:  template.SnapshotExercises(),
	}

	assignmentID, err := s.assignmentRepo.CreateActive(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: client already has an active assignment for this workout", ErrConflict)
		}
		return nil, err
	}
	assignment.ID = assignmentID

	s.logger.Info().
		Str("assignment_id", assignmentID.Hex()).
		Str("template_id", templateID.Hex()).
		Str("client_id", clientID.Hex()).
		Msg("workout assigned")

	s.dispatcher.Notify(notification.Event{
		UserIDs: []primitive.ObjectID{clientID},
		Title:   "New Workout Assigned",
		Message: fmt.Sprintf("You have been assigned a new workout: %s", template.Name),
		Type:    domain.EventWorkoutAssigned,
		Payload: map[string]string{"assignmentId": assignmentID.Hex()},
	})

	return assignment, nil
}

// === Completion state machine ===

// UpdateExerciseCompletion records the client's completed sets for one
// snapshot exercise and re-derives the assignment status. When the update
// pushes the assignment into completed, the coach is notified.
func (s *assignmentService) UpdateExerciseCompletion(ctx context.Context, clientID, assignmentID, exerciseID primitive.ObjectID, sets []domain.CompletedSet, notes string) (*domain.Assignment, error) {
	assignment, err := s.getOwnedByClient(ctx, clientID, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ExerciseByID(exerciseID) == nil {
		return nil, fmt.Errorf("%w: exercise not part of this assignment", ErrNotFound)
	}

	wasCompleted := assignment.Status == domain.StatusCompleted

	updated, err := s.assignmentRepo.UpdateExerciseCompletion(ctx, assignmentID, clientID, exerciseID, sets, notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, err
	}

	if !wasCompleted && updated.Status == domain.StatusCompleted {
		s.notifyWorkoutCompleted(updated)
	}

	return updated, nil
}

// CompleteWorkout is the explicit completion transition. It requires every
// exercise to already be complete and is the only path that records
// performance. completedAt keeps its first-written value, so calling this
// after the automatic derivation already completed the assignment records
// performance without moving the completion time.
func (s *assignmentService) CompleteWorkout(ctx context.Context, clientID, assignmentID primitive.ObjectID, perf domain.Performance, clientNote string) (*domain.Assignment, error) {
	assignment, err := s.getOwnedByClient(ctx, clientID, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.AllExercisesCompleted() {
		return nil, fmt.Errorf("%w: all exercises must be completed first", ErrInvalidState)
	}

	wasCompleted := assignment.Status == domain.StatusCompleted

	updated, err := s.assignmentRepo.Complete(ctx, assignmentID, clientID, &perf, clientNote)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The update filter covers both the all-complete precondition
			// and existence; re-fetch to tell a concurrent deletion apart
			// from an exercise reverting.
			if _, ferr := s.getOwnedByClient(ctx, clientID, assignmentID); ferr != nil {
				return nil, ferr
			}
			return nil, fmt.Errorf("%w: all exercises must be completed first", ErrInvalidState)
		}
		return nil, err
	}

	if !wasCompleted {
		s.notifyWorkoutCompleted(updated)
	}

	return updated, nil
}

// === Notes and feedback ===

// AddClientNotes overwrites the client's notes. No status effect.
func (s *assignmentService) AddClientNotes(ctx context.Context, clientID, assignmentID primitive.ObjectID, notes string) (*domain.Assignment, error) {
	if _, err := s.getOwnedByClient(ctx, clientID, assignmentID); err != nil {
		return nil, err
	}
	return s.applyUpdate(s.assignmentRepo.SetClientNotes(ctx, assignmentID, clientID, notes))
}

// AddCoachNote overwrites the coach's note. No status effect, no notification.
func (s *assignmentService) AddCoachNote(ctx context.Context, coachID, assignmentID primitive.ObjectID, note string) (*domain.Assignment, error) {
	if _, err := s.getOwnedByCoach(ctx, coachID, assignmentID); err != nil {
		return nil, err
	}
	return s.applyUpdate(s.assignmentRepo.SetCoachNote(ctx, assignmentID, coachID, note))
}

// AddCoachFeedback overwrites the coach's feedback and notifies the client.
func (s *assignmentService) AddCoachFeedback(ctx context.Context, coachID, assignmentID primitive.ObjectID, feedback string) (*domain.Assignment, error) {
	if _, err := s.getOwnedByCoach(ctx, coachID, assignmentID); err != nil {
		return nil, err
	}

	updated, err := s.applyUpdate(s.assignmentRepo.SetCoachFeedback(ctx, assignmentID, coachID, feedback))
	if err != nil {
		return nil, err
	}

	s.dispatcher.Notify(notification.Event{
		UserIDs: []primitive.ObjectID{updated.ClientID},
		Title:   "New Coach Feedback",
		Message: "Your coach has added feedback to your workout",
		Type:    domain.EventCoachFeedback,
		Payload: map[string]string{"assignmentId": assignmentID.Hex()},
	})

	return updated, nil
}

// DeleteAssignment soft-deletes the assignment, freeing its active slot.
func (s *assignmentService) DeleteAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error {
	if _, err := s.getOwnedByCoach(ctx, coachID, assignmentID); err != nil {
		return err
	}
	if err := s.assignmentRepo.SoftDelete(ctx, assignmentID, coachID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return err
	}
	return nil
}

// === Read side ===

// GetClientAssignments returns every non-deleted assignment of the client,
// newest first, fully joined.
func (s *assignmentService) GetClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]AssignmentDetail, error) {
	assignments, err := s.assignmentRepo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(ctx, assignments)
}

// GetCoachAssignments returns one page of the coach's assignments, joined,
// filtered and paginated against the filtered result set.
func (s *assignmentService) GetCoachAssignments(ctx context.Context, coachID primitive.ObjectID, opts CoachListOptions) (*AssignmentPage, error) {
	if opts.Status != "" && !domain.ValidAssignmentStatus(opts.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, opts.Status)
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := repository.AssignmentListFilter{
		ClientID: opts.ClientID,
		Status:   opts.Status,
	}
	assignments, total, err := s.assignmentRepo.ListByCoachID(ctx, coachID, filter, page, limit)
	if err != nil {
		return nil, err
	}

	items, err := s.buildDetails(ctx, assignments)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &AssignmentPage{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// GetAssignmentByID returns the joined view of one assignment. The requester
// must be the owning client or the owning coach.
func (s *assignmentService) GetAssignmentByID(ctx context.Context, requesterID, assignmentID primitive.ObjectID) (*AssignmentDetail, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, err
	}
	if assignment.IsDeleted {
		return nil, fmt.Errorf("%w: assignment", ErrNotFound)
	}
	if !assignment.OwnedByClient(requesterID) && !assignment.OwnedByCoach(requesterID) {
		return nil, ErrForbidden
	}

	details, err := s.buildDetails(ctx, []domain.Assignment{*assignment})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// --- helpers ---

// getOwnedByClient fetches the assignment and runs the client capability
// check against the stored clientId. Soft-deleted assignments read as gone.
func (s *assignmentService) getOwnedByClient(ctx context.Context, clientID, assignmentID primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, err
	}
	if assignment.IsDeleted {
		return nil, fmt.Errorf("%w: assignment", ErrNotFound)
	}
	if !assignment.OwnedByClient(clientID) {
		return nil, ErrForbidden
	}
	return assignment, nil
}

// getOwnedByCoach is the coach-side capability check.
func (s *assignmentService) getOwnedByCoach(ctx context.Context, coachID, assignmentID primitive.ObjectID) (*domain.Assignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, err
	}
	if assignment.IsDeleted {
		return nil, fmt.Errorf("%w: assignment", ErrNotFound)
	}
	if !assignment.OwnedByCoach(coachID) {
		return nil, ErrForbidden
	}
	return assignment, nil
}

func (s *assignmentService) applyUpdate(updated *domain.Assignment, err error) (*domain.Assignment, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment", ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}

func (s *assignmentService) notifyWorkoutCompleted(assignment *domain.Assignment) {
	s.dispatcher.Notify(notification.Event{
		UserIDs: []primitive.ObjectID{assignment.CoachID},
		Title:   "Workout Completed",
		Message: "Your client has completed an assigned workout",
		Type:    domain.EventWorkoutCompleted,
		Payload: map[string]string{
			"assignmentId": assignment.ID.Hex(),
			"clientId":     assignment.ClientID.Hex(),
		},
	})
}

// buildDetails re-hydrates descriptive metadata for a batch of assignments:
// template display fields, coach and client public profiles, and the live
// catalog record for every snapshot exercise. A referent that no longer
// resolves leaves its slot nil; the frozen prescription is always returned.
func (s *assignmentService) buildDetails(ctx context.Context, assignments []domain.Assignment) ([]AssignmentDetail, error) {
	if len(assignments) == 0 {
		return []AssignmentDetail{}, nil
	}

	templateIDs := make([]primitive.ObjectID, 0, len(assignments))
	userIDs := make([]primitive.ObjectID, 0, len(assignments)*2)
	exerciseIDs := make([]primitive.ObjectID, 0)
	seenTemplates := map[primitive.ObjectID]bool{}
	seenUsers := map[primitive.ObjectID]bool{}
	seenExercises := map[primitive.ObjectID]bool{}

	for i := range assignments {
		a := &assignments[i]
		if !seenTemplates[a.TemplateID] {
			seenTemplates[a.TemplateID] = true
			templateIDs = append(templateIDs, a.TemplateID)
		}
		for _, id := range []primitive.ObjectID{a.CoachID, a.ClientID} {
			if !seenUsers[id] {
				seenUsers[id] = true
				userIDs = append(userIDs, id)
			}
		}
		for j := range a.Exercises {
			exID := a.Exercises[j].ExerciseID
			if !seenExercises[exID] {
				seenExercises[exID] = true
				exerciseIDs = append(exerciseIDs, exID)
			}
		}
	}

	templates, err := s.templateRepo.GetByIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}

	details := make([]AssignmentDetail, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		detail := AssignmentDetail{
			ID:            a.ID,
			Status:        a.Status,
			AssignedAt:    a.AssignedAt,
			DueAt:         a.DueAt,
			CompletedAt:   a.CompletedAt,
			ClientNotes:   a.ClientNotes,
			CoachNote:     a.CoachNote,
			CoachFeedback: a.CoachFeedback,
			Performance:   a.Performance,
			Exercises:     make([]AssignedExerciseDetail, len(a.Exercises)),
		}

		if t, ok := templates[a.TemplateID]; ok {
			detail.Template = &TemplateInfo{ID: t.ID, Name: t.Name, Notes: t.Notes}
		}
		if coach, ok := users[a.CoachID]; ok {
			detail.Coach = &CoachInfo{
				ID:             coach.ID,
				Name:           coach.Name,
				ProfilePicture: coach.ProfilePicture,
				Specialization: coach.Specialization,
				Credentials:    coach.Credentials,
			}
		}
		if client, ok := users[a.ClientID]; ok {
			detail.Client = &ClientInfo{
				ID:             client.ID,
				Name:           client.Name,
				ProfilePicture: client.ProfilePicture,
				FitnessLevel:   client.FitnessLevel,
				Goals:          client.Goals,
			}
		}
		for j := range a.Exercises {
			detail.Exercises[j] = AssignedExerciseDetail{AssignedExercise: a.Exercises[j]}
			if ex, ok := exercises[a.Exercises[j].ExerciseID]; ok {
				exCopy := ex
				detail.Exercises[j].Exercise = &exCopy
			}
		}

		details[i] = detail
	}

	return details, nil
}
