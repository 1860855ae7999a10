package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

type TemplateService interface {
	CreateTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	ListTemplatesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	// GetTemplateByID allows the owning coach and any client holding a
	// non-deleted assignment of the template; other principals get
	// ErrForbidden.
	GetTemplateByID(ctx context.Context, requesterID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
}

// --- Service Implementation ---

type templateService struct {
	templateRepo   repository.TemplateRepository
	exerciseRepo   repository.ExerciseRepository
	assignmentRepo repository.AssignmentRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository, exerciseRepo repository.ExerciseRepository, assignmentRepo repository.AssignmentRepository) TemplateService {
	return &templateService{
		templateRepo:   templateRepo,
		exerciseRepo:   exerciseRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateTemplate validates the prescription and checks every exercise
// reference against the catalog before inserting.
func (s *templateService) CreateTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if template == nil || strings.TrimSpace(template.Name) == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}
	if template.CoachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach id is required", ErrInvalidInput)
	}
	if len(template.Exercises) == 0 {
		return nil, fmt.Errorf("%w: template requires at least one exercise", ErrInvalidInput)
	}

	exerciseIDs := make([]primitive.ObjectID, 0, len(template.Exercises))
	for i, ex := range template.Exercises {
		if ex.Sets <= 0 || ex.Reps <= 0 || ex.RestTimeSeconds <= 0 || ex.Order <= 0 {
			return nil, fmt.Errorf("%w: exercise %d: sets, reps, rest time and order must be positive", ErrInvalidInput, i)
		}
		if ex.Weight < 0 {
			return nil, fmt.Errorf("%w: exercise %d: weight cannot be negative", ErrInvalidInput, i)
		}
		exerciseIDs = append(exerciseIDs, ex.ExerciseID)
	}

	found, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range exerciseIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: exercise %s", ErrNotFound, id.Hex())
		}
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

func (s *templateService) ListTemplatesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if coachID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: coach id is required", ErrInvalidInput)
	}
	return s.templateRepo.GetByCoachID(ctx, coachID)
}

func (s *templateService) GetTemplateByID(ctx context.Context, requesterID, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: template", ErrNotFound)
		}
		return nil, err
	}
	if template.CoachID == requesterID {
		return template, nil
	}

	// A client with a live assignment of this template may read it. The
	// client listing already excludes soft-deleted assignments.
	assigned, err := s.assignmentRepo.ListByClientID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	for i := range assigned {
		if assigned[i].TemplateID == templateID {
			return template, nil
		}
	}
	return nil, ErrForbidden
}
