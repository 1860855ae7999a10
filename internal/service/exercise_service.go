package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/repository"
	"fitlink/coaching-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUploadURL is the presigned-URL pair returned to a coach uploading
// demo media for a catalog exercise.
type MediaUploadURL struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---

type ExerciseService interface {
	CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	SearchExercises(ctx context.Context, query string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	DeactivateExercise(ctx context.Context, exerciseID primitive.ObjectID) error

	// RequestMediaUploadURL returns a presigned PUT URL for attaching demo
	// media (image or video) to an exercise.
	RequestMediaUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*MediaUploadURL, error)
}

// --- Service Implementation ---

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise validates and inserts a new catalog entry.
func (s *exerciseService) CreateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: exercise", ErrNotFound)
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListActive(ctx)
}

// SearchExercises does a case-insensitive substring search over name,
// category, equipment and muscle groups.
func (s *exerciseService) SearchExercises(ctx context.Context, query string) ([]domain.Exercise, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidInput)
	}
	return s.exerciseRepo.Search(ctx, query)
}

// UpdateExercise replaces the mutable fields of an existing entry. Frozen
// assignment snapshots are unaffected by catalog edits.
func (s *exerciseService) UpdateExercise(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.ID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: exercise id is required", ErrInvalidInput)
	}
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: exercise", ErrNotFound)
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exercise.ID)
}

func (s *exerciseService) DeactivateExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	if err := s.exerciseRepo.Deactivate(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: exercise", ErrNotFound)
		}
		return err
	}
	return nil
}

// RequestMediaUploadURL generates a presigned PUT URL for exercise demo media.
func (s *exerciseService) RequestMediaUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (*MediaUploadURL, error) {
	ct := strings.ToLower(contentType)
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return nil, fmt.Errorf("%w: media content type must be image/* or video/*", ErrInvalidInput)
	}

	if _, err := s.GetExerciseByID(ctx, exerciseID); err != nil {
		return nil, err
	}

	ext := ""
	if parts := strings.Split(ct, "/"); len(parts) == 2 {
		ext = parts[1]
	}
	objectKey := path.Join("exercise-media", exerciseID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &MediaUploadURL{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func validateExercise(exercise *domain.Exercise) error {
	if exercise == nil || strings.TrimSpace(exercise.Name) == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(exercise.Instructions.Text) == "" {
		return fmt.Errorf("%w: exercise instructions text is required", ErrInvalidInput)
	}
	if len(exercise.MuscleGroups) == 0 {
		return fmt.Errorf("%w: at least one muscle group is required", ErrInvalidInput)
	}
	return nil
}
