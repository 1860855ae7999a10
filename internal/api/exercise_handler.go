package api

import (
	"fmt"
	"net/http"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise catalog service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request Structs ---

type ExerciseInstructionsRequest struct {
	Text     string `json:"text" binding:"required"`
	ImageURL string `json:"imageUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

type CreateExerciseRequest struct {
	Name         string                      `json:"name" binding:"required"`
	Description  string                      `json:"description,omitempty"`
	Category     string                      `json:"category,omitempty"`
	Instructions ExerciseInstructionsRequest `json:"instructions" binding:"required"`
	MuscleGroups []string                    `json:"muscleGroups" binding:"required,min=1"`
	Equipment    string                      `json:"equipment,omitempty"`
}

type MediaUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// ListExercises returns all active catalog entries.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, exercises)
}

// GetExercise returns a single catalog entry by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, exercise)
}

// SearchExercises matches the query against name, category, equipment and
// muscle groups.
func (h *ExerciseHandler) SearchExercises(c *gin.Context) {
	exercises, err := h.exerciseService.SearchExercises(c.Request.Context(), c.Param("query"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, exercises)
}

// CreateExercise adds a new entry to the catalog.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise := &domain.Exercise{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Instructions: domain.ExerciseInstructions{
			Text:     req.Instructions.Text,
			ImageURL: req.Instructions.ImageURL,
			VideoURL: req.Instructions.VideoURL,
		},
		MuscleGroups: req.MuscleGroups,
		Equipment:    req.Equipment,
	}

	created, err := h.exerciseService.CreateExercise(c.Request.Context(), exercise)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

// UpdateExercise replaces the mutable fields of a catalog entry. Existing
// assignment snapshots are unaffected.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise := &domain.Exercise{
		ID:          exerciseID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Instructions: domain.ExerciseInstructions{
			Text:     req.Instructions.Text,
			ImageURL: req.Instructions.ImageURL,
			VideoURL: req.Instructions.VideoURL,
		},
		MuscleGroups: req.MuscleGroups,
		Equipment:    req.Equipment,
	}

	updated, err := h.exerciseService.UpdateExercise(c.Request.Context(), exercise)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

// DeactivateExercise soft-removes an entry from the catalog. It stops
// appearing in lists and search but stays resolvable for snapshots that
// reference it.
func (h *ExerciseHandler) DeactivateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeactivateExercise(c.Request.Context(), exerciseID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "exercise deactivated")
}

// RequestMediaUploadURL returns a presigned PUT URL for uploading demo media.
func (h *ExerciseHandler) RequestMediaUploadURL(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req MediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.exerciseService.RequestMediaUploadURL(c.Request.Context(), exerciseID, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}
