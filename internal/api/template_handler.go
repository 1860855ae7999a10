package api

import (
	"fmt"
	"net/http"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateHandler holds the workout template service dependency.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- Request Structs ---

type TemplateExerciseRequest struct {
	ExerciseID      string  `json:"exerciseId" binding:"required"`
	Sets            int     `json:"sets" binding:"required,gt=0"`
	Reps            int     `json:"reps" binding:"required,gt=0"`
	Weight          float64 `json:"weight" binding:"gte=0"`
	RestTimeSeconds int     `json:"restTimeSeconds" binding:"required,gt=0"`
	Order           int     `json:"order" binding:"required,gt=0"`
	Notes           string  `json:"notes,omitempty"`
}

type CreateTemplateRequest struct {
	Name      string                    `json:"name" binding:"required"`
	Notes     string                    `json:"notes,omitempty"`
	Exercises []TemplateExerciseRequest `json:"exercises" binding:"required,min=1,dive"`
}

// --- Handler Methods ---

// CreateTemplate creates a reusable workout prescription owned by the
// authenticated coach.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises := make([]domain.TemplateExercise, 0, len(req.Exercises))
	for _, ex := range req.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(ex.ExerciseID)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid exerciseId: %s", ex.ExerciseID))
			return
		}
		exercises = append(exercises, domain.TemplateExercise{
			ExerciseID:      exerciseID,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			Weight:          ex.Weight,
			RestTimeSeconds: ex.RestTimeSeconds,
			Order:           ex.Order,
			Notes:           ex.Notes,
		})
	}

	template := &domain.WorkoutTemplate{
		CoachID:   coachID,
		Name:      req.Name,
		Notes:     req.Notes,
		Exercises: exercises,
	}

	created, err := h.templateService.CreateTemplate(c.Request.Context(), template)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

// ListTemplates returns the authenticated coach's templates, newest first.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}

	templates, err := h.templateService.ListTemplatesByCoach(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, templates)
}

// GetTemplate returns a single template. The service admits the owning
// coach or a client with a live assignment of it.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	templateID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), requesterID, templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, template)
}
