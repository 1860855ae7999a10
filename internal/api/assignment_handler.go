package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentHandler holds the assignment lifecycle service dependency.
type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// --- Request Structs ---

type AssignWorkoutRequest struct {
	TemplateID string    `json:"templateId" binding:"required"`
	ClientID   string    `json:"clientId" binding:"required"`
	DueAt      time.Time `json:"dueAt" binding:"required"`
}

type CompletedSetRequest struct {
	RepsCompleted int     `json:"repsCompleted" binding:"required,gt=0"`
	WeightUsed    float64 `json:"weightUsed" binding:"gte=0"`
	Notes         string  `json:"notes,omitempty"`
}

type ExerciseCompletionRequest struct {
	CompletedSets []CompletedSetRequest `json:"completedSets" binding:"required,min=1,dive"`
	Notes         string                `json:"notes,omitempty"`
}

type NotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type PerformanceRequest struct {
	OverallRating   int    `json:"overallRating" binding:"required,min=1,max=5"`
	DifficultyLevel int    `json:"difficultyLevel" binding:"required,min=1,max=5"`
	EnergyLevel     int    `json:"energyLevel" binding:"required,min=1,max=5"`
	PainLevel       int    `json:"painLevel" binding:"min=0,max=5"`
	Notes           string `json:"notes,omitempty"`
}

type CompleteWorkoutRequest struct {
	Performance PerformanceRequest `json:"performance" binding:"required"`
	ClientNotes string             `json:"clientNotes,omitempty"`
}

// --- Handler Methods ---

// AssignWorkout creates a new assignment from one of the coach's templates.
func (h *AssignmentHandler) AssignWorkout(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}

	var req AssignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid templateId format")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid clientId format")
		return
	}

	assignment, err := h.assignmentService.AssignWorkout(c.Request.Context(), coachID, templateID, clientID, req.DueAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, assignment)
}

// ListAssignments is role-scoped: clients get their own assignments newest
// first; coaches get a filtered, paginated page across their clients.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}

	switch role {
	case domain.RoleClient:
		details, err := h.assignmentService.GetClientAssignments(c.Request.Context(), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, details)

	case domain.RoleCoach:
		opts, ok := parseCoachListOptions(c)
		if !ok {
			return
		}
		page, err := h.assignmentService.GetCoachAssignments(c.Request.Context(), userID, opts)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, page)

	default:
		respondError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", role))
	}
}

// GetAssignment returns the joined view of one assignment. Only the owning
// client or coach may read it.
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.assignmentService.GetAssignmentByID(c.Request.Context(), userID, assignmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, detail)
}

// UpdateExerciseCompletion records completed sets for one exercise of the
// snapshot and marks it done. Status is re-derived server-side.
func (h *AssignmentHandler) UpdateExerciseCompletion(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req ExerciseCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	sets := make([]domain.CompletedSet, 0, len(req.CompletedSets))
	for _, s := range req.CompletedSets {
		sets = append(sets, domain.CompletedSet{
			RepsCompleted: s.RepsCompleted,
			WeightUsed:    s.WeightUsed,
			Notes:         s.Notes,
		})
	}

	assignment, err := h.assignmentService.UpdateExerciseCompletion(c.Request.Context(), clientID, assignmentID, exerciseID, sets, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, assignment)
}

// CompleteWorkout finalizes an assignment with a performance summary. All
// exercises must already be marked complete.
func (h *AssignmentHandler) CompleteWorkout(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	perf := domain.Performance{
		OverallRating:   req.Performance.OverallRating,
		DifficultyLevel: req.Performance.DifficultyLevel,
		EnergyLevel:     req.Performance.EnergyLevel,
		PainLevel:       req.Performance.PainLevel,
		Notes:           req.Performance.Notes,
	}

	assignment, err := h.assignmentService.CompleteWorkout(c.Request.Context(), clientID, assignmentID, perf, req.ClientNotes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, assignment)
}

// AddClientNotes sets the client's free-form notes on an assignment.
func (h *AssignmentHandler) AddClientNotes(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	assignment, err := h.assignmentService.AddClientNotes(c.Request.Context(), clientID, assignmentID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, assignment)
}

// AddCoachNote sets the coach's private note on an assignment.
func (h *AssignmentHandler) AddCoachNote(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	assignment, err := h.assignmentService.AddCoachNote(c.Request.Context(), coachID, assignmentID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, assignment)
}

// AddCoachFeedback sets client-visible feedback and notifies the client.
func (h *AssignmentHandler) AddCoachFeedback(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	assignment, err := h.assignmentService.AddCoachFeedback(c.Request.Context(), coachID, assignmentID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, assignment)
}

// DeleteAssignment soft-deletes an assignment owned by the coach.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), coachID, assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "assignment deleted")
}

// parseCoachListOptions reads the coach listing's query parameters. Invalid
// values respond 400 and return ok=false.
func parseCoachListOptions(c *gin.Context) (service.CoachListOptions, bool) {
	var opts service.CoachListOptions

	if status := c.Query("status"); status != "" {
		opts.Status = domain.AssignmentStatus(status)
	}
	if clientIDStr := c.Query("clientId"); clientIDStr != "" {
		clientID, err := primitive.ObjectIDFromHex(clientIDStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid clientId format")
			return opts, false
		}
		opts.ClientID = clientID
	}
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid page value")
			return opts, false
		}
		opts.Page = page
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid limit value")
			return opts, false
		}
		opts.Limit = limit
	}

	return opts, true
}
