package api

import (
	"net/http"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	templateService service.TemplateService,
	assignmentService service.AssignmentService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	templateHandler := NewTemplateHandler(templateService)
	assignmentHandler := NewAssignmentHandler(assignmentService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				respondError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			respondOK(c, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Device sessions (push tokens) ---
		protected.POST("/sessions/device", authHandler.RegisterDevice)

		// --- Exercise catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.GET("/search/:query", exerciseHandler.SearchExercises)

			coachOnly := RoleMiddleware(domain.RoleCoach, domain.RoleAdmin)
			exerciseGroup.POST("", coachOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", coachOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", coachOnly, exerciseHandler.DeactivateExercise)
			exerciseGroup.POST("/:id/media-upload-url", coachOnly, exerciseHandler.RequestMediaUploadURL)
		}

		// --- Workout templates (coach-owned) ---
		templateGroup := protected.Group("/templates")
		{
			coachOnly := RoleMiddleware(domain.RoleCoach)
			templateGroup.POST("", coachOnly, templateHandler.CreateTemplate)
			templateGroup.GET("", coachOnly, templateHandler.ListTemplates)
			// Readable by the owning coach or an assigned client; the
			// service enforces that, so no role gate here.
			templateGroup.GET("/:id", templateHandler.GetTemplate)
		}

		// --- Workout assignments ---
		assignmentGroup := protected.Group("/assignments")
		{
			coachOnly := RoleMiddleware(domain.RoleCoach)
			clientOnly := RoleMiddleware(domain.RoleClient)

			assignmentGroup.POST("", coachOnly, assignmentHandler.AssignWorkout)
			assignmentGroup.GET("", assignmentHandler.ListAssignments)
			assignmentGroup.GET("/:id", assignmentHandler.GetAssignment)

			assignmentGroup.PATCH("/:id/exercises/:exerciseId", clientOnly, assignmentHandler.UpdateExerciseCompletion)
			assignmentGroup.PATCH("/:id/complete", clientOnly, assignmentHandler.CompleteWorkout)
			assignmentGroup.PATCH("/:id/notes", clientOnly, assignmentHandler.AddClientNotes)

			assignmentGroup.PATCH("/:id/coach-note", coachOnly, assignmentHandler.AddCoachNote)
			assignmentGroup.PATCH("/:id/feedback", coachOnly, assignmentHandler.AddCoachFeedback)
			assignmentGroup.DELETE("/:id", coachOnly, assignmentHandler.DeleteAssignment)
		}
	}
}
