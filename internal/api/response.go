package api

import (
	"errors"
	"net/http"

	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// envelope is the uniform JSON body for every response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Success: false, Message: message})
}

// abortWithError writes an error envelope and stops the handler chain.
// Used by middleware.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, envelope{Success: false, Message: message})
}

// respondServiceError maps the service error taxonomy to HTTP statuses.
// Anything outside the taxonomy is logged and surfaced as a generic 500 so
// internals never leak to clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
