package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitlink/coaching-api/internal/domain"
	"fitlink/coaching-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"required,oneof=coach client"`

	// Coach profile
	Credentials    string   `json:"credentials,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Specialization []string `json:"specialization,omitempty"`

	// Client profile
	Age          *int     `json:"age,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	FitnessLevel string   `json:"fitnessLevel,omitempty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Goals        []string `json:"goals,omitempty"`
}

// UserResponse excludes sensitive info like the password hash.
type UserResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture string      `json:"profilePicture,omitempty"`
	Credentials    string      `json:"credentials,omitempty"`
	Bio            string      `json:"bio,omitempty"`
	Specialization []string    `json:"specialization,omitempty"`
	Age            *int        `json:"age,omitempty"`
	Gender         string      `json:"gender,omitempty"`
	FitnessLevel   string      `json:"fitnessLevel,omitempty"`
	Goals          []string    `json:"goals,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"deviceToken" binding:"required"`
	Platform    string `json:"platform" binding:"omitempty,oneof=ios android web"`
}

// --- Handler Methods ---

// Register creates a new coach or client account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user := &domain.User{
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		Credentials:    req.Credentials,
		Bio:            req.Bio,
		Specialization: req.Specialization,
		Age:            req.Age,
		Gender:         req.Gender,
		FitnessLevel:   req.FitnessLevel,
		Goals:          req.Goals,
	}

	created, err := h.authService.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	respondCreated(c, MapUserToResponse(created))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	respondOK(c, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// RegisterDevice upserts a push token for the authenticated user.
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid authentication context")
		return
	}

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session := &domain.DeviceSession{
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		Platform:    req.Platform,
	}
	if err := h.authService.RegisterDevice(c.Request.Context(), session); err != nil {
		respondServiceError(c, err)
		return
	}

	respondMessage(c, "device registered")
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		Credentials:    user.Credentials,
		Bio:            user.Bio,
		Specialization: user.Specialization,
		Age:            user.Age,
		Gender:         user.Gender,
		FitnessLevel:   user.FitnessLevel,
		Goals:          user.Goals,
		CreatedAt:      user.CreatedAt,
	}
}
