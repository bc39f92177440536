package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// AuthHandler handles authentication endpoints
// #INTEGRATION_POINT: Frontend auth flow uses these endpoints
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    int64        `json:"expires_at"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
	StaffID      string `json:"staff_id,omitempty"`
}

// ToUserResponse converts a User model to UserResponse
func ToUserResponse(user *models.User, staff *models.Staff) UserResponse {
	resp := UserResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
	if user.DepartmentID != nil {
		resp.DepartmentID = user.DepartmentID.Hex()
	}
	if staff != nil {
		resp.StaffID = staff.ID.Hex()
		if resp.DepartmentID == "" {
			resp.DepartmentID = staff.DepartmentID.Hex()
		}
	}
	return resp
}

// Login handles POST /api/v1/auth/login
// @Summary Log in with email and password
// @Description Verifies credentials and returns access/refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "email and password are required",
		})
		return
	}

	tokenPair, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	_, staff, err := h.authService.GetUserContext(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Unix(),
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         ToUserResponse(user, staff),
	})
}

// RefreshTokenRequest represents the refresh request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse represents the refresh response
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Refresh the access token
// @Description Exchanges a valid refresh token for a fresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh request"
// @Success 200 {object} RefreshTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "refresh_token is required",
		})
		return
	}

	tokenPair, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshTokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Unix(),
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

// GetMe handles GET /api/v1/auth/me
// @Summary Get the current user
// @Description Returns the authenticated user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	user, staff, err := h.authService.GetUserContext(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToUserResponse(user, staff))
}

// RegisterRoutes registers auth handler routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)

		auth.GET("/me", authMiddleware, h.GetMe)
	}
}
