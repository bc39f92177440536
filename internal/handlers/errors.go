// Package handlers provides HTTP handlers for API endpoints.
// #IMPLEMENTATION_DECISION: Handlers are thin - delegate business logic to services
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps a service error onto the HTTP taxonomy: not found is 404,
// validation 400, auth 401/403, conflict 409, everything else a generic 500.
// #IMPLEMENTATION_DECISION: Database errors bubble up unmodified and surface
// as 500 without leaking internals
func respondError(c *gin.Context, err error) {
	switch {
	case err == models.ErrFeedbackNotActive || err == models.ErrStaffNotInDept:
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case models.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case models.IsAuthError(err):
		status := http.StatusUnauthorized
		code := "unauthorized"
		if err == models.ErrForbidden {
			status = http.StatusForbidden
			code = "forbidden"
		}
		c.JSON(status, ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// parseID canonicalizes a client-supplied id before it reaches a query,
// absorbing padding, casing and legacy representations
func parseID(raw string) (primitive.ObjectID, bool) {
	return normalize.ObjectID(raw)
}

// respondUnauthorized is the shared guard response for missing session context
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "Invalid session",
	})
}
