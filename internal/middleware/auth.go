// Package middleware provides HTTP middleware for Gin framework.
// #IMPLEMENTATION_DECISION: Middleware chain for authentication, authorization, and logging
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/auth"
	"github.com/campus-tools/feedback_backend/internal/models"
)

// Context keys for storing authenticated user data
// #INTEGRATION_POINT: Handlers extract user data using these keys
const (
	ContextKeyUserID       = "user_id"
	ContextKeyDepartmentID = "department_id"
	ContextKeyStaffID      = "staff_id"
	ContextKeyRole         = "role"
	ContextKeyClaims       = "claims"
)

// Custom errors
var (
	ErrAuthHeaderMissing = errors.New("authorization header is required")
	ErrAuthHeaderFormat  = errors.New("authorization header format must be Bearer {token}")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrForbidden         = errors.New("access denied")
)

// AuthMiddleware validates JWT tokens and extracts user claims
// #IMPLEMENTATION_DECISION: Bearer token authentication
func AuthMiddleware(jwtService auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": ErrAuthHeaderMissing.Error(),
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": ErrAuthHeaderFormat.Error(),
			})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			message := ErrInvalidToken.Error()
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "token has expired"
			}

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": message,
			})
			c.Abort()
			return
		}

		// Store claims in context for downstream handlers
		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyDepartmentID, claims.DepartmentID)
		c.Set(ContextKeyStaffID, claims.StaffID)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireRole middleware checks if the user has one of the required roles
// #IMPLEMENTATION_DECISION: Role-based access control
func RequireRole(allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextKeyRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": ErrForbidden.Error(),
			})
			c.Abort()
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": ErrForbidden.Error(),
			})
			c.Abort()
			return
		}
		userRole := models.UserRole(strings.ToUpper(roleStr))
		for _, allowed := range allowedRoles {
			if userRole == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "insufficient role permissions",
		})
		c.Abort()
	}
}

// RequireHOD is a shorthand for requiring the HOD role
func RequireHOD() gin.HandlerFunc {
	return RequireRole(models.UserRoleHOD)
}

// RequireStaff is a shorthand for requiring a faculty or HOD role
func RequireStaff() gin.HandlerFunc {
	return RequireRole(models.UserRoleFaculty, models.UserRoleHOD)
}

// RequireStudent is a shorthand for requiring the student role
func RequireStudent() gin.HandlerFunc {
	return RequireRole(models.UserRoleStudent)
}

// RequireAdmin is a shorthand for requiring the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.UserRoleAdmin)
}

// Helper functions for extracting values from context

func objectIDFromContext(c *gin.Context, key string) (primitive.ObjectID, bool) {
	val, exists := c.Get(key)
	if !exists {
		return primitive.NilObjectID, false
	}

	str, ok := val.(string)
	if !ok {
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(str)
	if err != nil {
		return primitive.NilObjectID, false
	}

	return id, true
}

// GetUserID extracts the user ID from context
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDFromContext(c, ContextKeyUserID)
}

// GetDepartmentID extracts the department ID from context
func GetDepartmentID(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDFromContext(c, ContextKeyDepartmentID)
}

// GetStaffID extracts the staff ID from context
func GetStaffID(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDFromContext(c, ContextKeyStaffID)
}

// GetRole extracts the user role from context
func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(ContextKeyRole)
	if !exists {
		return "", false
	}

	roleStr, ok := roleVal.(string)
	if !ok {
		return "", false
	}

	return models.UserRole(strings.ToUpper(roleStr)), true
}

// GetClaims extracts the full JWT claims from context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	claimsVal, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}

	claims, ok := claimsVal.(*auth.Claims)
	if !ok {
		return nil, false
	}

	return claims, true
}
