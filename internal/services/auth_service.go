package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-tools/feedback_backend/internal/auth"
	"github.com/campus-tools/feedback_backend/internal/logger"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// AuthService handles authentication logic
// #INTEGRATION_POINT: Used by auth handler for login/refresh flows
type AuthService interface {
	// Login verifies credentials and returns a token pair plus the user
	Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error)

	// RefreshAccessToken refreshes an access token using a refresh token
	RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error)

	// GetUserContext retrieves the user and, for staff roles, the staff record
	GetUserContext(ctx context.Context, userID primitive.ObjectID) (*models.User, *models.Staff, error)
}

// authService implements AuthService
type authService struct {
	userRepo   repository.UserRepository
	staffRepo  repository.StaffRepository
	jwtService auth.JWTService
}

// NewAuthService creates a new auth service instance
// #IMPLEMENTATION_DECISION: Constructor injection for testability
func NewAuthService(
	userRepo repository.UserRepository,
	staffRepo repository.StaffRepository,
	jwtService auth.JWTService,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		staffRepo:  staffRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues a token pair
// #SECURITY_CONCERN: Same error for unknown email and wrong password to
// prevent account enumeration
func (s *authService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, nil, models.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive || user.IsDeleted() {
		return nil, nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, models.ErrInvalidCredentials
	}

	tokenPair, err := s.tokenPairFor(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if updateErr := s.userRepo.UpdateLastLogin(ctx, user.ID); updateErr != nil {
		// login still succeeds; the timestamp is best effort
		logger.Get().Warn().Err(updateErr).Str("user_id", user.ID.Hex()).Msg("Failed to record last login")
	}

	return tokenPair, user, nil
}

// RefreshAccessToken issues a fresh token pair from a valid refresh token
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	userID, ok := normalize.ObjectID(claims.UserID)
	if !ok {
		return nil, models.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if !user.IsActive || user.IsDeleted() {
		return nil, models.ErrUnauthorized
	}

	return s.tokenPairFor(ctx, user)
}

// GetUserContext loads the user and the backing staff record when present
func (s *authService) GetUserContext(ctx context.Context, userID primitive.ObjectID) (*models.User, *models.Staff, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var staff *models.Staff
	if user.Role.IsStaffRole() {
		staff, err = s.staffRepo.GetByUserID(ctx, userID)
		if err != nil && !models.IsNotFoundError(err) {
			return nil, nil, err
		}
	}
	return user, staff, nil
}

// tokenPairFor resolves the claim fields for a user and signs a token pair
func (s *authService) tokenPairFor(ctx context.Context, user *models.User) (*auth.TokenPair, error) {
	departmentID := ""
	if user.DepartmentID != nil {
		departmentID = user.DepartmentID.Hex()
	}

	staffID := ""
	if user.Role.IsStaffRole() {
		staff, err := s.staffRepo.GetByUserID(ctx, user.ID)
		if err == nil {
			staffID = staff.ID.Hex()
			if departmentID == "" {
				departmentID = staff.DepartmentID.Hex()
			}
		} else if !models.IsNotFoundError(err) {
			return nil, err
		}
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID.Hex(), departmentID, staffID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokenPair, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
