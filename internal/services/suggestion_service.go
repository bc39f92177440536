package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// HodSuggestionService manages the HOD's per-staff semester notes.
// One note per (staff, semester); writing again overwrites.
type HodSuggestionService interface {
	Save(ctx context.Context, departmentID, staffID primitive.ObjectID, semester, content string) (*models.HodSuggestion, error)
	Get(ctx context.Context, staffID primitive.ObjectID, semester string) (*models.HodSuggestion, error)
}

// hodSuggestionService implements HodSuggestionService
type hodSuggestionService struct {
	suggestionRepo repository.SuggestionRepository
	staffRepo      repository.StaffRepository
}

// NewHodSuggestionService creates a new HOD suggestion service instance
func NewHodSuggestionService(
	suggestionRepo repository.SuggestionRepository,
	staffRepo repository.StaffRepository,
) HodSuggestionService {
	return &hodSuggestionService{
		suggestionRepo: suggestionRepo,
		staffRepo:      staffRepo,
	}
}

// Save upserts the suggestion for (staff, semester) after checking the staff
// member belongs to the caller's department
func (s *hodSuggestionService) Save(ctx context.Context, departmentID, staffID primitive.ObjectID, semester, content string) (*models.HodSuggestion, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.ErrInvalidInput
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.DepartmentID != departmentID {
		return nil, models.ErrStaffNotInDept
	}

	canonical := normalize.Semester(semester, time.Now().UTC())
	if canonical == "" {
		return nil, models.ErrInvalidSemester
	}

	suggestion := &models.HodSuggestion{
		StaffID:  staffID,
		Semester: canonical,
		Content:  content,
	}
	if err := s.suggestionRepo.Upsert(ctx, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// Get returns the suggestion for (staff, semester)
func (s *hodSuggestionService) Get(ctx context.Context, staffID primitive.ObjectID, semester string) (*models.HodSuggestion, error) {
	canonical := normalize.Semester(semester, time.Now().UTC())
	return s.suggestionRepo.GetByStaffSemester(ctx, staffID, canonical)
}
