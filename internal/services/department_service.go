package services

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// StaffMember joins a staff record with its user account
type StaffMember struct {
	StaffID      primitive.ObjectID `json:"staff_id"`
	UserID       primitive.ObjectID `json:"user_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	DepartmentID primitive.ObjectID `json:"department_id"`
}

// DepartmentService manages departments, academic years and the staff directory
type DepartmentService interface {
	CreateDepartment(ctx context.Context, name, abbreviation string) (*models.Department, error)
	GetDepartment(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, id primitive.ObjectID, name, abbreviation string) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id primitive.ObjectID) error
	SetFeedbackWindow(ctx context.Context, departmentID primitive.ObjectID, active bool) error

	CreateAcademicYear(ctx context.Context, name, abbreviation string) (*models.AcademicYear, error)
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)

	ListStaff(ctx context.Context, departmentID primitive.ObjectID) ([]StaffMember, error)
}

type departmentService struct {
	deptRepo  repository.DepartmentRepository
	yearRepo  repository.AcademicYearRepository
	staffRepo repository.StaffRepository
	userRepo  repository.UserRepository
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	deptRepo repository.DepartmentRepository,
	yearRepo repository.AcademicYearRepository,
	staffRepo repository.StaffRepository,
	userRepo repository.UserRepository,
) DepartmentService {
	return &departmentService{
		deptRepo:  deptRepo,
		yearRepo:  yearRepo,
		staffRepo: staffRepo,
		userRepo:  userRepo,
	}
}

func (s *departmentService) CreateDepartment(ctx context.Context, name, abbreviation string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidInput
	}

	dept := &models.Department{
		Name:         name,
		Abbreviation: strings.TrimSpace(abbreviation),
	}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) GetDepartment(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

func (s *departmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *departmentService) UpdateDepartment(ctx context.Context, id primitive.ObjectID, name, abbreviation string) (*models.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		dept.Name = name
	}
	if abbreviation = strings.TrimSpace(abbreviation); abbreviation != "" {
		dept.Abbreviation = abbreviation
	}
	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.deptRepo.SoftDelete(ctx, id)
}

func (s *departmentService) SetFeedbackWindow(ctx context.Context, departmentID primitive.ObjectID, active bool) error {
	// Look up first so a missing department surfaces as not found rather
	// than a silent zero-match update
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return err
	}
	return s.deptRepo.SetFeedbackActive(ctx, departmentID, active)
}

func (s *departmentService) CreateAcademicYear(ctx context.Context, name, abbreviation string) (*models.AcademicYear, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidInput
	}

	year := &models.AcademicYear{
		Name:         name,
		Abbreviation: strings.TrimSpace(abbreviation),
	}
	if err := s.yearRepo.Create(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *departmentService) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	return s.yearRepo.List(ctx)
}

func (s *departmentService) ListStaff(ctx context.Context, departmentID primitive.ObjectID) ([]StaffMember, error) {
	staffList, err := s.staffRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if len(staffList) == 0 {
		return []StaffMember{}, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(staffList))
	for _, st := range staffList {
		userIDs = append(userIDs, st.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	members := make([]StaffMember, 0, len(staffList))
	for _, st := range staffList {
		u, ok := userByID[st.UserID]
		if !ok {
			// Staff row pointing at a deleted user account is skipped
			continue
		}
		members = append(members, StaffMember{
			StaffID:      st.ID,
			UserID:       u.ID,
			Name:         u.Name,
			Email:        u.Email,
			DepartmentID: st.DepartmentID,
		})
	}

	sort.Slice(members, func(i, j int) bool {
		return strings.ToLower(members[i].Name) < strings.ToLower(members[j].Name)
	})
	return members, nil
}

var _ DepartmentService = (*departmentService)(nil)
