// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir int // 1 for ascending, -1 for descending
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:    1,
		Limit:   20,
		SortBy:  "created_at",
		SortDir: -1,
	}
}

// PaginatedResult contains paginated query results
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// UserRepository defines operations for portal users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	ListByDepartment(ctx context.Context, departmentID primitive.ObjectID, role models.UserRole) ([]models.User, error)
}

// DepartmentRepository defines operations for departments
type DepartmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, dept *models.Department) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	SetFeedbackActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// AcademicYearRepository defines operations for academic years
type AcademicYearRepository interface {
	Create(ctx context.Context, year *models.AcademicYear) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AcademicYear, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AcademicYear, error)
	GetByName(ctx context.Context, name string) (*models.AcademicYear, error)
	List(ctx context.Context) ([]models.AcademicYear, error)
}

// SubjectRepository defines operations for master subject records
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subject, error)
	// GetByIDs returns the non-deleted subjects among ids; missing ids are
	// silently absent from the result
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Subject, error)
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// DepartmentSubjectRepository defines operations for the junction collection
// #QUERY_INTERFACE: The junction is the sole authority for department-subject membership
type DepartmentSubjectRepository interface {
	Create(ctx context.Context, link *models.DepartmentSubject) error
	GetByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.DepartmentSubject, error)
	GetByDepartmentAndSubject(ctx context.Context, departmentID, subjectID primitive.ObjectID) (*models.DepartmentSubject, error)
	ListBySubject(ctx context.Context, subjectID primitive.ObjectID) ([]models.DepartmentSubject, error)
	Update(ctx context.Context, link *models.DepartmentSubject) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByDepartmentAndSubject(ctx context.Context, departmentID, subjectID primitive.ObjectID) error
}

// StaffRepository defines operations for staff records
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Staff, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Staff, error)
	ListByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.Staff, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// AssignmentRepository defines operations for faculty assignments
type AssignmentRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FacultyAssignment, error)
	// ListByDepartmentSemester returns assignments for (department, semester),
	// optionally scoped to the given subject ids (nil means no scoping)
	ListByDepartmentSemester(ctx context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) ([]models.FacultyAssignment, error)
	ListByStaffSemester(ctx context.Context, staffID primitive.ObjectID, semester string) ([]models.FacultyAssignment, error)
	ListByStaff(ctx context.Context, staffID primitive.ObjectID) ([]models.FacultyAssignment, error)
	ListByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.FacultyAssignment, error)
	InsertMany(ctx context.Context, assignments []models.FacultyAssignment) (int, error)
	// DeleteByDepartmentSemester deletes assignments for (department, semester)
	// scoped to the given subject ids and returns the deleted count
	DeleteByDepartmentSemester(ctx context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) (int64, error)
}

// FeedbackRepository defines operations for feedback submissions
type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID, releasedOnly bool) ([]models.Feedback, error)
	ExistsForStudentAssignment(ctx context.Context, studentID, assignmentID primitive.ObjectID) (bool, error)
	ListStudentAssignmentIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error)
	// ReleaseByAssignments flips is_released on all feedback for the given
	// assignments and returns the number of updated documents
	ReleaseByAssignments(ctx context.Context, assignmentIDs []primitive.ObjectID) (int64, error)
}

// SuggestionRepository defines operations for HOD suggestions
type SuggestionRepository interface {
	Upsert(ctx context.Context, suggestion *models.HodSuggestion) error
	GetByStaffSemester(ctx context.Context, staffID primitive.ObjectID, semester string) (*models.HodSuggestion, error)
}
