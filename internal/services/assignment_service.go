package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/cache"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// TxRunner executes fn transactionally when the backing store supports it,
// otherwise sequentially. database.Client.RunTransactional satisfies this.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SequentialTx is a TxRunner without transactional guarantees, for tests and CLIs
func SequentialTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// AssignmentPair is one desired staff-subject binding in a reconcile request
type AssignmentPair struct {
	StaffID   primitive.ObjectID `json:"staff_id" binding:"required"`
	SubjectID primitive.ObjectID `json:"subject_id" binding:"required"`
}

// ReconcileResult reports what a reconciliation run changed
type ReconcileResult struct {
	Created    int   `json:"created"`
	Deleted    int64 `json:"deleted"`
	FinalCount int   `json:"final_count"`
}

// AssignmentDetail is an assignment joined with its staff user and subject
type AssignmentDetail struct {
	Assignment models.FacultyAssignment `json:"assignment"`
	StaffName  string                   `json:"staff_name"`
	StaffEmail string                   `json:"staff_email"`
	Subject    *models.Subject          `json:"subject,omitempty"`
}

// AssignmentService converges stored faculty assignments to a desired set
// #INTEGRATION_POINT: Used by the HOD handler; reads feed the report aggregator
type AssignmentService interface {
	// Reconcile replaces the assignment set for (department, semester) with
	// the desired pairs. Full replace, last write wins. A non-empty
	// academicYear ("2025-26") anchors bare-integer semester labels to that
	// year instead of the wall clock
	Reconcile(ctx context.Context, departmentID primitive.ObjectID, semester, academicYear string, pairs []AssignmentPair) (*ReconcileResult, error)

	// ListForDepartment lists assignments for a department and semester,
	// scoped to subjects currently linked to the department
	ListForDepartment(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]AssignmentDetail, error)

	// ListForStaff lists all assignments held by one staff member
	ListForStaff(ctx context.Context, staffID primitive.ObjectID) ([]AssignmentDetail, error)
}

// assignmentService implements AssignmentService
type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	staffRepo      repository.StaffRepository
	userRepo       repository.UserRepository
	subjectRepo    repository.SubjectRepository
	linkRepo       repository.DepartmentSubjectRepository
	cache          cache.Service
	runTx          TxRunner
}

// NewAssignmentService creates a new assignment service instance
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	staffRepo repository.StaffRepository,
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	linkRepo repository.DepartmentSubjectRepository,
	cacheSvc cache.Service,
	runTx TxRunner,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		staffRepo:      staffRepo,
		userRepo:       userRepo,
		subjectRepo:    subjectRepo,
		linkRepo:       linkRepo,
		cache:          cacheSvc,
		runTx:          runTx,
	}
}

// Reconcile converges the stored assignment set for (department, semester).
// #IMPLEMENTATION_DECISION: Delete-then-insert full replace instead of
// diff-and-patch; retries are safe because the operation is idempotent.
// The delete is scoped to subjects linked to this department so assignments
// belonging to other departments sharing a subject are untouched.
func (s *assignmentService) Reconcile(ctx context.Context, departmentID primitive.ObjectID, semester, academicYear string, pairs []AssignmentPair) (*ReconcileResult, error) {
	canonical := normalize.SemesterInYear(semester, academicYear, time.Now().UTC())
	if canonical == "" {
		return nil, models.ErrInvalidSemester
	}

	links, err := s.linkRepo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department subjects: %w", err)
	}
	yearBySubject := make(map[primitive.ObjectID]primitive.ObjectID, len(links))
	linkedSubjectIDs := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		if _, seen := yearBySubject[link.SubjectID]; !seen {
			linkedSubjectIDs = append(linkedSubjectIDs, link.SubjectID)
		}
		yearBySubject[link.SubjectID] = link.AcademicYearID
	}

	staffIDs := make([]primitive.ObjectID, 0, len(pairs))
	seenStaff := make(map[primitive.ObjectID]bool, len(pairs))
	for _, pair := range pairs {
		if !seenStaff[pair.StaffID] {
			seenStaff[pair.StaffID] = true
			staffIDs = append(staffIDs, pair.StaffID)
		}
	}
	staff, err := s.staffRepo.GetByIDs(ctx, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	staffInDept := make(map[primitive.ObjectID]bool, len(staff))
	for _, st := range staff {
		if st.DepartmentID == departmentID {
			staffInDept[st.ID] = true
		}
	}

	// Dedupe desired pairs and drop ones that cannot be stored: subject not
	// linked to this department, no resolvable academic year, or staff not
	// in this department. Stale client state, not an error.
	type pairKey struct {
		staffID   primitive.ObjectID
		subjectID primitive.ObjectID
	}
	seen := make(map[pairKey]bool, len(pairs))
	desired := make([]models.FacultyAssignment, 0, len(pairs))
	for _, pair := range pairs {
		key := pairKey{pair.StaffID, pair.SubjectID}
		if seen[key] {
			continue
		}
		seen[key] = true

		yearID, linked := yearBySubject[pair.SubjectID]
		if !linked || yearID.IsZero() {
			continue
		}
		if !staffInDept[pair.StaffID] {
			continue
		}
		desired = append(desired, models.FacultyAssignment{
			StaffID:        pair.StaffID,
			SubjectID:      pair.SubjectID,
			DepartmentID:   departmentID,
			AcademicYearID: yearID,
			Semester:       canonical,
		})
	}

	result := &ReconcileResult{}
	err = s.runTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.assignmentRepo.DeleteByDepartmentSemester(txCtx, departmentID, canonical, linkedSubjectIDs)
		if err != nil {
			return fmt.Errorf("failed to delete existing assignments: %w", err)
		}
		created, err := s.assignmentRepo.InsertMany(txCtx, desired)
		if err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
		result.Deleted = deleted
		result.Created = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	remaining, err := s.assignmentRepo.ListByDepartmentSemester(ctx, departmentID, canonical, linkedSubjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	result.FinalCount = len(remaining)

	s.cache.InvalidatePrefix(cache.PrefixFacultyAssignments)
	s.cache.InvalidatePrefix(cache.PrefixStudentTasks)

	return result, nil
}

// ListForDepartment lists assignments for (department, semester) with joins
func (s *assignmentService) ListForDepartment(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]AssignmentDetail, error) {
	canonical := normalize.Semester(semester, time.Now().UTC())

	links, err := s.linkRepo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department subjects: %w", err)
	}
	linkedSubjectIDs := make([]primitive.ObjectID, 0, len(links))
	seen := make(map[primitive.ObjectID]bool, len(links))
	for _, link := range links {
		if !seen[link.SubjectID] {
			seen[link.SubjectID] = true
			linkedSubjectIDs = append(linkedSubjectIDs, link.SubjectID)
		}
	}

	assignments, err := s.assignmentRepo.ListByDepartmentSemester(ctx, departmentID, canonical, linkedSubjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	return s.enrich(ctx, assignments)
}

// ListForStaff lists assignments for a staff member, cached per staff id
func (s *assignmentService) ListForStaff(ctx context.Context, staffID primitive.ObjectID) ([]AssignmentDetail, error) {
	cacheKey := cache.PrefixFacultyAssignments + staffID.Hex()
	if cached, ok := s.cache.Get(cacheKey); ok {
		if details, ok := cached.([]AssignmentDetail); ok {
			return details, nil
		}
	}

	assignments, err := s.assignmentRepo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	details, err := s.enrich(ctx, assignments)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, details)
	return details, nil
}

// enrich joins assignments with staff users and subjects via batch fetches
func (s *assignmentService) enrich(ctx context.Context, assignments []models.FacultyAssignment) ([]AssignmentDetail, error) {
	if len(assignments) == 0 {
		return []AssignmentDetail{}, nil
	}

	staffIDs := make([]primitive.ObjectID, 0, len(assignments))
	subjectIDs := make([]primitive.ObjectID, 0, len(assignments))
	seenStaff := make(map[primitive.ObjectID]bool, len(assignments))
	seenSubjects := make(map[primitive.ObjectID]bool, len(assignments))
	for _, a := range assignments {
		if !seenStaff[a.StaffID] {
			seenStaff[a.StaffID] = true
			staffIDs = append(staffIDs, a.StaffID)
		}
		if !seenSubjects[a.SubjectID] {
			seenSubjects[a.SubjectID] = true
			subjectIDs = append(subjectIDs, a.SubjectID)
		}
	}

	staff, err := s.staffRepo.GetByIDs(ctx, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	userIDs := make([]primitive.ObjectID, 0, len(staff))
	staffByID := make(map[primitive.ObjectID]models.Staff, len(staff))
	for _, st := range staff {
		staffByID[st.ID] = st
		userIDs = append(userIDs, st.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff users: %w", err)
	}
	usersByID := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	subjects, err := s.subjectRepo.GetByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	subjectsByID := make(map[primitive.ObjectID]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectsByID[subject.ID] = subject
	}

	details := make([]AssignmentDetail, 0, len(assignments))
	for _, a := range assignments {
		detail := AssignmentDetail{Assignment: a}
		if st, ok := staffByID[a.StaffID]; ok {
			if user, ok := usersByID[st.UserID]; ok {
				detail.StaffName = user.Name
				detail.StaffEmail = user.Email
			}
		}
		if subject, ok := subjectsByID[a.SubjectID]; ok {
			sub := subject
			detail.Subject = &sub
		}
		details = append(details, detail)
	}
	return details, nil
}
