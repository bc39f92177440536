package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// AssignmentReport is the aggregated feedback for one assignment
type AssignmentReport struct {
	AssignmentID      primitive.ObjectID `json:"assignment_id"`
	SubjectID         primitive.ObjectID `json:"subject_id"`
	SubjectName       string             `json:"subject_name"`
	SubjectCode       string             `json:"subject_code"`
	Semester          string             `json:"semester"`
	Averages          map[string]float64 `json:"averages"`
	OverallPercentage float64            `json:"overall_percentage"`
	TotalResponses    int                `json:"total_responses"`
}

// DepartmentReportGroup holds one staff member's reports within one department
type DepartmentReportGroup struct {
	DepartmentID   primitive.ObjectID `json:"department_id"`
	DepartmentName string             `json:"department_name,omitempty"`
	Entries        []AssignmentReport `json:"entries"`
}

// StaffReportGroup holds all of one staff member's reports, split per department
type StaffReportGroup struct {
	StaffID    primitive.ObjectID      `json:"staff_id"`
	StaffName  string                  `json:"staff_name"`
	StaffEmail string                  `json:"staff_email"`
	Groups     []DepartmentReportGroup `json:"groups"`
}

// ReportService aggregates feedback into per-assignment averages and
// overall percentages for HOD and faculty reports.
// #IMPLEMENTATION_DECISION: Straight arithmetic means only; no weighting,
// outlier handling or confidence intervals
type ReportService interface {
	// AggregateAssignment computes per-parameter means and the overall
	// percentage for one assignment. HOD viewers see all feedback, others
	// only released rows
	AggregateAssignment(ctx context.Context, assignmentID primitive.ObjectID, viewerRole models.UserRole) (*AssignmentReport, error)

	// FacultyReport aggregates all of a staff member's assignments, grouped
	// by department. Assignments with zero qualifying responses are excluded
	FacultyReport(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole) ([]DepartmentReportGroup, error)

	// DepartmentReports aggregates a department's assignments for a semester,
	// grouped by staff member then department
	DepartmentReports(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]StaffReportGroup, error)
}

// reportService implements ReportService
type reportService struct {
	feedbackRepo   repository.FeedbackRepository
	assignmentRepo repository.AssignmentRepository
	staffRepo      repository.StaffRepository
	userRepo       repository.UserRepository
	subjectRepo    repository.SubjectRepository
	departmentRepo repository.DepartmentRepository
}

// NewReportService creates a new report service instance
func NewReportService(
	feedbackRepo repository.FeedbackRepository,
	assignmentRepo repository.AssignmentRepository,
	staffRepo repository.StaffRepository,
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	departmentRepo repository.DepartmentRepository,
) ReportService {
	return &reportService{
		feedbackRepo:   feedbackRepo,
		assignmentRepo: assignmentRepo,
		staffRepo:      staffRepo,
		userRepo:       userRepo,
		subjectRepo:    subjectRepo,
		departmentRepo: departmentRepo,
	}
}

// round2 rounds to two decimal places, matching the report rendering precision
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// aggregate computes the means over a set of feedback rows
func aggregate(feedbacks []models.Feedback) (map[string]float64, float64) {
	averages := make(map[string]float64, len(models.RatingParameters))
	for _, param := range models.RatingParameters {
		averages[param] = 0
	}
	if len(feedbacks) == 0 {
		return averages, 0
	}

	sums := make([]int, len(models.RatingParameters))
	for _, fb := range feedbacks {
		for i, v := range fb.Ratings() {
			sums[i] += v
		}
	}

	var meanTotal float64
	for i, param := range models.RatingParameters {
		mean := round2(float64(sums[i]) / float64(len(feedbacks)))
		averages[param] = mean
		meanTotal += mean
	}

	maxTotal := float64(len(models.RatingParameters) * models.RatingMax)
	overall := round2(meanTotal / maxTotal * 100)
	return averages, overall
}

// AggregateAssignment aggregates feedback for one assignment
func (s *reportService) AggregateAssignment(ctx context.Context, assignmentID primitive.ObjectID, viewerRole models.UserRole) (*AssignmentReport, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return s.aggregateOne(ctx, assignment, viewerRole)
}

func (s *reportService) aggregateOne(ctx context.Context, assignment *models.FacultyAssignment, viewerRole models.UserRole) (*AssignmentReport, error) {
	releasedOnly := viewerRole != models.UserRoleHOD
	feedbacks, err := s.feedbackRepo.ListByAssignment(ctx, assignment.ID, releasedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	averages, overall := aggregate(feedbacks)
	report := &AssignmentReport{
		AssignmentID:      assignment.ID,
		SubjectID:         assignment.SubjectID,
		Semester:          assignment.Semester,
		Averages:          averages,
		OverallPercentage: overall,
		TotalResponses:    len(feedbacks),
	}

	subject, err := s.subjectRepo.GetByID(ctx, assignment.SubjectID)
	if err == nil {
		report.SubjectName = subject.Name
		report.SubjectCode = subject.SubjectCode
	} else if !models.IsNotFoundError(err) {
		return nil, err
	}
	return report, nil
}

// FacultyReport aggregates a staff member's assignments grouped by department
func (s *reportService) FacultyReport(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole) ([]DepartmentReportGroup, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	grouped, err := s.groupByDepartment(ctx, assignments, viewerRole)
	if err != nil {
		return nil, err
	}
	return grouped, nil
}

// FilterReportGroups narrows report groups to one semester. An empty
// semester returns the groups unchanged. Groups left without entries are
// dropped.
func FilterReportGroups(groups []DepartmentReportGroup, semester string) []DepartmentReportGroup {
	canonical := normalize.Semester(semester, time.Now().UTC())
	if canonical == "" {
		return groups
	}

	filtered := make([]DepartmentReportGroup, 0, len(groups))
	for _, group := range groups {
		entries := make([]AssignmentReport, 0, len(group.Entries))
		for _, entry := range group.Entries {
			if entry.Semester == canonical {
				entries = append(entries, entry)
			}
		}
		if len(entries) == 0 {
			continue
		}
		group.Entries = entries
		filtered = append(filtered, group)
	}
	return filtered
}

// groupByDepartment aggregates assignments and buckets them per department,
// dropping entries with zero qualifying responses
func (s *reportService) groupByDepartment(ctx context.Context, assignments []models.FacultyAssignment, viewerRole models.UserRole) ([]DepartmentReportGroup, error) {
	byDept := make(map[primitive.ObjectID][]AssignmentReport)
	deptOrder := make([]primitive.ObjectID, 0)
	for i := range assignments {
		report, err := s.aggregateOne(ctx, &assignments[i], viewerRole)
		if err != nil {
			return nil, err
		}
		if report.TotalResponses == 0 {
			continue
		}
		if _, seen := byDept[assignments[i].DepartmentID]; !seen {
			deptOrder = append(deptOrder, assignments[i].DepartmentID)
		}
		byDept[assignments[i].DepartmentID] = append(byDept[assignments[i].DepartmentID], *report)
	}

	groups := make([]DepartmentReportGroup, 0, len(byDept))
	for _, deptID := range deptOrder {
		group := DepartmentReportGroup{
			DepartmentID: deptID,
			Entries:      byDept[deptID],
		}
		if dept, err := s.departmentRepo.GetByID(ctx, deptID); err == nil {
			group.DepartmentName = dept.Name
		} else if !models.IsNotFoundError(err) {
			return nil, err
		}
		sort.SliceStable(group.Entries, func(i, j int) bool {
			return strings.ToLower(group.Entries[i].SubjectName) < strings.ToLower(group.Entries[j].SubjectName)
		})
		groups = append(groups, group)
	}
	return groups, nil
}

// DepartmentReports aggregates the department's assignments for a semester,
// grouped by staff then department. The HOD sees unreleased feedback too.
func (s *reportService) DepartmentReports(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]StaffReportGroup, error) {
	canonical := normalize.Semester(semester, time.Now().UTC())

	assignments, err := s.assignmentRepo.ListByDepartmentSemester(ctx, departmentID, canonical, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		return []StaffReportGroup{}, nil
	}

	byStaff := make(map[primitive.ObjectID][]models.FacultyAssignment)
	staffOrder := make([]primitive.ObjectID, 0)
	for _, a := range assignments {
		if _, seen := byStaff[a.StaffID]; !seen {
			staffOrder = append(staffOrder, a.StaffID)
		}
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}

	staff, err := s.staffRepo.GetByIDs(ctx, staffOrder)
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

	result := make([]StaffReportGroup, 0, len(staffOrder))
	for _, staffID := range staffOrder {
		groups, err := s.groupByDepartment(ctx, byStaff[staffID], models.UserRoleHOD)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			continue
		}
		entry := StaffReportGroup{
			StaffID: staffID,
			Groups:  groups,
		}
		if st, ok := staffByID[staffID]; ok {
			if user, ok := usersByID[st.UserID]; ok {
				entry.StaffName = user.Name
				entry.StaffEmail = user.Email
			}
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].StaffName) < strings.ToLower(result[j].StaffName)
	})
	return result, nil
}
