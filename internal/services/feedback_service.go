package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/cache"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// StudentTask is one pending or completed feedback task for a student
type StudentTask struct {
	AssignmentID primitive.ObjectID `json:"assignment_id"`
	SubjectID    primitive.ObjectID `json:"subject_id"`
	SubjectName  string             `json:"subject_name"`
	SubjectCode  string             `json:"subject_code"`
	Semester     string             `json:"semester"`
	StaffName    string             `json:"staff_name"`
	Submitted    bool               `json:"submitted"`
}

// SubmitFeedbackInput is the payload for a feedback submission
type SubmitFeedbackInput struct {
	AssignmentID primitive.ObjectID `json:"assignment_id" binding:"required"`

	CoverageOfSyllabus     int `json:"coverage_of_syllabus" binding:"required"`
	PreparationForClass    int `json:"preparation_for_class" binding:"required"`
	ClarityOfExplanation   int `json:"clarity_of_explanation" binding:"required"`
	CommunicationSkills    int `json:"communication_skills" binding:"required"`
	SubjectKnowledge       int `json:"subject_knowledge" binding:"required"`
	UseOfTeachingAids      int `json:"use_of_teaching_aids" binding:"required"`
	PaceOfTeaching         int `json:"pace_of_teaching" binding:"required"`
	EncouragesQuestions    int `json:"encourages_questions" binding:"required"`
	DoubtClarification     int `json:"doubt_clarification" binding:"required"`
	NotesAndMaterial       int `json:"notes_and_material" binding:"required"`
	PracticalDemonstration int `json:"practical_demonstration" binding:"required"`
	ClassControl           int `json:"class_control" binding:"required"`
	Punctuality            int `json:"punctuality" binding:"required"`
	MotivationOfStudents   int `json:"motivation_of_students" binding:"required"`
	FairnessInAssessment   int `json:"fairness_in_assessment" binding:"required"`
	OverallEffectiveness   int `json:"overall_effectiveness" binding:"required"`

	AnySuggestion string `json:"any_suggestion"`
}

// toFeedback maps the input onto a feedback document for a student
func (in *SubmitFeedbackInput) toFeedback(studentID primitive.ObjectID) *models.Feedback {
	return &models.Feedback{
		StudentID:    studentID,
		AssignmentID: in.AssignmentID,

		CoverageOfSyllabus:     in.CoverageOfSyllabus,
		PreparationForClass:    in.PreparationForClass,
		ClarityOfExplanation:   in.ClarityOfExplanation,
		CommunicationSkills:    in.CommunicationSkills,
		SubjectKnowledge:       in.SubjectKnowledge,
		UseOfTeachingAids:      in.UseOfTeachingAids,
		PaceOfTeaching:         in.PaceOfTeaching,
		EncouragesQuestions:    in.EncouragesQuestions,
		DoubtClarification:     in.DoubtClarification,
		NotesAndMaterial:       in.NotesAndMaterial,
		PracticalDemonstration: in.PracticalDemonstration,
		ClassControl:           in.ClassControl,
		Punctuality:            in.Punctuality,
		MotivationOfStudents:   in.MotivationOfStudents,
		FairnessInAssessment:   in.FairnessInAssessment,
		OverallEffectiveness:   in.OverallEffectiveness,

		AnySuggestion: strings.TrimSpace(in.AnySuggestion),
	}
}

// SuggestionEntry is one free-text student suggestion attached to an assignment
type SuggestionEntry struct {
	AssignmentID primitive.ObjectID `json:"assignment_id"`
	SubjectName  string             `json:"subject_name"`
	SubjectCode  string             `json:"subject_code"`
	Semester     string             `json:"semester"`
	Suggestion   string             `json:"suggestion"`
}

// FeedbackService handles feedback submission, student task lists and the
// HOD release flow.
// #INTEGRATION_POINT: Task lists are TTL cached; submission and release
// invalidate by prefix
type FeedbackService interface {
	// StudentTasks lists the student's department assignments together with
	// their submission state. Cached per student
	StudentTasks(ctx context.Context, studentID primitive.ObjectID) ([]StudentTask, error)

	// Submit records one feedback submission. One per (student, assignment);
	// rejected while the department's collection window is closed
	Submit(ctx context.Context, studentID primitive.ObjectID, input SubmitFeedbackInput) (*models.Feedback, error)

	// Release marks all feedback for (department, semester) as released,
	// making reports visible to faculty. Returns the released count
	Release(ctx context.Context, departmentID primitive.ObjectID, semester string) (int64, error)

	// StaffSuggestions lists student suggestions across a staff member's
	// assignments. HOD viewers see suggestions from unreleased feedback too
	StaffSuggestions(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole) ([]SuggestionEntry, error)
}

// feedbackService implements FeedbackService
type feedbackService struct {
	feedbackRepo   repository.FeedbackRepository
	assignmentRepo repository.AssignmentRepository
	departmentRepo repository.DepartmentRepository
	userRepo       repository.UserRepository
	staffRepo      repository.StaffRepository
	subjectRepo    repository.SubjectRepository
	cache          cache.Service
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	assignmentRepo repository.AssignmentRepository,
	departmentRepo repository.DepartmentRepository,
	userRepo repository.UserRepository,
	staffRepo repository.StaffRepository,
	subjectRepo repository.SubjectRepository,
	cacheSvc cache.Service,
) FeedbackService {
	return &feedbackService{
		feedbackRepo:   feedbackRepo,
		assignmentRepo: assignmentRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		staffRepo:      staffRepo,
		subjectRepo:    subjectRepo,
		cache:          cacheSvc,
	}
}

// StudentTasks builds the student's task list from department assignments
func (s *feedbackService) StudentTasks(ctx context.Context, studentID primitive.ObjectID) ([]StudentTask, error) {
	cacheKey := cache.PrefixStudentTasks + studentID.Hex()
	if cached, ok := s.cache.Get(cacheKey); ok {
		if tasks, ok := cached.([]StudentTask); ok {
			return tasks, nil
		}
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.DepartmentID == nil {
		return []StudentTask{}, nil
	}

	assignments, err := s.assignmentRepo.ListByDepartment(ctx, *student.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		tasks := []StudentTask{}
		s.cache.Set(cacheKey, tasks)
		return tasks, nil
	}

	submittedIDs, err := s.feedbackRepo.ListStudentAssignmentIDs(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	submitted := make(map[primitive.ObjectID]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	subjectIDs := make([]primitive.ObjectID, 0, len(assignments))
	staffIDs := make([]primitive.ObjectID, 0, len(assignments))
	seenSubjects := make(map[primitive.ObjectID]bool, len(assignments))
	seenStaff := make(map[primitive.ObjectID]bool, len(assignments))
	for _, a := range assignments {
		if !seenSubjects[a.SubjectID] {
			seenSubjects[a.SubjectID] = true
			subjectIDs = append(subjectIDs, a.SubjectID)
		}
		if !seenStaff[a.StaffID] {
			seenStaff[a.StaffID] = true
			staffIDs = append(staffIDs, a.StaffID)
		}
	}

	subjects, err := s.subjectRepo.GetByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	subjectsByID := make(map[primitive.ObjectID]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectsByID[subject.ID] = subject
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

	tasks := make([]StudentTask, 0, len(assignments))
	for _, a := range assignments {
		subject, ok := subjectsByID[a.SubjectID]
		if !ok {
			// stale assignment pointing at a deleted subject
			continue
		}
		task := StudentTask{
			AssignmentID: a.ID,
			SubjectID:    a.SubjectID,
			SubjectName:  subject.Name,
			SubjectCode:  subject.SubjectCode,
			Semester:     a.Semester,
			Submitted:    submitted[a.ID],
		}
		if st, ok := staffByID[a.StaffID]; ok {
			if user, ok := usersByID[st.UserID]; ok {
				task.StaffName = user.Name
			}
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return strings.ToLower(tasks[i].SubjectName) < strings.ToLower(tasks[j].SubjectName)
	})

	s.cache.Set(cacheKey, tasks)
	return tasks, nil
}

// Submit records one feedback submission
func (s *feedbackService) Submit(ctx context.Context, studentID primitive.ObjectID, input SubmitFeedbackInput) (*models.Feedback, error) {
	fb := input.toFeedback(studentID)
	if err := fb.Validate(); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return nil, err
	}

	dept, err := s.departmentRepo.GetByID(ctx, assignment.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !dept.IsFeedbackActive {
		return nil, models.ErrFeedbackNotActive
	}

	exists, err := s.feedbackRepo.ExistsForStudentAssignment(ctx, studentID, input.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}
	if exists {
		return nil, models.ErrFeedbackAlreadySubmitted
	}

	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(cache.PrefixStudentTasks + studentID.Hex())
	return fb, nil
}

// Release flips is_released on all feedback for (department, semester)
func (s *feedbackService) Release(ctx context.Context, departmentID primitive.ObjectID, semester string) (int64, error) {
	canonical := normalize.Semester(semester, time.Now().UTC())

	assignments, err := s.assignmentRepo.ListByDepartmentSemester(ctx, departmentID, canonical, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	assignmentIDs := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}
	released, err := s.feedbackRepo.ReleaseByAssignments(ctx, assignmentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to release feedback: %w", err)
	}

	s.cache.InvalidatePrefix(cache.PrefixFacultyAssignments)
	return released, nil
}

// StaffSuggestions collects non-empty student suggestions for a staff member
func (s *feedbackService) StaffSuggestions(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole) ([]SuggestionEntry, error) {
	assignments, err := s.assignmentRepo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	releasedOnly := viewerRole != models.UserRoleHOD
	entries := make([]SuggestionEntry, 0)
	for _, a := range assignments {
		feedbacks, err := s.feedbackRepo.ListByAssignment(ctx, a.ID, releasedOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to load feedback: %w", err)
		}

		var subjectName, subjectCode string
		if subject, err := s.subjectRepo.GetByID(ctx, a.SubjectID); err == nil {
			subjectName = subject.Name
			subjectCode = subject.SubjectCode
		} else if !models.IsNotFoundError(err) {
			return nil, err
		}

		for _, fb := range feedbacks {
			if fb.AnySuggestion == "" {
				continue
			}
			entries = append(entries, SuggestionEntry{
				AssignmentID: a.ID,
				SubjectName:  subjectName,
				SubjectCode:  subjectCode,
				Semester:     a.Semester,
				Suggestion:   fb.AnySuggestion,
			})
		}
	}
	return entries, nil
}
