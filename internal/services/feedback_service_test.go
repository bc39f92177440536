package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/cache"
	"github.com/campus-tools/feedback_backend/internal/models"
)

type feedbackFixture struct {
	svc            FeedbackService
	feedbackRepo   *fakeFeedbackRepo
	assignmentRepo *fakeAssignmentRepo
	departmentRepo *fakeDepartmentRepo
	userRepo       *fakeUserRepo
	staffRepo      *fakeStaffRepo
	subjectRepo    *fakeSubjectRepo
	cache          cache.Service
}

func newFeedbackFixture() *feedbackFixture {
	feedbackRepo := newFakeFeedbackRepo()
	assignmentRepo := newFakeAssignmentRepo()
	departmentRepo := newFakeDepartmentRepo()
	userRepo := newFakeUserRepo()
	staffRepo := newFakeStaffRepo()
	subjectRepo := newFakeSubjectRepo()
	memCache := cache.New(0)
	return &feedbackFixture{
		svc: NewFeedbackService(
			feedbackRepo, assignmentRepo, departmentRepo, userRepo, staffRepo, subjectRepo, memCache,
		),
		feedbackRepo:   feedbackRepo,
		assignmentRepo: assignmentRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		staffRepo:      staffRepo,
		subjectRepo:    subjectRepo,
		cache:          memCache,
	}
}

// seed creates a department with one assignment and returns them plus a student
func (f *feedbackFixture) seed(t *testing.T, feedbackActive bool) (models.Department, models.FacultyAssignment, models.User) {
	t.Helper()
	dept := models.Department{Name: "Computer Engineering", Abbreviation: "CO", IsFeedbackActive: feedbackActive}
	if err := f.departmentRepo.Create(context.Background(), &dept); err != nil {
		t.Fatalf("create department: %v", err)
	}

	facultyUser := models.User{Email: "alice@college.edu", Name: "alice", Role: models.UserRoleFaculty}
	if err := f.userRepo.Create(context.Background(), &facultyUser); err != nil {
		t.Fatalf("create faculty user: %v", err)
	}
	staff := models.Staff{UserID: facultyUser.ID, DepartmentID: dept.ID}
	if err := f.staffRepo.Create(context.Background(), &staff); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	subject := models.Subject{Name: "Data Structures", SubjectCode: "313301"}
	if err := f.subjectRepo.Create(context.Background(), &subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	assignment := models.FacultyAssignment{
		StaffID:        staff.ID,
		SubjectID:      subject.ID,
		DepartmentID:   dept.ID,
		AcademicYearID: primitive.NewObjectID(),
		Semester:       testSemester,
	}
	if _, err := f.assignmentRepo.InsertMany(context.Background(), []models.FacultyAssignment{assignment}); err != nil {
		t.Fatalf("insert assignment: %v", err)
	}
	stored, _ := f.assignmentRepo.ListByStaff(context.Background(), staff.ID)

	student := models.User{Email: "student@college.edu", Name: "student", Role: models.UserRoleStudent, DepartmentID: &dept.ID}
	if err := f.userRepo.Create(context.Background(), &student); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return dept, stored[0], student
}

// allFives fills every rating with 5
func allFives(assignmentID primitive.ObjectID) SubmitFeedbackInput {
	return SubmitFeedbackInput{
		AssignmentID: assignmentID,

		CoverageOfSyllabus:     5,
		PreparationForClass:    5,
		ClarityOfExplanation:   5,
		CommunicationSkills:    5,
		SubjectKnowledge:       5,
		UseOfTeachingAids:      5,
		PaceOfTeaching:         5,
		EncouragesQuestions:    5,
		DoubtClarification:     5,
		NotesAndMaterial:       5,
		PracticalDemonstration: 5,
		ClassControl:           5,
		Punctuality:            5,
		MotivationOfStudents:   5,
		FairnessInAssessment:   5,
		OverallEffectiveness:   5,
	}
}

func TestSubmit_Succeeds(t *testing.T) {
	f := newFeedbackFixture()
	_, assignment, student := f.seed(t, true)

	input := allFives(assignment.ID)
	input.AnySuggestion = "  more practice sessions  "

	fb, err := f.svc.Submit(context.Background(), student.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.AnySuggestion != "more practice sessions" {
		t.Errorf("expected trimmed suggestion, got %q", fb.AnySuggestion)
	}
	if fb.IsReleased {
		t.Error("new feedback must not be released")
	}
}

func TestSubmit_RejectsDuplicate(t *testing.T) {
	f := newFeedbackFixture()
	_, assignment, student := f.seed(t, true)

	if _, err := f.svc.Submit(context.Background(), student.ID, allFives(assignment.ID)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := f.svc.Submit(context.Background(), student.ID, allFives(assignment.ID))
	if !errors.Is(err, models.ErrFeedbackAlreadySubmitted) {
		t.Errorf("expected ErrFeedbackAlreadySubmitted, got %v", err)
	}
}

func TestSubmit_RejectsOutOfRangeRating(t *testing.T) {
	f := newFeedbackFixture()
	_, assignment, student := f.seed(t, true)

	input := allFives(assignment.ID)
	input.Punctuality = 6
	if _, err := f.svc.Submit(context.Background(), student.ID, input); !errors.Is(err, models.ErrRatingOutOfRange) {
		t.Errorf("expected ErrRatingOutOfRange for 6, got %v", err)
	}

	input = allFives(assignment.ID)
	input.ClassControl = 0
	if _, err := f.svc.Submit(context.Background(), student.ID, input); !errors.Is(err, models.ErrRatingOutOfRange) {
		t.Errorf("expected ErrRatingOutOfRange for 0, got %v", err)
	}
}

func TestSubmit_RejectsClosedWindow(t *testing.T) {
	f := newFeedbackFixture()
	_, assignment, student := f.seed(t, false)

	_, err := f.svc.Submit(context.Background(), student.ID, allFives(assignment.ID))
	if !errors.Is(err, models.ErrFeedbackNotActive) {
		t.Errorf("expected ErrFeedbackNotActive, got %v", err)
	}
}

func TestSubmit_UnknownAssignment(t *testing.T) {
	f := newFeedbackFixture()
	_, _, student := f.seed(t, true)

	_, err := f.svc.Submit(context.Background(), student.ID, allFives(primitive.NewObjectID()))
	if !errors.Is(err, models.ErrAssignmentNotFound) {
		t.Errorf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestStudentTasks_MarksSubmitted(t *testing.T) {
	f := newFeedbackFixture()
	_, assignment, student := f.seed(t, true)

	tasks, err := f.svc.StudentTasks(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Submitted {
		t.Error("task must start unsubmitted")
	}
	if tasks[0].SubjectName != "Data Structures" || tasks[0].StaffName != "alice" {
		t.Errorf("unexpected join data: %+v", tasks[0])
	}

	if _, err := f.svc.Submit(context.Background(), student.ID, allFives(assignment.ID)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// submission invalidates the cached task list
	tasks, err = f.svc.StudentTasks(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tasks[0].Submitted {
		t.Error("task must be marked submitted after submission")
	}
}

func TestStudentTasks_NoDepartment(t *testing.T) {
	f := newFeedbackFixture()
	student := models.User{Email: "lost@college.edu", Role: models.UserRoleStudent}
	if err := f.userRepo.Create(context.Background(), &student); err != nil {
		t.Fatalf("create student: %v", err)
	}

	tasks, err := f.svc.StudentTasks(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks without a department, got %d", len(tasks))
	}
}

func TestRelease_FlipsFeedback(t *testing.T) {
	f := newFeedbackFixture()
	dept, assignment, student := f.seed(t, true)

	if _, err := f.svc.Submit(context.Background(), student.ID, allFives(assignment.ID)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	released, err := f.svc.Release(context.Background(), dept.ID, testSemester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released != 1 {
		t.Errorf("expected 1 released, got %d", released)
	}

	// releasing again is a no-op
	released, err = f.svc.Release(context.Background(), dept.ID, testSemester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released != 0 {
		t.Errorf("expected 0 on second release, got %d", released)
	}

	feedbacks, _ := f.feedbackRepo.ListByAssignment(context.Background(), assignment.ID, true)
	if len(feedbacks) != 1 {
		t.Errorf("expected released feedback visible, got %d", len(feedbacks))
	}
}

func TestStaffSuggestions_GatedByRelease(t *testing.T) {
	f := newFeedbackFixture()
	dept, assignment, student := f.seed(t, true)

	input := allFives(assignment.ID)
	input.AnySuggestion = "slow down a little"
	if _, err := f.svc.Submit(context.Background(), student.ID, input); err != nil {
		t.Fatalf("submit: %v", err)
	}

	faculty, err := f.svc.StaffSuggestions(context.Background(), assignment.StaffID, models.UserRoleFaculty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faculty) != 0 {
		t.Errorf("expected no suggestions before release, got %d", len(faculty))
	}

	hod, err := f.svc.StaffSuggestions(context.Background(), assignment.StaffID, models.UserRoleHOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hod) != 1 || hod[0].Suggestion != "slow down a little" {
		t.Errorf("expected HOD to see the suggestion, got %+v", hod)
	}

	if _, err := f.svc.Release(context.Background(), dept.ID, testSemester); err != nil {
		t.Fatalf("release: %v", err)
	}
	faculty, err = f.svc.StaffSuggestions(context.Background(), assignment.StaffID, models.UserRoleFaculty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(faculty) != 1 {
		t.Errorf("expected suggestion visible after release, got %d", len(faculty))
	}
}

func TestHodSuggestionService_SaveAndGet(t *testing.T) {
	suggestionRepo := newFakeSuggestionRepo()
	staffRepo := newFakeStaffRepo()
	deptID := primitive.NewObjectID()
	staff := models.Staff{UserID: primitive.NewObjectID(), DepartmentID: deptID}
	if err := staffRepo.Create(context.Background(), &staff); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	svc := NewHodSuggestionService(suggestionRepo, staffRepo)

	saved, err := svc.Save(context.Background(), deptID, staff.ID, testSemester, "good coverage, improve pace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Semester != testSemester {
		t.Errorf("expected canonical semester, got %q", saved.Semester)
	}

	// saving again overwrites
	if _, err := svc.Save(context.Background(), deptID, staff.ID, testSemester, "updated note"); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := svc.Get(context.Background(), staff.ID, testSemester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Content != "updated note" {
		t.Errorf("expected overwritten content, got %q", got.Content)
	}
}

func TestHodSuggestionService_WrongDepartment(t *testing.T) {
	suggestionRepo := newFakeSuggestionRepo()
	staffRepo := newFakeStaffRepo()
	staff := models.Staff{UserID: primitive.NewObjectID(), DepartmentID: primitive.NewObjectID()}
	if err := staffRepo.Create(context.Background(), &staff); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	svc := NewHodSuggestionService(suggestionRepo, staffRepo)

	_, err := svc.Save(context.Background(), primitive.NewObjectID(), staff.ID, testSemester, "note")
	if !errors.Is(err, models.ErrStaffNotInDept) {
		t.Errorf("expected ErrStaffNotInDept, got %v", err)
	}
}
