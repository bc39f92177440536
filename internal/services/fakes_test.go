package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// In-memory repository fakes backing the service tests. They enforce the same
// uniqueness rules as the MongoDB indexes so conflict paths are exercised.

type fakeSubjectRepo struct {
	subjects map[primitive.ObjectID]models.Subject
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{subjects: make(map[primitive.ObjectID]models.Subject)}
}

func (r *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	subject.BeforeCreate()
	r.subjects[subject.ID] = *subject
	return nil
}

func (r *fakeSubjectRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Subject, error) {
	subject, ok := r.subjects[id]
	if !ok || subject.DeletedAt != nil {
		return nil, models.ErrSubjectNotFound
	}
	s := subject
	return &s, nil
}

func (r *fakeSubjectRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Subject, error) {
	result := []models.Subject{}
	for _, id := range ids {
		if subject, ok := r.subjects[id]; ok && subject.DeletedAt == nil {
			result = append(result, subject)
		}
	}
	return result, nil
}

func (r *fakeSubjectRepo) FindByCode(_ context.Context, code string) (*models.Subject, error) {
	for _, subject := range r.subjects {
		if subject.DeletedAt == nil && subject.SubjectCode == code {
			s := subject
			return &s, nil
		}
	}
	return nil, models.ErrSubjectNotFound
}

func (r *fakeSubjectRepo) List(_ context.Context) ([]models.Subject, error) {
	result := []models.Subject{}
	for _, subject := range r.subjects {
		if subject.DeletedAt == nil {
			result = append(result, subject)
		}
	}
	return result, nil
}

func (r *fakeSubjectRepo) Update(_ context.Context, subject *models.Subject) error {
	if _, ok := r.subjects[subject.ID]; !ok {
		return models.ErrSubjectNotFound
	}
	r.subjects[subject.ID] = *subject
	return nil
}

func (r *fakeSubjectRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	subject, ok := r.subjects[id]
	if !ok || subject.DeletedAt != nil {
		return models.ErrSubjectNotFound
	}
	now := time.Now().UTC()
	subject.DeletedAt = &now
	r.subjects[id] = subject
	return nil
}

type fakeLinkRepo struct {
	links map[primitive.ObjectID]models.DepartmentSubject
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[primitive.ObjectID]models.DepartmentSubject)}
}

func (r *fakeLinkRepo) Create(_ context.Context, link *models.DepartmentSubject) error {
	for _, existing := range r.links {
		if existing.DepartmentID == link.DepartmentID && existing.SubjectID == link.SubjectID {
			return models.ErrSubjectAlreadyLinked
		}
	}
	link.BeforeCreate()
	r.links[link.ID] = *link
	return nil
}

func (r *fakeLinkRepo) GetByDepartment(_ context.Context, departmentID primitive.ObjectID) ([]models.DepartmentSubject, error) {
	result := []models.DepartmentSubject{}
	for _, link := range r.links {
		if link.DepartmentID == departmentID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) GetByDepartmentAndSubject(_ context.Context, departmentID, subjectID primitive.ObjectID) (*models.DepartmentSubject, error) {
	for _, link := range r.links {
		if link.DepartmentID == departmentID && link.SubjectID == subjectID {
			l := link
			return &l, nil
		}
	}
	return nil, models.ErrSubjectNotLinked
}

func (r *fakeLinkRepo) ListBySubject(_ context.Context, subjectID primitive.ObjectID) ([]models.DepartmentSubject, error) {
	result := []models.DepartmentSubject{}
	for _, link := range r.links {
		if link.SubjectID == subjectID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) Update(_ context.Context, link *models.DepartmentSubject) error {
	if _, ok := r.links[link.ID]; !ok {
		return models.ErrSubjectNotLinked
	}
	r.links[link.ID] = *link
	return nil
}

func (r *fakeLinkRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.links[id]; !ok {
		return models.ErrSubjectNotLinked
	}
	delete(r.links, id)
	return nil
}

func (r *fakeLinkRepo) DeleteByDepartmentAndSubject(_ context.Context, departmentID, subjectID primitive.ObjectID) error {
	for id, link := range r.links {
		if link.DepartmentID == departmentID && link.SubjectID == subjectID {
			delete(r.links, id)
			return nil
		}
	}
	return models.ErrSubjectNotLinked
}

type fakeYearRepo struct {
	years map[primitive.ObjectID]models.AcademicYear
}

func newFakeYearRepo() *fakeYearRepo {
	return &fakeYearRepo{years: make(map[primitive.ObjectID]models.AcademicYear)}
}

func (r *fakeYearRepo) Create(_ context.Context, year *models.AcademicYear) error {
	year.BeforeCreate()
	r.years[year.ID] = *year
	return nil
}

func (r *fakeYearRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.AcademicYear, error) {
	year, ok := r.years[id]
	if !ok {
		return nil, models.ErrAcademicYearNotFound
	}
	y := year
	return &y, nil
}

func (r *fakeYearRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.AcademicYear, error) {
	result := []models.AcademicYear{}
	for _, id := range ids {
		if year, ok := r.years[id]; ok {
			result = append(result, year)
		}
	}
	return result, nil
}

func (r *fakeYearRepo) GetByName(_ context.Context, name string) (*models.AcademicYear, error) {
	for _, year := range r.years {
		if year.Name == name {
			y := year
			return &y, nil
		}
	}
	return nil, models.ErrAcademicYearNotFound
}

func (r *fakeYearRepo) List(_ context.Context) ([]models.AcademicYear, error) {
	result := []models.AcademicYear{}
	for _, year := range r.years {
		result = append(result, year)
	}
	return result, nil
}

type fakeStaffRepo struct {
	staff map[primitive.ObjectID]models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: make(map[primitive.ObjectID]models.Staff)}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *models.Staff) error {
	staff.BeforeCreate()
	r.staff[staff.ID] = *staff
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Staff, error) {
	staff, ok := r.staff[id]
	if !ok || staff.DeletedAt != nil {
		return nil, models.ErrStaffNotFound
	}
	s := staff
	return &s, nil
}

func (r *fakeStaffRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Staff, error) {
	for _, staff := range r.staff {
		if staff.DeletedAt == nil && staff.UserID == userID {
			s := staff
			return &s, nil
		}
	}
	return nil, models.ErrStaffNotFound
}

func (r *fakeStaffRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Staff, error) {
	result := []models.Staff{}
	for _, id := range ids {
		if staff, ok := r.staff[id]; ok && staff.DeletedAt == nil {
			result = append(result, staff)
		}
	}
	return result, nil
}

func (r *fakeStaffRepo) ListByDepartment(_ context.Context, departmentID primitive.ObjectID) ([]models.Staff, error) {
	result := []models.Staff{}
	for _, staff := range r.staff {
		if staff.DeletedAt == nil && staff.DepartmentID == departmentID {
			result = append(result, staff)
		}
	}
	return result, nil
}

func (r *fakeStaffRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	staff, ok := r.staff[id]
	if !ok || staff.DeletedAt != nil {
		return models.ErrStaffNotFound
	}
	now := time.Now().UTC()
	staff.DeletedAt = &now
	r.staff[id] = staff
	return nil
}

type fakeUserRepo struct {
	users        map[primitive.ObjectID]models.User
	lastLoginErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.DeletedAt == nil && existing.Email == user.Email {
			return models.ErrEmailAlreadyExists
		}
	}
	user.BeforeCreate()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, models.ErrUserNotFound
	}
	u := user
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	result := []models.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok && user.DeletedAt == nil {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return models.ErrUserNotFound
	}
	user.SoftDelete()
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id primitive.ObjectID) error {
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.UpdateLastLogin()
	r.users[id] = user
	return nil
}

func (r *fakeUserRepo) ListByDepartment(_ context.Context, departmentID primitive.ObjectID, role models.UserRole) ([]models.User, error) {
	result := []models.User{}
	for _, user := range r.users {
		if user.DeletedAt != nil || !user.IsActive {
			continue
		}
		if user.DepartmentID == nil || *user.DepartmentID != departmentID {
			continue
		}
		if role != "" && user.Role != role {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

type fakeAssignmentRepo struct {
	assignments map[primitive.ObjectID]models.FacultyAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[primitive.ObjectID]models.FacultyAssignment)}
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.FacultyAssignment, error) {
	assignment, ok := r.assignments[id]
	if !ok {
		return nil, models.ErrAssignmentNotFound
	}
	a := assignment
	return &a, nil
}

func (r *fakeAssignmentRepo) ListByDepartmentSemester(_ context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) ([]models.FacultyAssignment, error) {
	var scope map[primitive.ObjectID]bool
	if subjectIDs != nil {
		scope = make(map[primitive.ObjectID]bool, len(subjectIDs))
		for _, id := range subjectIDs {
			scope[id] = true
		}
	}
	result := []models.FacultyAssignment{}
	for _, a := range r.assignments {
		if a.DepartmentID != departmentID || a.Semester != semester {
			continue
		}
		if scope != nil && !scope[a.SubjectID] {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAssignmentRepo) ListByStaffSemester(_ context.Context, staffID primitive.ObjectID, semester string) ([]models.FacultyAssignment, error) {
	result := []models.FacultyAssignment{}
	for _, a := range r.assignments {
		if a.StaffID == staffID && a.Semester == semester {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) ListByStaff(_ context.Context, staffID primitive.ObjectID) ([]models.FacultyAssignment, error) {
	result := []models.FacultyAssignment{}
	for _, a := range r.assignments {
		if a.StaffID == staffID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) ListByDepartment(_ context.Context, departmentID primitive.ObjectID) ([]models.FacultyAssignment, error) {
	result := []models.FacultyAssignment{}
	for _, a := range r.assignments {
		if a.DepartmentID == departmentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) InsertMany(_ context.Context, assignments []models.FacultyAssignment) (int, error) {
	for i := range assignments {
		for _, existing := range r.assignments {
			if existing.StaffID == assignments[i].StaffID &&
				existing.SubjectID == assignments[i].SubjectID &&
				existing.Semester == assignments[i].Semester {
				return 0, models.ErrAlreadyExists
			}
		}
		assignments[i].BeforeCreate()
		r.assignments[assignments[i].ID] = assignments[i]
	}
	return len(assignments), nil
}

func (r *fakeAssignmentRepo) DeleteByDepartmentSemester(_ context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) (int64, error) {
	var scope map[primitive.ObjectID]bool
	if subjectIDs != nil {
		scope = make(map[primitive.ObjectID]bool, len(subjectIDs))
		for _, id := range subjectIDs {
			scope[id] = true
		}
	}
	var deleted int64
	for id, a := range r.assignments {
		if a.DepartmentID != departmentID || a.Semester != semester {
			continue
		}
		if scope != nil && !scope[a.SubjectID] {
			continue
		}
		delete(r.assignments, id)
		deleted++
	}
	return deleted, nil
}

type fakeFeedbackRepo struct {
	feedbacks map[primitive.ObjectID]models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedbacks: make(map[primitive.ObjectID]models.Feedback)}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, fb *models.Feedback) error {
	for _, existing := range r.feedbacks {
		if existing.StudentID == fb.StudentID && existing.AssignmentID == fb.AssignmentID {
			return models.ErrFeedbackAlreadySubmitted
		}
	}
	fb.BeforeCreate()
	r.feedbacks[fb.ID] = *fb
	return nil
}

func (r *fakeFeedbackRepo) ListByAssignment(_ context.Context, assignmentID primitive.ObjectID, releasedOnly bool) ([]models.Feedback, error) {
	result := []models.Feedback{}
	for _, fb := range r.feedbacks {
		if fb.AssignmentID != assignmentID {
			continue
		}
		if releasedOnly && !fb.IsReleased {
			continue
		}
		result = append(result, fb)
	}
	return result, nil
}

func (r *fakeFeedbackRepo) ExistsForStudentAssignment(_ context.Context, studentID, assignmentID primitive.ObjectID) (bool, error) {
	for _, fb := range r.feedbacks {
		if fb.StudentID == studentID && fb.AssignmentID == assignmentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) ListStudentAssignmentIDs(_ context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	result := []primitive.ObjectID{}
	for _, fb := range r.feedbacks {
		if fb.StudentID == studentID {
			result = append(result, fb.AssignmentID)
		}
	}
	return result, nil
}

func (r *fakeFeedbackRepo) ReleaseByAssignments(_ context.Context, assignmentIDs []primitive.ObjectID) (int64, error) {
	scope := make(map[primitive.ObjectID]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		scope[id] = true
	}
	var released int64
	for id, fb := range r.feedbacks {
		if scope[fb.AssignmentID] && !fb.IsReleased {
			fb.IsReleased = true
			r.feedbacks[id] = fb
			released++
		}
	}
	return released, nil
}

type fakeDepartmentRepo struct {
	departments map[primitive.ObjectID]models.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[primitive.ObjectID]models.Department)}
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *models.Department) error {
	dept.BeforeCreate()
	r.departments[dept.ID] = *dept
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	dept, ok := r.departments[id]
	if !ok || dept.DeletedAt != nil {
		return nil, models.ErrDepartmentNotFound
	}
	d := dept
	return &d, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context) ([]models.Department, error) {
	result := []models.Department{}
	for _, dept := range r.departments {
		if dept.DeletedAt == nil {
			result = append(result, dept)
		}
	}
	return result, nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, dept *models.Department) error {
	if _, ok := r.departments[dept.ID]; !ok {
		return models.ErrDepartmentNotFound
	}
	r.departments[dept.ID] = *dept
	return nil
}

func (r *fakeDepartmentRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	dept, ok := r.departments[id]
	if !ok || dept.DeletedAt != nil {
		return models.ErrDepartmentNotFound
	}
	now := time.Now().UTC()
	dept.DeletedAt = &now
	r.departments[id] = dept
	return nil
}

func (r *fakeDepartmentRepo) SetFeedbackActive(_ context.Context, id primitive.ObjectID, active bool) error {
	dept, ok := r.departments[id]
	if !ok || dept.DeletedAt != nil {
		return models.ErrDepartmentNotFound
	}
	dept.IsFeedbackActive = active
	r.departments[id] = dept
	return nil
}

type fakeSuggestionRepo struct {
	suggestions map[string]models.HodSuggestion
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{suggestions: make(map[string]models.HodSuggestion)}
}

func (r *fakeSuggestionRepo) Upsert(_ context.Context, suggestion *models.HodSuggestion) error {
	key := suggestion.StaffID.Hex() + "|" + suggestion.Semester
	if existing, ok := r.suggestions[key]; ok {
		existing.Content = suggestion.Content
		r.suggestions[key] = existing
		return nil
	}
	suggestion.BeforeCreate()
	r.suggestions[key] = *suggestion
	return nil
}

func (r *fakeSuggestionRepo) GetByStaffSemester(_ context.Context, staffID primitive.ObjectID, semester string) (*models.HodSuggestion, error) {
	suggestion, ok := r.suggestions[staffID.Hex()+"|"+semester]
	if !ok {
		return nil, models.ErrSuggestionNotFound
	}
	s := suggestion
	return &s, nil
}

// Interface conformance for the fakes
var (
	_ repository.SubjectRepository           = (*fakeSubjectRepo)(nil)
	_ repository.DepartmentSubjectRepository = (*fakeLinkRepo)(nil)
	_ repository.AcademicYearRepository      = (*fakeYearRepo)(nil)
	_ repository.StaffRepository             = (*fakeStaffRepo)(nil)
	_ repository.UserRepository              = (*fakeUserRepo)(nil)
	_ repository.AssignmentRepository        = (*fakeAssignmentRepo)(nil)
	_ repository.FeedbackRepository          = (*fakeFeedbackRepo)(nil)
	_ repository.DepartmentRepository        = (*fakeDepartmentRepo)(nil)
	_ repository.SuggestionRepository        = (*fakeSuggestionRepo)(nil)
)
