package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/cache"
	"github.com/campus-tools/feedback_backend/internal/models"
)

type reconcileFixture struct {
	svc            AssignmentService
	assignmentRepo *fakeAssignmentRepo
	staffRepo      *fakeStaffRepo
	userRepo       *fakeUserRepo
	subjectRepo    *fakeSubjectRepo
	linkRepo       *fakeLinkRepo
	deptID         primitive.ObjectID
	yearID         primitive.ObjectID
}

func newReconcileFixture() *reconcileFixture {
	assignmentRepo := newFakeAssignmentRepo()
	staffRepo := newFakeStaffRepo()
	userRepo := newFakeUserRepo()
	subjectRepo := newFakeSubjectRepo()
	linkRepo := newFakeLinkRepo()
	return &reconcileFixture{
		svc: NewAssignmentService(
			assignmentRepo, staffRepo, userRepo, subjectRepo, linkRepo,
			cache.Noop{}, SequentialTx,
		),
		assignmentRepo: assignmentRepo,
		staffRepo:      staffRepo,
		userRepo:       userRepo,
		subjectRepo:    subjectRepo,
		linkRepo:       linkRepo,
		deptID:         primitive.NewObjectID(),
		yearID:         primitive.NewObjectID(),
	}
}

func (f *reconcileFixture) addStaff(t *testing.T, deptID primitive.ObjectID, name string) models.Staff {
	t.Helper()
	user := models.User{Email: name + "@college.edu", Name: name, Role: models.UserRoleFaculty}
	if err := f.userRepo.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	staff := models.Staff{UserID: user.ID, DepartmentID: deptID}
	if err := f.staffRepo.Create(context.Background(), &staff); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	return staff
}

func (f *reconcileFixture) addLinkedSubject(t *testing.T, name, code string) models.Subject {
	t.Helper()
	subject := models.Subject{Name: name, SubjectCode: code}
	if err := f.subjectRepo.Create(context.Background(), &subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	link := models.DepartmentSubject{
		DepartmentID:   f.deptID,
		SubjectID:      subject.ID,
		AcademicYearID: f.yearID,
	}
	if err := f.linkRepo.Create(context.Background(), &link); err != nil {
		t.Fatalf("create link: %v", err)
	}
	return subject
}

const testSemester = "Odd Semester 2025-26"

func TestReconcile_Convergence(t *testing.T) {
	f := newReconcileFixture()
	staff1 := f.addStaff(t, f.deptID, "alice")
	staff2 := f.addStaff(t, f.deptID, "bob")
	s1 := f.addLinkedSubject(t, "Data Structures", "313301")
	s2 := f.addLinkedSubject(t, "Applied Maths", "313302")

	// pre-existing state that the desired set does not contain
	_, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff1.ID, SubjectID: s1.ID},
		{StaffID: staff1.ID, SubjectID: s2.ID},
	})
	if err != nil {
		t.Fatalf("seed reconcile: %v", err)
	}

	result, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff1.ID, SubjectID: s1.ID},
		{StaffID: staff2.ID, SubjectID: s2.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("expected 2 created, got %d", result.Created)
	}
	if result.Deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", result.Deleted)
	}
	if result.FinalCount != 2 {
		t.Errorf("expected final count 2, got %d", result.FinalCount)
	}

	stored, _ := f.assignmentRepo.ListByDepartmentSemester(context.Background(), f.deptID, testSemester, nil)
	if len(stored) != 2 {
		t.Fatalf("expected exactly 2 stored assignments, got %d", len(stored))
	}
	want := map[string]bool{
		staff1.ID.Hex() + s1.ID.Hex(): false,
		staff2.ID.Hex() + s2.ID.Hex(): false,
	}
	for _, a := range stored {
		key := a.StaffID.Hex() + a.SubjectID.Hex()
		if _, ok := want[key]; !ok {
			t.Errorf("unexpected assignment %s/%s", a.StaffID.Hex(), a.SubjectID.Hex())
		}
		want[key] = true
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("missing desired assignment %s", key)
		}
	}
}

func TestReconcile_Idempotence(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")
	pairs := []AssignmentPair{{StaffID: staff.ID, SubjectID: subject.ID}}

	first, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", pairs)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	second, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", pairs)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if first.FinalCount != second.FinalCount {
		t.Errorf("final count changed between runs: %d then %d", first.FinalCount, second.FinalCount)
	}
	if second.FinalCount != 1 {
		t.Errorf("expected final count 1, got %d", second.FinalCount)
	}
}

func TestReconcile_DeduplicatesPairs(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")

	result, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: subject.ID},
		{StaffID: staff.ID, SubjectID: subject.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("expected duplicate pair collapsed to 1, got %d created", result.Created)
	}
}

func TestReconcile_DropsUnlinkedSubject(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	linked := f.addLinkedSubject(t, "Data Structures", "313301")
	unlinked := models.Subject{Name: "Foreign Subject", SubjectCode: "999999"}
	if err := f.subjectRepo.Create(context.Background(), &unlinked); err != nil {
		t.Fatalf("create subject: %v", err)
	}

	result, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: linked.ID},
		{StaffID: staff.ID, SubjectID: unlinked.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("expected unlinked subject dropped, got %d created", result.Created)
	}
}

func TestReconcile_DropsForeignStaff(t *testing.T) {
	f := newReconcileFixture()
	otherDept := primitive.NewObjectID()
	foreign := f.addStaff(t, otherDept, "mallory")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")

	result, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: foreign.ID, SubjectID: subject.ID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 {
		t.Errorf("expected foreign staff dropped, got %d created", result.Created)
	}
}

func TestReconcile_LeavesOtherDepartmentsAlone(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	shared := f.addLinkedSubject(t, "Shared Subject", "313308")

	// the same subject is taught in another department
	otherDept := primitive.NewObjectID()
	otherStaff := f.addStaff(t, otherDept, "bob")
	foreign := models.FacultyAssignment{
		StaffID:        otherStaff.ID,
		SubjectID:      shared.ID,
		DepartmentID:   otherDept,
		AcademicYearID: f.yearID,
		Semester:       testSemester,
	}
	if _, err := f.assignmentRepo.InsertMany(context.Background(), []models.FacultyAssignment{foreign}); err != nil {
		t.Fatalf("insert foreign assignment: %v", err)
	}

	if _, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: shared.ID},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foreignStored, _ := f.assignmentRepo.ListByDepartmentSemester(context.Background(), otherDept, testSemester, nil)
	if len(foreignStored) != 1 {
		t.Errorf("expected other department's assignment untouched, got %d", len(foreignStored))
	}
}

func TestReconcile_EmptyDesiredSetClears(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")

	if _, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: subject.ID},
	}); err != nil {
		t.Fatalf("seed reconcile: %v", err)
	}

	result, err := f.svc.Reconcile(context.Background(), f.deptID, testSemester, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Deleted != 1 || result.Created != 0 || result.FinalCount != 0 {
		t.Errorf("expected clear to delete 1 and leave 0, got %+v", result)
	}
}

func TestReconcile_NormalizesSemesterVariants(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")

	if _, err := f.svc.Reconcile(context.Background(), f.deptID, "odd   semester   2025-26", "", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: subject.ID},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := f.assignmentRepo.ListByDepartmentSemester(context.Background(), f.deptID, testSemester, nil)
	if len(stored) != 1 {
		t.Fatalf("expected assignment stored under canonical semester, got %d", len(stored))
	}
	if stored[0].Semester != testSemester {
		t.Errorf("expected semester %q, got %q", testSemester, stored[0].Semester)
	}
}

func TestReconcile_ExplicitAcademicYearBeatsWallClock(t *testing.T) {
	f := newReconcileFixture()
	staff := f.addStaff(t, f.deptID, "alice")
	subject := f.addLinkedSubject(t, "Data Structures", "313301")

	// an academic year no wall clock will produce for decades
	if _, err := f.svc.Reconcile(context.Background(), f.deptID, "3", "2098-99", []AssignmentPair{
		{StaffID: staff.ID, SubjectID: subject.ID},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Odd Semester 2098-99"
	stored, _ := f.assignmentRepo.ListByDepartmentSemester(context.Background(), f.deptID, want, nil)
	if len(stored) != 1 {
		t.Fatalf("expected assignment anchored to the given academic year, got %d", len(stored))
	}
	if stored[0].Semester != want {
		t.Errorf("expected semester %q, got %q", want, stored[0].Semester)
	}
}

func TestListForStaff_CachesResult(t *testing.T) {
	assignmentRepo := newFakeAssignmentRepo()
	staffRepo := newFakeStaffRepo()
	userRepo := newFakeUserRepo()
	subjectRepo := newFakeSubjectRepo()
	linkRepo := newFakeLinkRepo()
	memCache := cache.New(0)
	svc := NewAssignmentService(assignmentRepo, staffRepo, userRepo, subjectRepo, linkRepo, memCache, SequentialTx)

	staffID := primitive.NewObjectID()
	first, err := svc.ListForStaff(context.Background(), staffID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("expected no assignments, got %d", len(first))
	}

	// a write that bypasses the service is invisible until invalidation
	assignment := models.FacultyAssignment{
		StaffID:      staffID,
		SubjectID:    primitive.NewObjectID(),
		DepartmentID: primitive.NewObjectID(),
		Semester:     testSemester,
	}
	if _, err := assignmentRepo.InsertMany(context.Background(), []models.FacultyAssignment{assignment}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cached, err := svc.ListForStaff(context.Background(), staffID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached) != 0 {
		t.Errorf("expected cached empty result, got %d", len(cached))
	}

	memCache.InvalidatePrefix(cache.PrefixFacultyAssignments)
	fresh, err := svc.ListForStaff(context.Background(), staffID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 1 {
		t.Errorf("expected fresh result after invalidation, got %d", len(fresh))
	}
}
