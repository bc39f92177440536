package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FacultyAssignment binds one staff member to one subject for one semester
// within one department.
// #DATA_ASSUMPTION: (staff_id, subject_id, semester) is unique, enforced by a
// compound index; the reconciler's full-replace keeps the set converged
type FacultyAssignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StaffID        primitive.ObjectID `bson:"staff_id" json:"staff_id"`
	SubjectID      primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	DepartmentID   primitive.ObjectID `bson:"department_id" json:"department_id"`
	AcademicYearID primitive.ObjectID `bson:"academic_year_id" json:"academic_year_id"`

	// Semester is always stored in canonical "{Odd|Even} Semester YYYY-YY" form
	Semester string `bson:"semester" json:"semester"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for faculty assignments
func (FacultyAssignment) CollectionName() string {
	return "faculty_assignments"
}

// BeforeCreate sets default values before inserting a new assignment
func (a *FacultyAssignment) BeforeCreate() {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (a *FacultyAssignment) BeforeUpdate() {
	a.UpdatedAt = time.Now().UTC()
}
