package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DepartmentSubject is the junction record binding a department, a subject and
// an academic year. It is the single source of truth for "which subjects belong
// to which department for which year".
// #DATA_ASSUMPTION: (department_id, subject_id) is unique, enforced by a
// compound index rather than the historical best-effort check
type DepartmentSubject struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DepartmentID   primitive.ObjectID `bson:"department_id" json:"department_id"`
	SubjectID      primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	AcademicYearID primitive.ObjectID `bson:"academic_year_id" json:"academic_year_id"`

	// SubjectCode denormalized from the subject for listing performance
	SubjectCode string `bson:"subject_code,omitempty" json:"subject_code,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for the junction
func (DepartmentSubject) CollectionName() string {
	return "department_subjects"
}

// BeforeCreate sets default values before inserting a new junction row
func (l *DepartmentSubject) BeforeCreate() {
	now := time.Now().UTC()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.CreatedAt = now
	l.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (l *DepartmentSubject) BeforeUpdate() {
	l.UpdatedAt = time.Now().UTC()
}

// SubjectView is one resolved junction row: the subject enriched with its
// academic year for a particular department binding. A subject linked to the
// same department under two different years yields two views.
type SubjectView struct {
	LinkID         primitive.ObjectID `json:"link_id"`
	SubjectID      primitive.ObjectID `json:"subject_id"`
	Name           string             `json:"name"`
	SubjectCode    string             `json:"subject_code"`
	Semester       string             `json:"semester,omitempty"`
	AcademicYearID primitive.ObjectID `json:"academic_year_id"`
	AcademicYear   *AcademicYear      `json:"academic_year,omitempty"`
}
