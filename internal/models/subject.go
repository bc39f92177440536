package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subject represents a master subject record shared across departments
// #DATA_ASSUMPTION: DepartmentID here is legacy/best-effort; the authoritative
// department linkage lives in the department_subjects junction collection
type Subject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	SubjectCode string             `bson:"subject_code" json:"subject_code"`
	Semester    string             `bson:"semester,omitempty" json:"semester,omitempty"`

	// Legacy linkage fields, kept for older readers
	AcademicYearID *primitive.ObjectID `bson:"academic_year_id,omitempty" json:"academic_year_id,omitempty"`
	DepartmentID   *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for subjects
func (Subject) CollectionName() string {
	return "subjects"
}

// IsDeleted returns true if the subject has been soft deleted
func (s *Subject) IsDeleted() bool {
	return s.DeletedAt != nil
}

// BeforeCreate sets default values before inserting a new subject
func (s *Subject) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Subject) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the subject as deleted
func (s *Subject) SoftDelete() {
	now := time.Now().UTC()
	s.DeletedAt = &now
	s.UpdatedAt = now
}
