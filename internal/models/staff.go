package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff represents a faculty member's departmental record
// #CARDINALITY_ASSUMPTION: User 1:1 Staff for FACULTY/HOD roles
type Staff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	DepartmentID primitive.ObjectID `bson:"department_id" json:"department_id"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for staff
func (Staff) CollectionName() string {
	return "staff"
}

// IsDeleted returns true if the staff record has been soft deleted
func (s *Staff) IsDeleted() bool {
	return s.DeletedAt != nil
}

// BeforeCreate sets default values before inserting a new staff record
func (s *Staff) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Staff) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the staff record as deleted
func (s *Staff) SoftDelete() {
	now := time.Now().UTC()
	s.DeletedAt = &now
	s.UpdatedAt = now
}
