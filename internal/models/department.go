package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department represents an academic department
// #DATA_ASSUMPTION: Deleting a department does not cascade; referencing records
// (staff, junction rows, assignments) must be cleaned up explicitly
type Department struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Abbreviation string              `bson:"abbreviation" json:"abbreviation"`
	HodID        *primitive.ObjectID `bson:"hod_id,omitempty" json:"hod_id,omitempty"`

	// IsFeedbackActive gates student feedback submission for the whole department
	IsFeedbackActive bool `bson:"is_feedback_active" json:"is_feedback_active"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for departments
func (Department) CollectionName() string {
	return "departments"
}

// IsDeleted returns true if the department has been soft deleted
func (d *Department) IsDeleted() bool {
	return d.DeletedAt != nil
}

// BeforeCreate sets default values before inserting a new department
func (d *Department) BeforeCreate() {
	now := time.Now().UTC()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.CreatedAt = now
	d.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (d *Department) BeforeUpdate() {
	d.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the department as deleted
func (d *Department) SoftDelete() {
	now := time.Now().UTC()
	d.DeletedAt = &now
	d.UpdatedAt = now
}
