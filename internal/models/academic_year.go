package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcademicYear represents a global academic year (e.g. "2025-26")
// #DATA_ASSUMPTION: Years are global; the department_subjects junction binds a
// department+subject pair to a specific year
type AcademicYear struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Abbreviation string             `bson:"abbreviation,omitempty" json:"abbreviation,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for academic years
func (AcademicYear) CollectionName() string {
	return "academic_years"
}

// BeforeCreate sets default values before inserting a new academic year
func (y *AcademicYear) BeforeCreate() {
	now := time.Now().UTC()
	if y.ID.IsZero() {
		y.ID = primitive.NewObjectID()
	}
	y.CreatedAt = now
	y.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (y *AcademicYear) BeforeUpdate() {
	y.UpdatedAt = time.Now().UTC()
}
