package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HodSuggestion is the HOD's written remark for one staff member and semester
// #DATA_ASSUMPTION: (staff_id, semester) is unique - later writes replace content
type HodSuggestion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StaffID  primitive.ObjectID `bson:"staff_id" json:"staff_id"`
	Semester string             `bson:"semester" json:"semester"`
	Content  string             `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for HOD suggestions
func (HodSuggestion) CollectionName() string {
	return "hod_suggestions"
}

// BeforeCreate sets default values before inserting a new suggestion
func (s *HodSuggestion) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *HodSuggestion) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}
