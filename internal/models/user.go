package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole represents the role of a portal user
// #IMPLEMENTATION_DECISION: UPPERCASE in Go code, lowercase in JSON serialization
type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleFaculty UserRole = "FACULTY"
	UserRoleHOD     UserRole = "HOD"
	UserRoleAdmin   UserRole = "ADMIN"
)

// MarshalJSON converts UserRole to lowercase for JSON serialization
func (ur UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ur)))
}

// UnmarshalJSON converts lowercase JSON to UserRole
func (ur *UserRole) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ur = UserRole(strings.ToUpper(s))
	return nil
}

// IsValid checks if the UserRole is a valid value
func (ur UserRole) IsValid() bool {
	switch ur {
	case UserRoleStudent, UserRoleFaculty, UserRoleHOD, UserRoleAdmin:
		return true
	}
	return false
}

// IsStaffRole returns true for roles backed by a Staff record
func (ur UserRole) IsStaffRole() bool {
	return ur == UserRoleFaculty || ur == UserRoleHOD
}

// User represents a portal account
// #DATA_ASSUMPTION: Email is unique across the entire system
// #CARDINALITY_ASSUMPTION: Department 1:N Users - students and staff belong to one department
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	Name         string              `bson:"name,omitempty" json:"name,omitempty"`
	Role         UserRole            `bson:"role" json:"role"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`

	// Status
	IsActive    bool       `bson:"is_active" json:"is_active"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for users
func (User) CollectionName() string {
	return "users"
}

// IsDeleted returns true if the user has been soft deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// BeforeCreate sets default values before inserting a new user
func (u *User) BeforeCreate() {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true
}

// BeforeUpdate sets the UpdatedAt timestamp
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the user as deleted and inactive
func (u *User) SoftDelete() {
	now := time.Now().UTC()
	u.DeletedAt = &now
	u.UpdatedAt = now
	u.IsActive = false
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// CanManageDepartment returns true if the user may administer department data
func (u *User) CanManageDepartment() bool {
	return (u.Role == UserRoleHOD || u.Role == UserRoleAdmin) && u.IsActive && !u.IsDeleted()
}

// CanSubmitFeedback returns true if the user may submit feedback
func (u *User) CanSubmitFeedback() bool {
	return u.Role == UserRoleStudent && u.IsActive && !u.IsDeleted()
}
