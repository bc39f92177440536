// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/campus-tools/feedback_backend/internal/database"
)

// NewUserRepository creates a new user repository using our database client
func NewUserRepository(client *database.Client) UserRepository {
	return NewMongoUserRepository(client.Database())
}

// NewDepartmentRepository creates a new department repository using our database client
func NewDepartmentRepository(client *database.Client) DepartmentRepository {
	return NewMongoDepartmentRepository(client.Database())
}

// NewAcademicYearRepository creates a new academic year repository
func NewAcademicYearRepository(client *database.Client) AcademicYearRepository {
	return NewMongoAcademicYearRepository(client.Database())
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(client *database.Client) SubjectRepository {
	return NewMongoSubjectRepository(client.Database())
}

// NewDepartmentSubjectRepository creates a new department-subject link repository
func NewDepartmentSubjectRepository(client *database.Client) DepartmentSubjectRepository {
	return NewMongoDepartmentSubjectRepository(client.Database())
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(client *database.Client) StaffRepository {
	return NewMongoStaffRepository(client.Database())
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(client *database.Client) AssignmentRepository {
	return NewMongoAssignmentRepository(client.Database())
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(client *database.Client) FeedbackRepository {
	return NewMongoFeedbackRepository(client.Database())
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(client *database.Client) SuggestionRepository {
	return NewMongoSuggestionRepository(client.Database())
}
