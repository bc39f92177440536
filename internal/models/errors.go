package models

import "errors"

// Model validation and operation errors
var (
	// General errors
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDeleted        = errors.New("user has been deleted")
	ErrUserInactive       = errors.New("user is inactive")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidUserRole    = errors.New("invalid user role")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Department errors
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentDeleted  = errors.New("department has been deleted")
	ErrFeedbackNotActive  = errors.New("feedback collection is not active for this department")

	// Academic year errors
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrAcademicYearExists   = errors.New("academic year already exists")
	ErrAcademicYearRequired = errors.New("academic year could not be resolved")

	// Subject errors
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSubjectAlreadyLinked = errors.New("subject is already linked to this department")
	ErrSubjectNotLinked     = errors.New("subject is not linked to this department")

	// Staff errors
	ErrStaffNotFound     = errors.New("staff member not found")
	ErrStaffNotInDept    = errors.New("staff member does not belong to this department")
	ErrStaffAlreadyExist = errors.New("staff record already exists for this user")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("faculty assignment not found")
	ErrInvalidSemester    = errors.New("invalid semester")

	// Feedback errors
	ErrFeedbackNotFound         = errors.New("feedback not found")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted for this assignment")
	ErrRatingOutOfRange         = errors.New("rating must be between 1 and 5")

	// Suggestion errors
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDepartmentNotFound) ||
		errors.Is(err, ErrAcademicYearNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrSubjectNotLinked) ||
		errors.Is(err, ErrStaffNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrFeedbackNotFound) ||
		errors.Is(err, ErrSuggestionNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidUserRole) ||
		errors.Is(err, ErrInvalidSemester) ||
		errors.Is(err, ErrRatingOutOfRange) ||
		errors.Is(err, ErrAcademicYearRequired)
}

// IsAuthError returns true if the error is an authentication/authorization error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrUserDeleted) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsConflictError returns true if the error is a conflict/duplicate error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrAcademicYearExists) ||
		errors.Is(err, ErrSubjectAlreadyLinked) ||
		errors.Is(err, ErrStaffAlreadyExist) ||
		errors.Is(err, ErrFeedbackAlreadySubmitted)
}
