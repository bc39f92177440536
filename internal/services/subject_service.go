// Package services provides business logic implementations.
// #IMPLEMENTATION_DECISION: Services orchestrate repositories and external services
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// SubjectService resolves department-subject membership through the junction
// collection and manages subject linking.
// #INTEGRATION_POINT: Used by the subject handler and by the assignment reconciler
type SubjectService interface {
	// FindSubjectsForDepartment returns one view per junction row for the
	// department, joined with subject and academic year data, sorted by
	// subject name ascending case-insensitive
	FindSubjectsForDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.SubjectView, error)

	// LinkedSubjectIDs returns the distinct subject ids currently linked to
	// the department
	LinkedSubjectIDs(ctx context.Context, departmentID primitive.ObjectID) ([]primitive.ObjectID, error)

	// CreateOrLink reuses an existing subject with the same code, or with a
	// matching normalized name, before creating a fresh master record; either
	// way it links the subject to the department for the academic year
	CreateOrLink(ctx context.Context, departmentID primitive.ObjectID, input CreateSubjectInput) (*models.SubjectView, error)

	// Unlink removes the department-subject junction row. The master subject
	// record survives; other departments sharing it are unaffected
	Unlink(ctx context.Context, departmentID, subjectID primitive.ObjectID) error
}

// CreateSubjectInput is the payload for creating or linking a subject
type CreateSubjectInput struct {
	Name           string             `json:"name" binding:"required"`
	SubjectCode    string             `json:"subject_code" binding:"required"`
	Semester       string             `json:"semester"`
	AcademicYearID primitive.ObjectID `json:"academic_year_id" binding:"required"`
}

// subjectService implements SubjectService
type subjectService struct {
	subjectRepo repository.SubjectRepository
	linkRepo    repository.DepartmentSubjectRepository
	yearRepo    repository.AcademicYearRepository
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	linkRepo repository.DepartmentSubjectRepository,
	yearRepo repository.AcademicYearRepository,
) SubjectService {
	return &subjectService{
		subjectRepo: subjectRepo,
		linkRepo:    linkRepo,
		yearRepo:    yearRepo,
	}
}

// FindSubjectsForDepartment resolves junction rows into subject views.
// Two batch fetches plus an in-memory join, never N+1 queries.
// #DATA_ASSUMPTION: Junction rows whose subject was soft deleted are dropped
// silently; a department with zero rows yields an empty slice, not an error
func (s *subjectService) FindSubjectsForDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.SubjectView, error) {
	links, err := s.linkRepo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department subjects: %w", err)
	}
	if len(links) == 0 {
		return []models.SubjectView{}, nil
	}

	subjectIDs := make([]primitive.ObjectID, 0, len(links))
	yearIDs := make([]primitive.ObjectID, 0, len(links))
	seenSubjects := make(map[primitive.ObjectID]bool, len(links))
	seenYears := make(map[primitive.ObjectID]bool, len(links))
	for _, link := range links {
		if !seenSubjects[link.SubjectID] {
			seenSubjects[link.SubjectID] = true
			subjectIDs = append(subjectIDs, link.SubjectID)
		}
		if !link.AcademicYearID.IsZero() && !seenYears[link.AcademicYearID] {
			seenYears[link.AcademicYearID] = true
			yearIDs = append(yearIDs, link.AcademicYearID)
		}
	}

	subjects, err := s.subjectRepo.GetByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	years, err := s.yearRepo.GetByIDs(ctx, yearIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load academic years: %w", err)
	}

	subjectsByID := make(map[primitive.ObjectID]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectsByID[subject.ID] = subject
	}
	yearsByID := make(map[primitive.ObjectID]models.AcademicYear, len(years))
	for _, year := range years {
		yearsByID[year.ID] = year
	}

	views := make([]models.SubjectView, 0, len(links))
	for _, link := range links {
		subject, ok := subjectsByID[link.SubjectID]
		if !ok {
			continue
		}
		view := models.SubjectView{
			LinkID:         link.ID,
			SubjectID:      subject.ID,
			Name:           subject.Name,
			SubjectCode:    subject.SubjectCode,
			Semester:       subject.Semester,
			AcademicYearID: link.AcademicYearID,
		}
		if year, ok := yearsByID[link.AcademicYearID]; ok {
			y := year
			view.AcademicYear = &y
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return strings.ToLower(views[i].Name) < strings.ToLower(views[j].Name)
	})

	return views, nil
}

// LinkedSubjectIDs returns the distinct subject ids linked to a department
func (s *subjectService) LinkedSubjectIDs(ctx context.Context, departmentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	links, err := s.linkRepo.GetByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department subjects: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(links))
	seen := make(map[primitive.ObjectID]bool, len(links))
	for _, link := range links {
		if !seen[link.SubjectID] {
			seen[link.SubjectID] = true
			ids = append(ids, link.SubjectID)
		}
	}
	return ids, nil
}

// CreateOrLink reuses or creates a master subject and links it to the department
// #IMPLEMENTATION_DECISION: Subject reuse matches on subject code first, then on
// the normalized name key, so re-posting a shared subject links rather than forks
func (s *subjectService) CreateOrLink(ctx context.Context, departmentID primitive.ObjectID, input CreateSubjectInput) (*models.SubjectView, error) {
	if input.AcademicYearID.IsZero() {
		return nil, models.ErrAcademicYearRequired
	}
	year, err := s.yearRepo.GetByID(ctx, input.AcademicYearID)
	if err != nil {
		return nil, err
	}

	subject, err := s.findReusableSubject(ctx, input)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		subject = &models.Subject{
			Name:        strings.TrimSpace(input.Name),
			SubjectCode: strings.TrimSpace(input.SubjectCode),
			Semester:    input.Semester,
		}
		if err := s.subjectRepo.Create(ctx, subject); err != nil {
			return nil, fmt.Errorf("failed to create subject: %w", err)
		}
	}

	link := &models.DepartmentSubject{
		DepartmentID:   departmentID,
		SubjectID:      subject.ID,
		AcademicYearID: year.ID,
		SubjectCode:    subject.SubjectCode,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	view := &models.SubjectView{
		LinkID:         link.ID,
		SubjectID:      subject.ID,
		Name:           subject.Name,
		SubjectCode:    subject.SubjectCode,
		Semester:       subject.Semester,
		AcademicYearID: year.ID,
		AcademicYear:   year,
	}
	return view, nil
}

// findReusableSubject looks for an existing master record matching the input
func (s *subjectService) findReusableSubject(ctx context.Context, input CreateSubjectInput) (*models.Subject, error) {
	code := strings.TrimSpace(input.SubjectCode)
	if code != "" {
		subject, err := s.subjectRepo.FindByCode(ctx, code)
		if err == nil {
			return subject, nil
		}
		if !models.IsNotFoundError(err) {
			return nil, err
		}
	}

	key := normalize.SubjectKey(input.Name)
	if key == "" {
		return nil, nil
	}
	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if normalize.SubjectKey(subjects[i].Name) == key {
			return &subjects[i], nil
		}
	}
	return nil, nil
}

// Unlink removes the junction row for a (department, subject) pair
func (s *subjectService) Unlink(ctx context.Context, departmentID, subjectID primitive.ObjectID) error {
	return s.linkRepo.DeleteByDepartmentAndSubject(ctx, departmentID, subjectID)
}
