package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rs/zerolog/log"
)

// IndexManager handles MongoDB index creation and management
// #INDEX_IMPLEMENTATION: Uniqueness invariants from the data model are
// enforced here rather than best-effort in application code
type IndexManager struct {
	db *mongo.Database
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *mongo.Database) *IndexManager {
	return &IndexManager{db: db}
}

// CreateAllIndexes creates all indexes for all collections
// #MIGRATION_DECISION: Indexes created at application startup if they don't exist
func (m *IndexManager) CreateAllIndexes(ctx context.Context) error {
	log.Info().Msg("Creating MongoDB indexes...")

	if err := m.createUserIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	if err := m.createDepartmentIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create department indexes: %w", err)
	}
	if err := m.createSubjectIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create subject indexes: %w", err)
	}
	if err := m.createDepartmentSubjectIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create junction indexes: %w", err)
	}
	if err := m.createStaffIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create staff indexes: %w", err)
	}
	if err := m.createAssignmentIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create assignment indexes: %w", err)
	}
	if err := m.createFeedbackIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}
	if err := m.createSuggestionIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create suggestion indexes: %w", err)
	}

	log.Info().Msg("MongoDB indexes ready")
	return nil
}

func (m *IndexManager) createUserIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionUsers, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "role", Value: 1}},
		},
	})
}

func (m *IndexManager) createDepartmentIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionDepartments, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "abbreviation", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
}

func (m *IndexManager) createSubjectIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionSubjects, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "subject_code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	})
}

func (m *IndexManager) createDepartmentSubjectIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionDepartmentSubjects, []mongo.IndexModel{
		{
			// The junction tuple invariant: one link per department+subject
			Keys:    bson.D{{Key: "department_id", Value: 1}, {Key: "subject_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "subject_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "academic_year_id", Value: 1}},
		},
	})
}

func (m *IndexManager) createStaffIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionStaff, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "department_id", Value: 1}},
		},
	})
}

func (m *IndexManager) createAssignmentIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionFacultyAssignments, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "staff_id", Value: 1},
				{Key: "subject_id", Value: 1},
				{Key: "semester", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "department_id", Value: 1}, {Key: "semester", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "staff_id", Value: 1}, {Key: "semester", Value: 1}},
		},
	})
}

func (m *IndexManager) createFeedbackIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionFeedbacks, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "assignment_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "assignment_id", Value: 1}, {Key: "is_released", Value: 1}},
		},
	})
}

func (m *IndexManager) createSuggestionIndexes(ctx context.Context) error {
	return m.create(ctx, CollectionHodSuggestions, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "staff_id", Value: 1}, {Key: "semester", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

func (m *IndexManager) create(ctx context.Context, collection string, models []mongo.IndexModel) error {
	_, err := m.db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("collection %s: %w", collection, err)
	}
	return nil
}
