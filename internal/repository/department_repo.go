package repository

import (
	"context"
	"time"

	"github.com/campus-tools/feedback_backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDepartmentRepository implements DepartmentRepository for MongoDB
type MongoDepartmentRepository struct {
	collection *mongo.Collection
}

// NewMongoDepartmentRepository creates a new MongoDB department repository
func NewMongoDepartmentRepository(db *mongo.Database) *MongoDepartmentRepository {
	return &MongoDepartmentRepository{
		collection: db.Collection(models.Department{}.CollectionName()),
	}
}

// Create creates a new department
func (r *MongoDepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	dept.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, dept)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadyExists
	}
	return err
}

// GetByID finds a department by ID
func (r *MongoDepartmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var dept models.Department
	filter := bson.M{
		"_id":        id,
		"deleted_at": nil,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&dept)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// List lists all departments sorted by name
func (r *MongoDepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	filter := bson.M{"deleted_at": nil}
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var depts []models.Department
	if err := cursor.All(ctx, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// Update updates a department
func (r *MongoDepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	dept.BeforeUpdate()
	filter := bson.M{
		"_id":        dept.ID,
		"deleted_at": nil,
	}
	update := bson.M{"$set": dept}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyExists
		}
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrDepartmentNotFound
	}
	return nil
}

// SoftDelete soft deletes a department
func (r *MongoDepartmentRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	filter := bson.M{
		"_id":        id,
		"deleted_at": nil,
	}
	update := bson.M{
		"$set": bson.M{
			"deleted_at": now,
			"updated_at": now,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrDepartmentNotFound
	}
	return nil
}

// SetFeedbackActive toggles the feedback collection window for a department
func (r *MongoDepartmentRepository) SetFeedbackActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	filter := bson.M{
		"_id":        id,
		"deleted_at": nil,
	}
	update := bson.M{
		"$set": bson.M{
			"is_feedback_active": active,
			"updated_at":         time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrDepartmentNotFound
	}
	return nil
}

// Ensure MongoDepartmentRepository implements DepartmentRepository
var _ DepartmentRepository = (*MongoDepartmentRepository)(nil)
