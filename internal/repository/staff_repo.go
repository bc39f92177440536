package repository

import (
	"context"
	"time"

	"github.com/campus-tools/feedback_backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStaffRepository implements StaffRepository for MongoDB
type MongoStaffRepository struct {
	collection *mongo.Collection
}

// NewMongoStaffRepository creates a new MongoDB staff repository
func NewMongoStaffRepository(db *mongo.Database) *MongoStaffRepository {
	return &MongoStaffRepository{
		collection: db.Collection(models.Staff{}.CollectionName()),
	}
}

// Create creates a new staff record
func (r *MongoStaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	staff.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, staff)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrStaffAlreadyExist
	}
	return err
}

// GetByID finds a staff record by ID
func (r *MongoStaffRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	var staff models.Staff
	filter := bson.M{
		"_id":        id,
		"deleted_at": nil,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByUserID finds the staff record backing a user account
func (r *MongoStaffRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Staff, error) {
	var staff models.Staff
	filter := bson.M{
		"user_id":    userID,
		"deleted_at": nil,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByIDs finds the non-deleted staff records among the given IDs
func (r *MongoStaffRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Staff, error) {
	if len(ids) == 0 {
		return []models.Staff{}, nil
	}
	filter := bson.M{
		"_id":        bson.M{"$in": ids},
		"deleted_at": nil,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var staff []models.Staff
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListByDepartment lists staff records in a department
func (r *MongoStaffRepository) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.Staff, error) {
	filter := bson.M{
		"department_id": departmentID,
		"deleted_at":    nil,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var staff []models.Staff
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// SoftDelete soft deletes a staff record
func (r *MongoStaffRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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
		return models.ErrStaffNotFound
	}
	return nil
}

// Ensure MongoStaffRepository implements StaffRepository
var _ StaffRepository = (*MongoStaffRepository)(nil)
