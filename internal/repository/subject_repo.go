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

// MongoSubjectRepository implements SubjectRepository for MongoDB
type MongoSubjectRepository struct {
	collection *mongo.Collection
}

// NewMongoSubjectRepository creates a new MongoDB subject repository
func NewMongoSubjectRepository(db *mongo.Database) *MongoSubjectRepository {
	return &MongoSubjectRepository{
		collection: db.Collection(models.Subject{}.CollectionName()),
	}
}

// Create creates a new subject
func (r *MongoSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	subject.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, subject)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadyExists
	}
	return err
}

// GetByID finds a subject by ID
func (r *MongoSubjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Subject, error) {
	var subject models.Subject
	filter := bson.M{
		"_id":        id,
		"deleted_at": nil,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&subject)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// GetByIDs finds the non-deleted subjects among the given IDs
// #DATA_ASSUMPTION: Stale junction rows may point at deleted subjects; callers
// treat ids missing from the result as skippable rather than fatal
func (r *MongoSubjectRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Subject, error) {
	if len(ids) == 0 {
		return []models.Subject{}, nil
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

	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// FindByCode finds a subject by its subject code
func (r *MongoSubjectRepository) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	var subject models.Subject
	filter := bson.M{
		"subject_code": code,
		"deleted_at":   nil,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&subject)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// List lists all subjects sorted by name
func (r *MongoSubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	filter := bson.M{"deleted_at": nil}
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// Update updates a subject
func (r *MongoSubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.BeforeUpdate()
	filter := bson.M{
		"_id":        subject.ID,
		"deleted_at": nil,
	}
	update := bson.M{"$set": subject}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSubjectNotFound
	}
	return nil
}

// SoftDelete soft deletes a subject
func (r *MongoSubjectRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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
		return models.ErrSubjectNotFound
	}
	return nil
}

// Ensure MongoSubjectRepository implements SubjectRepository
var _ SubjectRepository = (*MongoSubjectRepository)(nil)
