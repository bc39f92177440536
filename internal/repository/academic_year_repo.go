package repository

import (
	"context"

	"github.com/campus-tools/feedback_backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAcademicYearRepository implements AcademicYearRepository for MongoDB
type MongoAcademicYearRepository struct {
	collection *mongo.Collection
}

// NewMongoAcademicYearRepository creates a new MongoDB academic year repository
func NewMongoAcademicYearRepository(db *mongo.Database) *MongoAcademicYearRepository {
	return &MongoAcademicYearRepository{
		collection: db.Collection(models.AcademicYear{}.CollectionName()),
	}
}

// Create creates a new academic year
func (r *MongoAcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	year.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, year)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAcademicYearExists
	}
	return err
}

// GetByID finds an academic year by ID
func (r *MongoAcademicYearRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&year)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrAcademicYearNotFound
	}
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// GetByIDs finds academic years by a set of IDs
func (r *MongoAcademicYearRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.AcademicYear, error) {
	if len(ids) == 0 {
		return []models.AcademicYear{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var years []models.AcademicYear
	if err := cursor.All(ctx, &years); err != nil {
		return nil, err
	}
	return years, nil
}

// GetByName finds an academic year by its name, e.g. "2025-26"
func (r *MongoAcademicYearRepository) GetByName(ctx context.Context, name string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&year)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrAcademicYearNotFound
	}
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// List lists all academic years, most recent first
func (r *MongoAcademicYearRepository) List(ctx context.Context) ([]models.AcademicYear, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var years []models.AcademicYear
	if err := cursor.All(ctx, &years); err != nil {
		return nil, err
	}
	return years, nil
}

// Ensure MongoAcademicYearRepository implements AcademicYearRepository
var _ AcademicYearRepository = (*MongoAcademicYearRepository)(nil)
