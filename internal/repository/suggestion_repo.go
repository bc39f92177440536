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

// MongoSuggestionRepository implements SuggestionRepository for MongoDB
type MongoSuggestionRepository struct {
	collection *mongo.Collection
}

// NewMongoSuggestionRepository creates a new MongoDB suggestion repository
func NewMongoSuggestionRepository(db *mongo.Database) *MongoSuggestionRepository {
	return &MongoSuggestionRepository{
		collection: db.Collection(models.HodSuggestion{}.CollectionName()),
	}
}

// Upsert creates or replaces the suggestion for a (staff, semester) pair
// #IMPLEMENTATION_DECISION: Upsert keyed on the unique (staff_id, semester)
// index; resubmitting overwrites the previous note rather than erroring
func (r *MongoSuggestionRepository) Upsert(ctx context.Context, suggestion *models.HodSuggestion) error {
	now := time.Now().UTC()
	filter := bson.M{
		"staff_id": suggestion.StaffID,
		"semester": suggestion.Semester,
	}
	update := bson.M{
		"$set": bson.M{
			"content":    suggestion.Content,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"staff_id":   suggestion.StaffID,
			"semester":   suggestion.Semester,
			"created_at": now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByStaffSemester finds the suggestion for a (staff, semester) pair
func (r *MongoSuggestionRepository) GetByStaffSemester(ctx context.Context, staffID primitive.ObjectID, semester string) (*models.HodSuggestion, error) {
	var suggestion models.HodSuggestion
	filter := bson.M{
		"staff_id": staffID,
		"semester": semester,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&suggestion)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSuggestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// Ensure MongoSuggestionRepository implements SuggestionRepository
var _ SuggestionRepository = (*MongoSuggestionRepository)(nil)
