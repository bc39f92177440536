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

// MongoFeedbackRepository implements FeedbackRepository for MongoDB
// #DATA_ASSUMPTION: The unique (student_id, assignment_id) index is the source
// of truth for one-submission-per-task; the Exists check is a fast path only
type MongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new MongoDB feedback repository
func NewMongoFeedbackRepository(db *mongo.Database) *MongoFeedbackRepository {
	return &MongoFeedbackRepository{
		collection: db.Collection(models.Feedback{}.CollectionName()),
	}
}

// Create creates a feedback submission
func (r *MongoFeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	fb.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, fb)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrFeedbackAlreadySubmitted
	}
	return err
}

// ListByAssignment lists feedback for an assignment, optionally released only
func (r *MongoFeedbackRepository) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID, releasedOnly bool) ([]models.Feedback, error) {
	filter := bson.M{"assignment_id": assignmentID}
	if releasedOnly {
		filter["is_released"] = true
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// ExistsForStudentAssignment reports whether a student already submitted for an assignment
func (r *MongoFeedbackRepository) ExistsForStudentAssignment(ctx context.Context, studentID, assignmentID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"student_id":    studentID,
		"assignment_id": assignmentID,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListStudentAssignmentIDs lists the assignment IDs a student has submitted for
func (r *MongoFeedbackRepository) ListStudentAssignmentIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"student_id": studentID}
	projection := options.Find().SetProjection(bson.M{"assignment_id": 1})

	cursor, err := r.collection.Find(ctx, filter, projection)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		AssignmentID primitive.ObjectID `bson:"assignment_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.AssignmentID)
	}
	return ids, nil
}

// ReleaseByAssignments marks all feedback for the given assignments as released
func (r *MongoFeedbackRepository) ReleaseByAssignments(ctx context.Context, assignmentIDs []primitive.ObjectID) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"assignment_id": bson.M{"$in": assignmentIDs},
		"is_released":   false,
	}
	update := bson.M{
		"$set": bson.M{
			"is_released": true,
			"updated_at":  time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Ensure MongoFeedbackRepository implements FeedbackRepository
var _ FeedbackRepository = (*MongoFeedbackRepository)(nil)
