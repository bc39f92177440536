package repository

import (
	"context"

	"github.com/campus-tools/feedback_backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDepartmentSubjectRepository implements DepartmentSubjectRepository for MongoDB
// #IMPLEMENTATION_DECISION: A unique compound index on (department_id, subject_id)
// enforces at most one link per pair; duplicate inserts surface as ErrSubjectAlreadyLinked
type MongoDepartmentSubjectRepository struct {
	collection *mongo.Collection
}

// NewMongoDepartmentSubjectRepository creates a new MongoDB department-subject repository
func NewMongoDepartmentSubjectRepository(db *mongo.Database) *MongoDepartmentSubjectRepository {
	return &MongoDepartmentSubjectRepository{
		collection: db.Collection(models.DepartmentSubject{}.CollectionName()),
	}
}

// Create creates a department-subject link
func (r *MongoDepartmentSubjectRepository) Create(ctx context.Context, link *models.DepartmentSubject) error {
	link.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, link)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrSubjectAlreadyLinked
	}
	return err
}

// GetByDepartment lists all links for a department
func (r *MongoDepartmentSubjectRepository) GetByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.DepartmentSubject, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"department_id": departmentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.DepartmentSubject
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// GetByDepartmentAndSubject finds the link for a (department, subject) pair
func (r *MongoDepartmentSubjectRepository) GetByDepartmentAndSubject(ctx context.Context, departmentID, subjectID primitive.ObjectID) (*models.DepartmentSubject, error) {
	var link models.DepartmentSubject
	filter := bson.M{
		"department_id": departmentID,
		"subject_id":    subjectID,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSubjectNotLinked
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListBySubject lists all links pointing at a subject
func (r *MongoDepartmentSubjectRepository) ListBySubject(ctx context.Context, subjectID primitive.ObjectID) ([]models.DepartmentSubject, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"subject_id": subjectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.DepartmentSubject
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// Update updates a link, used to repoint stale junction rows
func (r *MongoDepartmentSubjectRepository) Update(ctx context.Context, link *models.DepartmentSubject) error {
	link.BeforeUpdate()
	update := bson.M{"$set": link}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": link.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrSubjectAlreadyLinked
		}
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSubjectNotLinked
	}
	return nil
}

// Delete hard deletes a link by ID
func (r *MongoDepartmentSubjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrSubjectNotLinked
	}
	return nil
}

// DeleteByDepartmentAndSubject hard deletes the link for a (department, subject) pair
func (r *MongoDepartmentSubjectRepository) DeleteByDepartmentAndSubject(ctx context.Context, departmentID, subjectID primitive.ObjectID) error {
	filter := bson.M{
		"department_id": departmentID,
		"subject_id":    subjectID,
	}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrSubjectNotLinked
	}
	return nil
}

// Ensure MongoDepartmentSubjectRepository implements DepartmentSubjectRepository
var _ DepartmentSubjectRepository = (*MongoDepartmentSubjectRepository)(nil)
