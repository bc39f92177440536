package repository

import (
	"context"

	"github.com/campus-tools/feedback_backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAssignmentRepository implements AssignmentRepository for MongoDB
// #IMPLEMENTATION_DECISION: Reconciliation is delete-then-insert; both halves
// accept a session context so the service can wrap them in a transaction
type MongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new MongoDB assignment repository
func NewMongoAssignmentRepository(db *mongo.Database) *MongoAssignmentRepository {
	return &MongoAssignmentRepository{
		collection: db.Collection(models.FacultyAssignment{}.CollectionName()),
	}
}

// GetByID finds an assignment by ID
func (r *MongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FacultyAssignment, error) {
	var assignment models.FacultyAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByDepartmentSemester lists assignments for a department and semester,
// optionally scoped to a set of subject IDs
func (r *MongoAssignmentRepository) ListByDepartmentSemester(ctx context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) ([]models.FacultyAssignment, error) {
	filter := bson.M{
		"department_id": departmentID,
		"semester":      semester,
	}
	if subjectIDs != nil {
		filter["subject_id"] = bson.M{"$in": subjectIDs}
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.FacultyAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByStaffSemester lists assignments held by a staff member in a semester
func (r *MongoAssignmentRepository) ListByStaffSemester(ctx context.Context, staffID primitive.ObjectID, semester string) ([]models.FacultyAssignment, error) {
	filter := bson.M{
		"staff_id": staffID,
		"semester": semester,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.FacultyAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByStaff lists all assignments held by a staff member
func (r *MongoAssignmentRepository) ListByStaff(ctx context.Context, staffID primitive.ObjectID) ([]models.FacultyAssignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"staff_id": staffID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.FacultyAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByDepartment lists all assignments in a department across semesters
func (r *MongoAssignmentRepository) ListByDepartment(ctx context.Context, departmentID primitive.ObjectID) ([]models.FacultyAssignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"department_id": departmentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.FacultyAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// InsertMany inserts a batch of assignments and returns the inserted count
func (r *MongoAssignmentRepository) InsertMany(ctx context.Context, assignments []models.FacultyAssignment) (int, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(assignments))
	for i := range assignments {
		assignments[i].BeforeCreate()
		docs = append(docs, assignments[i])
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, models.ErrAlreadyExists
		}
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

// DeleteByDepartmentSemester deletes assignments for (department, semester)
// scoped to the given subject IDs
func (r *MongoAssignmentRepository) DeleteByDepartmentSemester(ctx context.Context, departmentID primitive.ObjectID, semester string, subjectIDs []primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"department_id": departmentID,
		"semester":      semester,
	}
	if subjectIDs != nil {
		filter["subject_id"] = bson.M{"$in": subjectIDs}
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Ensure MongoAssignmentRepository implements AssignmentRepository
var _ AssignmentRepository = (*MongoAssignmentRepository)(nil)
