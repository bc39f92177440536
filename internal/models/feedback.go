package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for every feedback parameter
const (
	RatingMin = 1
	RatingMax = 5
)

// RatingParameters lists the 16 fixed rating dimensions in report order.
// #INTEGRATION_POINT: The report aggregator and the export renderers iterate
// this slice; its order defines column order in Excel/PDF output
var RatingParameters = []string{
	"coverage_of_syllabus",
	"preparation_for_class",
	"clarity_of_explanation",
	"communication_skills",
	"subject_knowledge",
	"use_of_teaching_aids",
	"pace_of_teaching",
	"encourages_questions",
	"doubt_clarification",
	"notes_and_material",
	"practical_demonstration",
	"class_control",
	"punctuality",
	"motivation_of_students",
	"fairness_in_assessment",
	"overall_effectiveness",
}

// Feedback represents one student's per-subject faculty feedback submission
// #DATA_ASSUMPTION: (student_id, assignment_id) is unique - one submission per pair
// #IMPLEMENTATION_DECISION: IsReleased gates faculty visibility; HODs see everything
type Feedback struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`

	CoverageOfSyllabus     int `bson:"coverage_of_syllabus" json:"coverage_of_syllabus"`
	PreparationForClass    int `bson:"preparation_for_class" json:"preparation_for_class"`
	ClarityOfExplanation   int `bson:"clarity_of_explanation" json:"clarity_of_explanation"`
	CommunicationSkills    int `bson:"communication_skills" json:"communication_skills"`
	SubjectKnowledge       int `bson:"subject_knowledge" json:"subject_knowledge"`
	UseOfTeachingAids      int `bson:"use_of_teaching_aids" json:"use_of_teaching_aids"`
	PaceOfTeaching         int `bson:"pace_of_teaching" json:"pace_of_teaching"`
	EncouragesQuestions    int `bson:"encourages_questions" json:"encourages_questions"`
	DoubtClarification     int `bson:"doubt_clarification" json:"doubt_clarification"`
	NotesAndMaterial       int `bson:"notes_and_material" json:"notes_and_material"`
	PracticalDemonstration int `bson:"practical_demonstration" json:"practical_demonstration"`
	ClassControl           int `bson:"class_control" json:"class_control"`
	Punctuality            int `bson:"punctuality" json:"punctuality"`
	MotivationOfStudents   int `bson:"motivation_of_students" json:"motivation_of_students"`
	FairnessInAssessment   int `bson:"fairness_in_assessment" json:"fairness_in_assessment"`
	OverallEffectiveness   int `bson:"overall_effectiveness" json:"overall_effectiveness"`

	AnySuggestion string `bson:"any_suggestion,omitempty" json:"any_suggestion,omitempty"`
	IsReleased    bool   `bson:"is_released" json:"is_released"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for feedback
func (Feedback) CollectionName() string {
	return "feedbacks"
}

// BeforeCreate sets default values before inserting new feedback
func (f *Feedback) BeforeCreate() {
	now := time.Now().UTC()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = now
	f.UpdatedAt = now
}

// BeforeUpdate sets the UpdatedAt timestamp
func (f *Feedback) BeforeUpdate() {
	f.UpdatedAt = time.Now().UTC()
}

// Ratings returns the 16 rating values in RatingParameters order
func (f *Feedback) Ratings() []int {
	return []int{
		f.CoverageOfSyllabus,
		f.PreparationForClass,
		f.ClarityOfExplanation,
		f.CommunicationSkills,
		f.SubjectKnowledge,
		f.UseOfTeachingAids,
		f.PaceOfTeaching,
		f.EncouragesQuestions,
		f.DoubtClarification,
		f.NotesAndMaterial,
		f.PracticalDemonstration,
		f.ClassControl,
		f.Punctuality,
		f.MotivationOfStudents,
		f.FairnessInAssessment,
		f.OverallEffectiveness,
	}
}

// Validate checks that every rating is within [RatingMin, RatingMax]
func (f *Feedback) Validate() error {
	for _, v := range f.Ratings() {
		if v < RatingMin || v > RatingMax {
			return ErrRatingOutOfRange
		}
	}
	return nil
}

// Release marks the feedback as visible to the faculty member
func (f *Feedback) Release() {
	f.IsReleased = true
	f.UpdatedAt = time.Now().UTC()
}
