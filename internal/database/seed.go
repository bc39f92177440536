package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rs/zerolog/log"

	"github.com/campus-tools/feedback_backend/internal/models"
)

// Seeder handles database seeding operations
// #SEED_DATA: Current and next academic years so junction rows can always
// resolve a year on a fresh deployment
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Info().Msg("Starting database seeding...")

	if err := s.SeedAcademicYears(ctx); err != nil {
		return fmt.Errorf("failed to seed academic years: %w", err)
	}

	log.Info().Msg("Database seeding completed")
	return nil
}

// SeedAcademicYears inserts the current and next academic year if the
// collection is empty. Idempotent.
func (s *Seeder) SeedAcademicYears(ctx context.Context) error {
	collection := s.db.Collection(models.AcademicYear{}.CollectionName())

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("Academic years already exist, skipping seeding")
		return nil
	}

	start := time.Now().UTC().Year()
	years := []models.AcademicYear{
		{Name: yearName(start), Abbreviation: fmt.Sprintf("AY%d", start)},
		{Name: yearName(start + 1), Abbreviation: fmt.Sprintf("AY%d", start+1)},
	}

	docs := make([]interface{}, len(years))
	for i := range years {
		years[i].BeforeCreate()
		docs[i] = years[i]
	}

	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return err
	}

	log.Info().Int("count", len(years)).Msg("Seeded academic years")
	return nil
}

func yearName(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
