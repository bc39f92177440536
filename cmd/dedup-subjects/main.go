// Package main provides a CLI tool to merge duplicate subject records.
// Subjects whose names normalize to the same key are collapsed onto the
// oldest record, junction rows and assignments are repointed, and the
// duplicates are soft deleted.
// Usage: go run cmd/dedup-subjects/main.go -dry-run
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
)

func main() {
	// Define command line flags
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")
	dryRun := flag.Bool("dry-run", false, "Report duplicate groups without modifying the database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Merges subjects whose names differ only in case, spacing or punctuation.\n")
		fmt.Fprintf(os.Stderr, "The oldest record in each group survives, department links and faculty\n")
		fmt.Fprintf(os.Stderr, "assignments are repointed, and the duplicates are soft deleted.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  FEEDBACK_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  FEEDBACK_DATABASE_NAME  Database name (default: feedback_portal)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Load database configuration from environment
	dbURI := os.Getenv("FEEDBACK_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: FEEDBACK_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("FEEDBACK_DATABASE_NAME")
	if dbName == "" {
		dbName = "feedback_portal"
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	// Ping database
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)
	subjectColl := db.Collection(models.Subject{}.CollectionName())
	linkColl := db.Collection(models.DepartmentSubject{}.CollectionName())
	assignmentColl := db.Collection(models.FacultyAssignment{}.CollectionName())

	// Load every live subject and group by normalized name
	cursor, err := subjectColl.Find(ctx, bson.M{"deleted_at": nil})
	if err != nil {
		log.Fatalf("Failed to list subjects: %v", err)
	}
	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		log.Fatalf("Failed to decode subjects: %v", err)
	}

	groups := make(map[string][]models.Subject)
	for _, s := range subjects {
		key := normalize.SubjectKey(s.Name)
		groups[key] = append(groups[key], s)
	}

	keys := make([]string, 0, len(groups))
	for key, group := range groups {
		if len(group) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		fmt.Println("No duplicate subjects found")
		return
	}

	merged := 0
	for _, key := range keys {
		group := groups[key]

		// Oldest record survives so existing references stay stable
		sort.Slice(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		survivor := group[0]
		duplicates := group[1:]

		fmt.Printf("=== %q (%d duplicates) ===\n", survivor.Name, len(duplicates))
		fmt.Printf("  keep %s (created %s)\n", survivor.ID.Hex(), survivor.CreatedAt.Format(time.RFC3339))

		for _, dup := range duplicates {
			fmt.Printf("  merge %s %q\n", dup.ID.Hex(), dup.Name)
			if *dryRun {
				continue
			}

			// Legacy writers stored subject_id as a typed ObjectID, a hex
			// string or a single-element array, so match all three forms
			// and resolve each raw document through the id normalizer
			subjectIDForms := bson.M{"$in": bson.A{dup.ID, dup.ID.Hex(), bson.A{dup.ID}, bson.A{dup.ID.Hex()}}}

			// Repoint junction rows one at a time so a department already
			// linked to the survivor just loses the duplicate link
			linkCursor, err := linkColl.Find(ctx, bson.M{"subject_id": subjectIDForms})
			if err != nil {
				log.Fatalf("Failed to list links for subject %s: %v", dup.ID.Hex(), err)
			}
			var rawLinks []bson.M
			if err := linkCursor.All(ctx, &rawLinks); err != nil {
				log.Fatalf("Failed to decode links for subject %s: %v", dup.ID.Hex(), err)
			}
			for _, raw := range rawLinks {
				linkID, ok := normalize.ObjectID(raw["_id"])
				if !ok {
					fmt.Printf("    skipped link with unparsable _id %v\n", raw["_id"])
					continue
				}
				_, err := linkColl.UpdateOne(ctx,
					bson.M{"_id": linkID},
					bson.M{"$set": bson.M{"subject_id": survivor.ID, "updated_at": time.Now().UTC()}},
				)
				if mongo.IsDuplicateKeyError(err) {
					// The department already links the survivor, drop this row
					if _, delErr := linkColl.DeleteOne(ctx, bson.M{"_id": linkID}); delErr != nil {
						log.Fatalf("Failed to drop redundant link %s: %v", linkID.Hex(), delErr)
					}
					fmt.Printf("    dropped redundant link for department %s\n", normalize.ID(raw["department_id"]))
					continue
				}
				if err != nil {
					log.Fatalf("Failed to repoint link %s: %v", linkID.Hex(), err)
				}
			}

			// Repoint assignments in bulk, duplicates are tolerated here
			// because a staff member rated under both names keeps one row each
			if _, err := assignmentColl.UpdateMany(ctx,
				bson.M{"subject_id": subjectIDForms},
				bson.M{"$set": bson.M{"subject_id": survivor.ID, "updated_at": time.Now().UTC()}},
			); err != nil {
				log.Fatalf("Failed to repoint assignments for subject %s: %v", dup.ID.Hex(), err)
			}

			// Soft delete the duplicate subject
			now := time.Now().UTC()
			if _, err := subjectColl.UpdateOne(ctx,
				bson.M{"_id": dup.ID},
				bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}},
			); err != nil {
				log.Fatalf("Failed to soft delete subject %s: %v", dup.ID.Hex(), err)
			}
			merged++
		}
	}

	if *dryRun {
		fmt.Println()
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	fmt.Println()
	fmt.Printf("Merged %d duplicate subjects\n", merged)
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		// Try to find .env in current dir or backend dir
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		} else if _, err := os.Stat(filepath.Join(cwd, "backend", ".env")); err == nil {
			path = filepath.Join(cwd, "backend", ".env")
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}
}
