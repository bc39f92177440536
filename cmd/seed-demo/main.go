// Package main provides a CLI tool to create a department with its HOD account.
// Usage: go run cmd/seed-demo/main.go -dept "Computer Engineering" -abbr CO -email "hod@college.edu" -password "secret"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/services"
)

func main() {
	// Define command line flags
	deptName := flag.String("dept", "", "Department name (required)")
	abbr := flag.String("abbr", "", "Department abbreviation (required)")
	email := flag.String("email", "", "HOD user email (required)")
	password := flag.String("password", "", "HOD password (required)")
	hodName := flag.String("hod-name", "", "HOD display name (optional)")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir or backend dir)")
	dryRun := flag.Bool("dry-run", false, "Print what would be created without writing to database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Creates a department with its HOD account in the feedback portal database.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n")
		fmt.Fprintf(os.Stderr, "Environment variables take precedence over .env file values.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  FEEDBACK_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  FEEDBACK_DATABASE_NAME  Database name (default: feedback_portal)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -dept \"Computer Engineering\" -abbr CO -email \"hod.co@college.edu\" -password \"secret\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -dept \"Civil Engineering\" -abbr CE -email \"hod.ce@college.edu\" -password \"secret\" -dry-run\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	// Validate required flags
	if *deptName == "" {
		log.Fatal("Error: -dept is required")
	}
	if *abbr == "" {
		log.Fatal("Error: -abbr is required")
	}
	if *email == "" {
		log.Fatal("Error: -email is required")
	}
	if *password == "" {
		log.Fatal("Error: -password is required")
	}

	// Validate email format
	if !isValidEmail(*email) {
		log.Fatalf("Error: invalid email format: %s", *email)
	}

	// Load database configuration from environment
	dbURI := os.Getenv("FEEDBACK_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: FEEDBACK_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("FEEDBACK_DATABASE_NAME")
	if dbName == "" {
		dbName = "feedback_portal"
	}

	passwordHash, err := services.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Create department, user and staff objects
	now := time.Now().UTC()
	deptID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	staffID := primitive.NewObjectID()

	dept := &models.Department{
		ID:           deptID,
		Name:         *deptName,
		Abbreviation: *abbr,
		HodID:        &userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user := &models.User{
		ID:           userID,
		Email:        *email,
		PasswordHash: passwordHash,
		Name:         *hodName,
		Role:         models.UserRoleHOD,
		DepartmentID: &deptID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// HODs also teach, so they get a staff record and can be assigned subjects
	staff := &models.Staff{
		ID:           staffID,
		UserID:       userID,
		DepartmentID: deptID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Print what will be created
	fmt.Println("=== Department ===")
	fmt.Printf("  ID:           %s\n", dept.ID.Hex())
	fmt.Printf("  Name:         %s\n", dept.Name)
	fmt.Printf("  Abbreviation: %s\n", dept.Abbreviation)
	fmt.Println()
	fmt.Println("=== HOD User ===")
	fmt.Printf("  ID:            %s\n", user.ID.Hex())
	fmt.Printf("  Email:         %s\n", user.Email)
	fmt.Printf("  Name:          %s\n", user.Name)
	fmt.Printf("  Role:          %s\n", user.Role)
	fmt.Printf("  Department ID: %s\n", deptID.Hex())
	fmt.Printf("  Staff ID:      %s\n", staff.ID.Hex())
	fmt.Println()

	if *dryRun {
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	// Check if department with same name already exists
	deptCollection := db.Collection(models.Department{}.CollectionName())
	var existingDept models.Department
	err = deptCollection.FindOne(ctx, bson.M{"name": dept.Name, "deleted_at": nil}).Decode(&existingDept)
	if err == nil {
		log.Fatalf("Error: department '%s' already exists (ID: %s)", dept.Name, existingDept.ID.Hex())
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Error checking existing department: %v", err)
	}

	// Check if user with same email already exists
	userCollection := db.Collection(models.User{}.CollectionName())
	var existingUser models.User
	err = userCollection.FindOne(ctx, bson.M{"email": user.Email, "deleted_at": nil}).Decode(&existingUser)
	if err == nil {
		log.Fatalf("Error: user with email '%s' already exists (ID: %s)", user.Email, existingUser.ID.Hex())
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Error checking existing user: %v", err)
	}

	// Insert department
	_, err = deptCollection.InsertOne(ctx, dept)
	if err != nil {
		log.Fatalf("Failed to create department: %v", err)
	}
	fmt.Printf("✓ Created department: %s (%s)\n", dept.Name, dept.ID.Hex())

	// Insert user
	_, err = userCollection.InsertOne(ctx, user)
	if err != nil {
		// Rollback: delete the department
		_, _ = deptCollection.DeleteOne(ctx, bson.M{"_id": dept.ID})
		log.Fatalf("Failed to create user (department rolled back): %v", err)
	}
	fmt.Printf("✓ Created HOD user: %s (%s)\n", user.Email, user.ID.Hex())

	// Insert staff record
	staffCollection := db.Collection(models.Staff{}.CollectionName())
	_, err = staffCollection.InsertOne(ctx, staff)
	if err != nil {
		_, _ = userCollection.DeleteOne(ctx, bson.M{"_id": user.ID})
		_, _ = deptCollection.DeleteOne(ctx, bson.M{"_id": dept.ID})
		log.Fatalf("Failed to create staff record (department and user rolled back): %v", err)
	}
	fmt.Printf("✓ Created staff record: %s\n", staff.ID.Hex())

	fmt.Println()
	fmt.Println("Department setup complete!")
	fmt.Printf("The HOD can now log in at your frontend using: %s\n", user.Email)
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple regex for email validation
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
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
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
