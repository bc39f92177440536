// Package database provides MongoDB connection and initialization utilities
// #SCHEMA_IMPLEMENTATION: Using MongoDB with connection pooling and replica set support
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names as constants
// #INTEGRATION_POINT: All repositories use these collection names
const (
	CollectionUsers              = "users"
	CollectionDepartments        = "departments"
	CollectionAcademicYears      = "academic_years"
	CollectionSubjects           = "subjects"
	CollectionDepartmentSubjects = "department_subjects"
	CollectionStaff              = "staff"
	CollectionFacultyAssignments = "faculty_assignments"
	CollectionFeedbacks          = "feedbacks"
	CollectionHodSuggestions     = "hod_suggestions"
)

// Config holds MongoDB connection configuration
// #DATA_ASSUMPTION: Production uses replica set for high availability
type Config struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() Config {
	return Config{
		URI:                    "mongodb://localhost:27017",
		Database:               "feedback_portal",
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}
}

// Client wraps the MongoDB client with helper methods
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

// NewClient creates a new MongoDB client
func NewClient(cfg Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	// #IMPLEMENTATION_DECISION: Using connection pooling for performance
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with ping
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Database returns the MongoDB database
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Client returns the underlying MongoDB client
func (c *Client) Client() *mongo.Client {
	return c.client
}

// Collection returns a MongoDB collection
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping verifies the MongoDB connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// WithTransaction executes a function within a MongoDB transaction.
// #IMPLEMENTATION_DECISION: The assignment reconciler depends on this to avoid
// an empty-assignments window between delete and insert
func (c *Client) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// RunTransactional executes fn inside a multi-document transaction when the
// deployment supports them, otherwise sequentially on the plain context.
// Standalone mongod accepts the same writes without atomicity.
func (c *Client) RunTransactional(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.SupportsTransactions(ctx) {
		return c.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			return fn(sessCtx)
		})
	}
	return fn(ctx)
}

// SupportsTransactions reports whether the deployment can run multi-document
// transactions (replica set or sharded cluster).
func (c *Client) SupportsTransactions(ctx context.Context) bool {
	var result struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := c.database.Client().Database("admin").
		RunCommand(ctx, map[string]interface{}{"hello": 1}).Decode(&result)
	if err != nil {
		return false
	}
	return result.SetName != "" || result.Msg == "isdbgrid"
}

// HealthCheck performs a health check on the database connection
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// DatabaseStats returns statistics about the database
func (c *Client) DatabaseStats(ctx context.Context) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := c.database.RunCommand(ctx, map[string]interface{}{"dbStats": 1}).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to get database stats: %w", err)
	}
	return result, nil
}

// EnsureIndexes creates all required database indexes
func (c *Client) EnsureIndexes(ctx context.Context) error {
	return NewIndexManager(c.database).CreateAllIndexes(ctx)
}

// SeedData seeds initial data (academic years)
func (c *Client) SeedData(ctx context.Context) error {
	return NewSeeder(c.database).SeedAll(ctx)
}
