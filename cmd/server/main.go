// @title Feedback Portal API
// @version 1.0
// @description College feedback collection portal API - departments manage subject catalogues and faculty assignments, students submit anonymous teaching feedback, HODs review and release reports
// @termsOfService http://swagger.io/terms/

// @contact.name Feedback Portal Support
// @contact.email support@campus-tools.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the feedback portal API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/auth"
	"github.com/campus-tools/feedback_backend/internal/cache"
	"github.com/campus-tools/feedback_backend/internal/config"
	"github.com/campus-tools/feedback_backend/internal/database"
	"github.com/campus-tools/feedback_backend/internal/handlers"
	"github.com/campus-tools/feedback_backend/internal/logger"
	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/repository"
	"github.com/campus-tools/feedback_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-tools/feedback_backend/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.Get()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Initialize JWT service early (before defer) to avoid exitAfterDefer issue
	jwtCfg := auth.JWTConfig{
		PrivateKeyPath:     cfg.JWTPrivateKeyPath,
		PublicKeyPath:      cfg.JWTPublicKeyPath,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		Issuer:             "feedback-backend",
	}

	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing database connection")
		}
		log.Fatal().Err(err).Msg("Failed to initialize JWT service")
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing database connection")
		}
	}()

	// Ensure indexes
	log.Info().Msg("Creating database indexes")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Warn().Err(indexErr).Msg("Failed to create indexes")
	}

	// Seed initial data (admin account, academic years)
	log.Info().Msg("Seeding initial data")
	if seedErr := dbClient.SeedData(ctx); seedErr != nil {
		log.Warn().Err(seedErr).Msg("Failed to seed data")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbClient)
	deptRepo := repository.NewDepartmentRepository(dbClient)
	yearRepo := repository.NewAcademicYearRepository(dbClient)
	subjectRepo := repository.NewSubjectRepository(dbClient)
	linkRepo := repository.NewDepartmentSubjectRepository(dbClient)
	staffRepo := repository.NewStaffRepository(dbClient)
	assignmentRepo := repository.NewAssignmentRepository(dbClient)
	feedbackRepo := repository.NewFeedbackRepository(dbClient)
	suggestionRepo := repository.NewSuggestionRepository(dbClient)

	// Read cache for hot student and faculty lists
	cacheSvc := cache.New(cfg.CacheTTL)

	// Initialize services
	authService := services.NewAuthService(userRepo, staffRepo, jwtService)
	subjectService := services.NewSubjectService(subjectRepo, linkRepo, yearRepo)
	assignmentService := services.NewAssignmentService(
		assignmentRepo,
		staffRepo,
		userRepo,
		subjectRepo,
		linkRepo,
		cacheSvc,
		dbClient.RunTransactional,
	)
	reportService := services.NewReportService(
		feedbackRepo,
		assignmentRepo,
		staffRepo,
		userRepo,
		subjectRepo,
		deptRepo,
	)
	feedbackService := services.NewFeedbackService(
		feedbackRepo,
		assignmentRepo,
		deptRepo,
		userRepo,
		staffRepo,
		subjectRepo,
		cacheSvc,
	)
	suggestionService := services.NewHodSuggestionService(suggestionRepo, staffRepo)
	departmentService := services.NewDepartmentService(deptRepo, yearRepo, staffRepo, userRepo)
	exportService := services.NewExportService(reportService, staffRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(dbClient, Version)
	subjectHandler := handlers.NewSubjectHandler(subjectService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	hodHandler := handlers.NewHodHandler(
		assignmentService,
		reportService,
		feedbackService,
		suggestionService,
		departmentService,
		exportService,
	)
	facultyHandler := handlers.NewFacultyHandler(
		assignmentService,
		reportService,
		feedbackService,
		suggestionService,
		exportService,
	)
	studentHandler := handlers.NewStudentHandler(feedbackService)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Register routes
	authHandler.RegisterRoutes(apiV1, authMiddleware)
	subjectHandler.RegisterRoutes(apiV1, authMiddleware)
	departmentHandler.RegisterRoutes(apiV1, authMiddleware)
	hodHandler.RegisterRoutes(apiV1, authMiddleware)
	facultyHandler.RegisterRoutes(apiV1, authMiddleware)
	studentHandler.RegisterRoutes(apiV1, authMiddleware)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("version", Version).
			Str("port", cfg.ServerPort).
			Str("environment", cfg.Environment).
			Msg("Starting feedback portal API server")
		log.Info().
			Str("build_time", BuildTime).
			Str("commit", GitCommit).
			Str("branch", GitBranch).
			Msg("Build info")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server shutdown complete")
}
