package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"traindesk/internal/caching"
	"traindesk/internal/config"
	"traindesk/internal/handlers"
	"traindesk/internal/jobs"
	"traindesk/internal/jobs/background"
	"traindesk/internal/middleware"
	"traindesk/internal/moodle"
	"traindesk/internal/repositories"
	"traindesk/internal/services"
	"traindesk/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Moodle configuration
	moodleConfigPath := os.Getenv("MOODLE_CONFIG")
	if moodleConfigPath == "" {
		moodleConfigPath = "moodle.toml"
	}
	moodleCfg, err := config.LoadMoodleConfig(moodleConfigPath)
	if err != nil {
		log.Fatalf("Failed to load moodle config: %v", err)
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDBStr := os.Getenv("REDIS_DB")
	redisDB := 0 // Default DB
	if redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioAccessKey == "" || minioSecretKey == "" {
		log.Fatal("MINIO_ACCESS_KEY and MINIO_SECRET_KEY environment variables are required")
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Initialize storage service
	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	// Moodle API client
	moodleClient := moodle.NewClient(moodleCfg)

	// Create repositories
	auditRepo := repositories.NewAssignmentAuditRepo(pool)
	reconRepo := repositories.NewReconciliationRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	licenseSvc := services.NewLicenseService(moodleClient, cacheSvc)
	enrollmentSvc := services.NewEnrollmentService(moodleClient)
	assignmentSvc := services.NewAssignmentService(licenseSvc, enrollmentSvc, cacheSvc, auditRepo, reconRepo, moodleCfg.Roles.StudentRoleID)
	courseSvc := services.NewCourseService(moodleClient, cacheSvc)
	schoolSvc := services.NewSchoolService(moodleClient, cacheSvc)
	trainerSvc := services.NewTrainerService(moodleClient, courseSvc, moodleCfg.Roles.TrainerRoleID)
	reportSvc := services.NewReportService(licenseSvc, storageSvc)

	// Create handlers
	assignmentHandlers := handlers.NewAssignmentHandlers(assignmentSvc, auditRepo)
	courseHandlers := handlers.NewCourseHandlers(courseSvc, enrollmentSvc)
	schoolHandlers := handlers.NewSchoolHandlers(schoolSvc, licenseSvc)
	trainerHandlers := handlers.NewTrainerHandlers(trainerSvc)
	reconHandlers := handlers.NewReconciliationHandlers(reconRepo)
	reportHandlers := handlers.NewReportHandlers(reportSvc)

	// Background jobs
	expirySvc := jobs.NewLicenseExpiryService(licenseSvc, schoolSvc)
	scheduler := background.NewJobScheduler(expirySvc, courseSvc, reconRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Version middleware
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})
	e.GET("/health/detailed", func(c echo.Context) error {
		return handlers.HealthCheckDetailed(c, pool)
	})

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}))
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	// Assignment routes
	protected.POST("/assignments", assignmentHandlers.CreateAssignment)
	protected.POST("/assignments/bulk", assignmentHandlers.CreateAssignmentsBulk)
	protected.GET("/assignments", assignmentHandlers.ListRecentAssignments)

	// Course routes
	protected.GET("/courses", courseHandlers.ListCourses)
	protected.GET("/courses/:id", courseHandlers.GetCourse)
	protected.PUT("/courses/:id", courseHandlers.UpdateCourse)
	protected.GET("/courses/:id/enrollments", courseHandlers.ListEnrollments)

	// Trainer routes
	protected.GET("/courses/:id/trainers", trainerHandlers.ListTrainers)
	protected.POST("/courses/:id/trainers", trainerHandlers.AssignTrainer)
	protected.DELETE("/courses/:id/trainers/:userId", trainerHandlers.UnassignTrainer)

	// School routes
	protected.GET("/schools", schoolHandlers.ListSchools)
	protected.GET("/schools/:id/licenses", schoolHandlers.ListSchoolLicenses)
	protected.POST("/schools/:id/courses", schoolHandlers.AssignCourse)
	protected.GET("/licenses/resolve", schoolHandlers.ResolveLicense)

	// Reconciliation routes
	protected.GET("/reconciliations", reconHandlers.ListOpen)
	protected.POST("/reconciliations/:id/resolve", reconHandlers.Resolve)

	// Report routes
	protected.GET("/reports/license-usage", reportHandlers.LicenseUsage)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Traindesk server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
