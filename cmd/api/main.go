package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campushq/lms-api/internal/config"
	"github.com/campushq/lms-api/internal/database"
	"github.com/campushq/lms-api/internal/events"
	"github.com/campushq/lms-api/internal/handler"
	"github.com/campushq/lms-api/internal/middleware"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/observability"
	"github.com/campushq/lms-api/internal/repository"
	"github.com/campushq/lms-api/internal/router"
	"github.com/campushq/lms-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Difficulty{},
		&models.Course{},
		&models.Assignment{},
		&models.Enrollment{},
		&models.Submission{},
		&models.Report{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, grade report caching disabled")
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsConn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		publisher = events.NewNATSPublisher(natsConn, cfg.EventSubjectPrefix, logger)
	} else {
		logger.Warn().Msg("nats url not configured, event publishing disabled")
		publisher = events.NewNATSPublisher(nil, cfg.EventSubjectPrefix, logger)
	}

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, taxonomyRepo, validate, activityService, publisher, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, publisher, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, enrollmentRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, assignmentRepo, courseRepo, enrollmentRepo, validate, redisClient, cfg.GradeReportTTL, activityService, publisher, logger)
	reportService := service.NewReportService(reportRepo, validate, activityService, logger)
	seedService := service.NewSeedService(userRepo, taxonomyRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	courseHandler := handler.NewCourseHandler(courseService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService, cfg.DefaultPageSize, cfg.MaxPageSize, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, gradingService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, submissionService, logger)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:     courseHandler,
		AssignmentHandler: assignmentHandler,
		EnrollmentHandler: enrollmentHandler,
		SubmissionHandler: submissionHandler,
		GradingHandler:    gradingHandler,
		TaxonomyHandler:   taxonomyHandler,
		ReportHandler:     reportHandler,
		ActivityHandler:   activityHandler,
		SeedHandler:       seedHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		EnrollLimiter:     middleware.RateLimit("enroll", cfg.EnrollRateLimit, cfg.EnrollRateWindow, nil),
		SubmitLimiter:     middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow, nil),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
