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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ems-platform/ems-api/internal/config"
	"github.com/ems-platform/ems-api/internal/database"
	"github.com/ems-platform/ems-api/internal/handler"
	"github.com/ems-platform/ems-api/internal/middleware"
	"github.com/ems-platform/ems-api/internal/models"
	"github.com/ems-platform/ems-api/internal/repository"
	"github.com/ems-platform/ems-api/internal/router"
	"github.com/ems-platform/ems-api/internal/service"
	"github.com/ems-platform/ems-api/pkg/ai"
	"github.com/ems-platform/ems-api/pkg/storage"
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
		&models.Department{}, &models.Semester{}, &models.Course{},
		&models.Student{}, &models.StudentProfile{},
		&models.Assignment{}, &models.Submission{},
		&models.Exam{}, &models.ExamResult{},
		&models.AttendanceRecord{},
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
	}

	store, err := newFileStore(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create file store: %v", err)
	}

	grader := ai.NewGeminiGrader(ai.GeminiConfig{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
		Logger:  logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	examRepo := repository.NewExamRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, store, grader, logger)
	examService := service.NewExamService(examRepo, validate, redisClient, cfg.TranscriptCacheTTL, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, courseRepo, validate, logger)
	promotionService := service.NewPromotionService(studentRepo, examRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		ExamHandler:       handler.NewExamHandler(examService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		PromotionHandler:  handler.NewPromotionHandler(promotionService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func newFileStore(cfg config.Config, logger zerolog.Logger) (storage.FileStore, error) {
	if cfg.StorageDriver == "cloudinary" {
		return storage.NewCloudinaryStore(storage.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloud,
			APIKey:    cfg.CloudinaryKey,
			APISecret: cfg.CloudinarySecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
	}

	return storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL, logger)
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
