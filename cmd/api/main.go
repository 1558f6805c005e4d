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
	"github.com/rs/zerolog"

	"github.com/noah-isme/unimatch-go-api/internal/config"
	"github.com/noah-isme/unimatch-go-api/internal/database"
	"github.com/noah-isme/unimatch-go-api/internal/handler"
	"github.com/noah-isme/unimatch-go-api/internal/middleware"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/repository"
	"github.com/noah-isme/unimatch-go-api/internal/router"
	"github.com/noah-isme/unimatch-go-api/internal/service"
	cloud "github.com/noah-isme/unimatch-go-api/pkg/cloudinary"
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
		&models.University{}, &models.Department{},
		&models.Program{}, &models.ProgramRequirement{},
		&models.Student{}, &models.Qualification{},
		&models.Application{}, &models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	qualificationRepo := repository.NewQualificationRepository(db)
	programRepo := repository.NewProgramRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	options := cfg.MatchingOptions()

	activityService := service.NewActivityService(activityRepo, logger)
	eventBus := service.NewEventBus(redisClient, natsConn, cfg.EventChannel, logger)
	matchingService := service.NewMatchingService(
		studentRepo, qualificationRepo, programRepo, requirementRepo,
		redisClient, cfg.MatchCacheTTL, options, validate, logger,
	)
	qualificationService := service.NewQualificationService(qualificationRepo, eventBus, activityService, validate, logger)
	programService := service.NewProgramService(programRepo, requirementRepo, universityRepo, eventBus, activityService, validate, logger)
	universityService := service.NewUniversityService(universityRepo, uploader, activityService, validate, logger)
	applicationService := service.NewApplicationService(
		applicationRepo, programRepo, qualificationRepo,
		options, activityService, validate, logger,
	)

	eventBus.Subscribe(matchingService.HandleEvent)

	busCtx, stopBus := context.WithCancel(context.Background())
	defer stopBus()
	eventBus.Start(busCtx)

	matchingHandler := handler.NewMatchingHandler(matchingService, logger)
	qualificationHandler := handler.NewQualificationHandler(qualificationService, logger)
	programHandler := handler.NewProgramHandler(programService, logger)
	universityHandler := handler.NewUniversityHandler(universityService, logger)
	applicationHandler := handler.NewApplicationHandler(applicationService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		MatchingHandler:      matchingHandler,
		QualificationHandler: qualificationHandler,
		ProgramHandler:       programHandler,
		UniversityHandler:    universityHandler,
		ApplicationHandler:   applicationHandler,
		ActivityHandler:      activityHandler,
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
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
