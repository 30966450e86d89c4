package app

import (
	"fmt"

	"github.com/habitloop/habitloop/internal/config"
	"github.com/habitloop/habitloop/internal/db"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/service"
	"github.com/habitloop/habitloop/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	RecoveryService     *service.RecoveryService
	EmailService        *service.EmailService
	HabitService        *service.HabitService
	GoalService         *service.GoalService
	NotificationService *service.NotificationService
	FileService         *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	completionRepository := repository.NewCompletionRepository(database)
	analyticsRepository := repository.NewAnalyticsRepository(database)
	reminderRepository := repository.NewReminderRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	recoveryService := service.NewRecoveryService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.RecoveryCodeExpiry,
		cfg.RecoveryResetCooldown,
	)
	habitService := service.NewHabitService(
		habitRepository,
		completionRepository,
		analyticsRepository,
		reminderRepository,
	)
	goalService := service.NewGoalService(goalRepository)
	notificationService := service.NewNotificationService(notificationRepository)
	fileService := service.NewFileService(fileRepository, fileStorage)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		RecoveryService:     recoveryService,
		EmailService:        emailService,
		HabitService:        habitService,
		GoalService:         goalService,
		NotificationService: notificationService,
		FileService:         fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
