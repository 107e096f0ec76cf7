package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitcoach-app/fitcoach-backend/internal/ai"
	"github.com/fitcoach-app/fitcoach-backend/internal/config"
	"github.com/fitcoach-app/fitcoach-backend/internal/db"
	httpHandlers "github.com/fitcoach-app/fitcoach-backend/internal/http/handlers"
	httpRouter "github.com/fitcoach-app/fitcoach-backend/internal/http/router"
	"github.com/fitcoach-app/fitcoach-backend/internal/logger"
	"github.com/fitcoach-app/fitcoach-backend/internal/repository"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
	"github.com/fitcoach-app/fitcoach-backend/internal/storage"
	"github.com/fitcoach-app/fitcoach-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	audioStorage, err := storage.NewAudioStorage(cfg.AudioStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	workoutRepo := repository.NewWorkoutRepository(dbConn)
	scheduleRepo := repository.NewScheduleRepository(dbConn)
	healthMetricRepo := repository.NewHealthMetricRepository(dbConn)
	welfareRepo := repository.NewWelfareRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Реестр активных push-подключений.
	hub := ws.NewHub()

	// AI клиент общий для всех сервисов. Интерфейсные значения оставляем
	// nil, если клиент не настроен, чтобы сервисы работали без AI.
	var aiClient service.Completer
	var transcriber httpHandlers.Transcriber
	if cfg.AIBaseURL != "" && cfg.AIModel != "" {
		client := ai.NewClient(cfg.AIBaseURL, cfg.AIModel)
		aiClient = client
		transcriber = client
	}

	// Сервисы.
	verificationService := service.NewVerificationService(cfg.VerificationCodeTTL)
	defer verificationService.Close()

	authService := service.NewAuthService(userRepo, tokenManager, verificationService)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	workoutService := service.NewWorkoutService(workoutRepo, userRepo, aiClient)
	scheduleService := service.NewScheduleService(scheduleRepo, workoutRepo, notificationService)
	healthService := service.NewHealthService(healthMetricRepo)
	welfareService := service.NewWelfareService(welfareRepo, userRepo, aiClient)
	chatbotService := service.NewChatbotService(chatRepo, userRepo, healthMetricRepo, aiClient)

	// Код подтверждения возвращается в ответе только вне production.
	exposeCode := cfg.Env != "production"

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService, exposeCode)
	profileHandler := httpHandlers.NewProfileHandler(authService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	workoutHandler := httpHandlers.NewWorkoutHandler(workoutService)
	scheduleHandler := httpHandlers.NewScheduleHandler(scheduleService)
	healthMetricHandler := httpHandlers.NewHealthMetricHandler(healthService, authService)
	welfareHandler := httpHandlers.NewWelfareHandler(welfareService)
	chatbotHandler := httpHandlers.NewChatbotHandler(chatbotService)
	speechHandler := httpHandlers.NewSpeechHandler(mediaRepo, audioStorage, transcriber, chatbotService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, hub)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		notificationHandler,
		workoutHandler,
		scheduleHandler,
		healthMetricHandler,
		welfareHandler,
		chatbotHandler,
		speechHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
