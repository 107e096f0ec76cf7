package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fitcoach-app/fitcoach-backend/internal/config"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/handlers"
	"github.com/fitcoach-app/fitcoach-backend/internal/http/middleware"
	"github.com/fitcoach-app/fitcoach-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	notificationHandler *handlers.NotificationHandler,
	workoutHandler *handlers.WorkoutHandler,
	scheduleHandler *handlers.ScheduleHandler,
	healthMetricHandler *handlers.HealthMetricHandler,
	welfareHandler *handlers.WelfareHandler,
	chatbotHandler *handlers.ChatbotHandler,
	speechHandler *handlers.SpeechHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Аутентификация с ограничением частоты запросов
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/check-username", authHandler.CheckUsername)
	}

	// WebSocket канал push-уведомлений (токен передаётся query-параметром)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.DELETE("/auth/account", authHandler.DeleteAccount)

		// Подтверждение телефона ограничиваем жёстче остальных маршрутов
		phoneGroup := protected.Group("/auth/phone")
		phoneGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
		{
			phoneGroup.POST("/code", authHandler.RequestPhoneCode)
			phoneGroup.POST("/verify", authHandler.VerifyPhone)
		}

		protected.GET("/auth/payment-pin", authHandler.CheckPaymentPin)
		protected.PUT("/auth/payment-pin", authHandler.SetPaymentPin)
		protected.POST("/auth/payment-pin/verify", authHandler.VerifyPaymentPin)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.GET("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.Get)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.Delete)

		protected.POST("/routines", workoutHandler.Create)
		protected.GET("/routines", workoutHandler.List)
		protected.POST("/routines/generate", workoutHandler.Generate)
		protected.GET("/routines/:id", middleware.UUIDValidator("id"), workoutHandler.Get)
		protected.PUT("/routines/:id", middleware.UUIDValidator("id"), workoutHandler.Update)
		protected.DELETE("/routines/:id", middleware.UUIDValidator("id"), workoutHandler.Delete)

		protected.POST("/schedule", scheduleHandler.Create)
		protected.GET("/schedule", scheduleHandler.List)
		protected.GET("/schedule/:id", middleware.UUIDValidator("id"), scheduleHandler.Get)
		protected.PUT("/schedule/:id", middleware.UUIDValidator("id"), scheduleHandler.Update)
		protected.PUT("/schedule/:id/status", middleware.UUIDValidator("id"), scheduleHandler.ChangeStatus)
		protected.DELETE("/schedule/:id", middleware.UUIDValidator("id"), scheduleHandler.Delete)

		protected.POST("/health-metrics", healthMetricHandler.Create)
		protected.GET("/health-metrics", healthMetricHandler.List)
		protected.GET("/health-metrics/latest", healthMetricHandler.Latest)
		protected.GET("/health-metrics/summary", healthMetricHandler.Summary)
		protected.PUT("/health-metrics/:id", middleware.UUIDValidator("id"), healthMetricHandler.Update)
		protected.DELETE("/health-metrics/:id", middleware.UUIDValidator("id"), healthMetricHandler.Delete)

		protected.GET("/welfare", welfareHandler.List)
		protected.GET("/welfare/recommendations", welfareHandler.Recommend)
		protected.GET("/welfare/:id", middleware.UUIDValidator("id"), welfareHandler.Get)

		protected.POST("/coach/chat", chatbotHandler.Ask)
		protected.GET("/coach/chat/history", chatbotHandler.History)
		protected.DELETE("/coach/chat/history", chatbotHandler.Clear)

		protected.POST("/speech", speechHandler.Upload)
		protected.POST("/speech/transcribe", speechHandler.Transcribe)
		protected.POST("/speech/conversation", speechHandler.Converse)
		protected.GET("/speech", speechHandler.List)
		protected.DELETE("/speech/:id", middleware.UUIDValidator("id"), speechHandler.Delete)
	}

	return r
}
