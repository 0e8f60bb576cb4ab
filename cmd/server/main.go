package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/config"
	"care-dispatch/internal/database"
	"care-dispatch/internal/handlers"
	"care-dispatch/internal/kafka"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/middleware"
	"care-dispatch/internal/models"
	"care-dispatch/internal/redis"
	"care-dispatch/internal/services"
	"care-dispatch/internal/storage"
)

func main() {
	// Загрузка конфигурации
	cfg := config.Load()

	// Инициализация логгера
	log := logger.New(&cfg.Logger)
	log.Info("Starting care dispatch server...")

	// Подключение к базе данных
	db, err := database.Connect(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Миграция схемы
	if err := database.Migrate(db, log); err != nil {
		log.WithError(err).Fatal("Failed to migrate database schema")
	}

	// Подключение к Redis
	redisClient, err := redis.Connect(&cfg.Redis, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Создание Kafka producer
	producer, err := kafka.NewProducer(&cfg.Kafka, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Kafka producer")
	}
	defer producer.Close()

	// Создание Kafka consumer
	consumer, err := kafka.NewConsumer(&cfg.Kafka, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	defer consumer.Stop()

	// Хранилище и токены
	store := storage.New(db)
	tokens := auth.NewService(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)*time.Second)

	uploader, err := middleware.NewUploader(&cfg.Upload, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to init uploader")
	}

	// Инициализация сервисов
	accountService := services.NewAccountService(store, tokens, cfg.Auth.BCryptCost, log)
	dispatchService := services.NewDispatchService(store, log)
	appointmentService := services.NewAppointmentService(store, log)
	feedService := services.NewFeedService(store, log)
	cacheService := services.NewCacheService(redisClient, &cfg.Cache, log)
	rateLimiter := services.NewRateLimiterService(redisClient, &cfg.RateLimit, log)

	// Инициализация handlers
	accountHandler := handlers.NewAccountHandler(accountService, cacheService, uploader, log)
	dispatchHandler := handlers.NewDispatchHandler(dispatchService, producer, log)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, producer, log)
	feedHandler := handlers.NewFeedHandler(feedService, log)
	healthHandler := handlers.NewHealthHandler(db, redisClient)
	cacheHandler := handlers.NewCacheHandler(cacheService, log)
	rateLimitHandler := handlers.NewRateLimitHandler(rateLimiter, log)

	// Регистрация обработчиков событий Kafka
	registerEventHandlers(consumer, log)

	// Запуск Kafka consumer
	if err := consumer.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start Kafka consumer")
	}

	// Настройка HTTP роутера
	mux := setupRoutes(accountHandler, dispatchHandler, appointmentHandler,
		feedHandler, healthHandler, cacheHandler, rateLimitHandler, tokens, uploader, log)

	var handler http.Handler = handlers.LoggingMiddleware(mux.ServeHTTP)
	if cfg.RateLimit.Enabled {
		handler = middleware.RateLimitMiddleware(rateLimiter, log)(handler)
	}

	// Создание HTTP сервера
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		log.WithField("address", server.Addr).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

// setupRoutes настраивает маршруты HTTP сервера
func setupRoutes(
	accountHandler *handlers.AccountHandler,
	dispatchHandler *handlers.DispatchHandler,
	appointmentHandler *handlers.AppointmentHandler,
	feedHandler *handlers.FeedHandler,
	healthHandler *handlers.HealthHandler,
	cacheHandler *handlers.CacheHandler,
	rateLimitHandler *handlers.RateLimitHandler,
	tokens *auth.Service,
	uploader *middleware.Uploader,
	log *logger.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	cors := handlers.CORSMiddleware
	authed := middleware.AuthMiddleware(tokens, log)

	// CORS снаружи: preflight-запрос браузера приходит без токена и
	// должен быть отвечен до проверки авторизации
	protected := func(h http.HandlerFunc) http.Handler {
		return http.HandlerFunc(cors(authed(h).ServeHTTP))
	}

	// Health check endpoints
	mux.HandleFunc("/health", cors(healthHandler.Health))
	mux.HandleFunc("/health/readiness", cors(healthHandler.Readiness))
	mux.HandleFunc("/health/liveness", cors(healthHandler.Liveness))

	// Учетные записи
	mux.HandleFunc("/user/register", cors(accountHandler.RegisterUser))
	mux.HandleFunc("/user/login", cors(accountHandler.LoginUser))
	mux.HandleFunc("/assistant/register", cors(accountHandler.RegisterAssistant))
	mux.HandleFunc("/assistant/login", cors(accountHandler.LoginAssistant))
	mux.HandleFunc("/assistant/all", cors(accountHandler.AvailableAssistants))
	mux.HandleFunc("/doctor/register", cors(accountHandler.RegisterDoctor))
	mux.HandleFunc("/doctor/login", cors(accountHandler.LoginDoctor))
	mux.HandleFunc("/doctor/all", cors(accountHandler.Doctors))

	// Заявки на помощь
	mux.HandleFunc("/pending/send", cors(dispatchHandler.SendRequest))
	mux.HandleFunc("/pending/confirm", cors(dispatchHandler.ConfirmRequest))
	mux.HandleFunc("/pending/completed", cors(dispatchHandler.CompleteRequest))
	mux.HandleFunc("/pending/requests/user/", cors(dispatchHandler.UserRequests))
	mux.HandleFunc("/pending/requests/", cors(dispatchHandler.AssistantRequests))
	mux.HandleFunc("/pending/notification/", cors(dispatchHandler.Notifications))
	mux.HandleFunc("/pending/check/", cors(dispatchHandler.CheckStatus))

	// Записи к врачу
	mux.HandleFunc("/doctor/appointment/add", cors(appointmentHandler.AddAppointment))
	mux.HandleFunc("/doctor/appointment/confirm", cors(appointmentHandler.ConfirmAppointment))
	mux.HandleFunc("/doctor/appointment/user/", cors(appointmentHandler.UserAppointments))
	mux.HandleFunc("/doctor/appointment/doctor/", cors(appointmentHandler.DoctorAppointments))

	// Социальная лента, под токеном
	mux.Handle("/user/feed/post", protected(feedHandler.CreatePost))
	mux.Handle("/user/feed/comment", protected(feedHandler.AddComment))
	mux.Handle("/user/feed/like", protected(feedHandler.ToggleLike))
	mux.Handle("/user/feed/all/", protected(feedHandler.Feed))
	mux.Handle("/user/feed/", protected(feedHandler.Post))
	mux.Handle("/user/notifications/all/", protected(feedHandler.Notifications))

	// Служебные endpoints
	mux.HandleFunc("/admin/cache/metrics", cors(cacheHandler.GetMetrics))
	mux.HandleFunc("/admin/rate-limit/status", cors(rateLimitHandler.GetStatus))

	// Раздача загруженных файлов
	mux.Handle("/uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploader.Dir()))))

	return mux
}

// registerEventHandlers регистрирует обработчики событий Kafka
func registerEventHandlers(consumer *kafka.Consumer, log *logger.Logger) {
	consumer.RegisterHandler(models.EventTypeRequestConfirmed, func(ctx context.Context, event *models.Event) error {
		log.WithField("event_id", event.ID).Info("Processing request confirmed event")
		return nil
	})

	consumer.RegisterHandler(models.EventTypeRequestCompleted, func(ctx context.Context, event *models.Event) error {
		log.WithField("event_id", event.ID).Info("Processing request completed event")
		return nil
	})

	consumer.RegisterHandler(models.EventTypeAssistantStatusChanged, func(ctx context.Context, event *models.Event) error {
		log.WithField("event_id", event.ID).Info("Processing assistant status changed event")
		return nil
	})
}
