package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminReservationsHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/admin_reservations"
	authHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/auth"
	catalogBooksHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/catalog_books"
	catalogRoomsHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/catalog_rooms"
	catalogSitesHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/catalog_sites"
	createReservationHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/get_availability"
	userReservationsHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/user_reservations"
	validateCheckpointHandler "github.com/m04kA/BNP-ReservationService/internal/api/handlers/validate_checkpoint"
	"github.com/m04kA/BNP-ReservationService/internal/api/middleware"
	"github.com/m04kA/BNP-ReservationService/internal/config"
	catalogRepo "github.com/m04kA/BNP-ReservationService/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/BNP-ReservationService/internal/infra/storage/reservation"
	userRepo "github.com/m04kA/BNP-ReservationService/internal/infra/storage/user"
	identityClient "github.com/m04kA/BNP-ReservationService/internal/integrations/identity"
	mailerClient "github.com/m04kA/BNP-ReservationService/internal/integrations/mailer"
	catalogService "github.com/m04kA/BNP-ReservationService/internal/service/catalog"
	reservationsService "github.com/m04kA/BNP-ReservationService/internal/service/reservations"
	usersService "github.com/m04kA/BNP-ReservationService/internal/service/users"
	createReservationUC "github.com/m04kA/BNP-ReservationService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/m04kA/BNP-ReservationService/internal/usecase/get_availability"
	processCheckpointUC "github.com/m04kA/BNP-ReservationService/internal/usecase/process_checkpoint"
	"github.com/m04kA/BNP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/BNP-ReservationService/pkg/logger"
	"github.com/m04kA/BNP-ReservationService/pkg/metrics"
	"github.com/m04kA/BNP-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/BNP-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BNP-ReservationService...")

	policy := cfg.Policy()
	log.Info("Policies loaded (grace=%s, tolerance=%s, max_loan_days=%d, strike_limit=%d, ban=%s)",
		policy.GraceBefore, policy.LateTolerance, policy.MaxLoanDays, policy.StrikeLimit, policy.BanDuration)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	registry := identityClient.NewClient(
		cfg.Identity.URL,
		cfg.Identity.Token,
		time.Duration(cfg.Identity.Timeout)*time.Second,
		log,
	)
	if registry.Enabled() {
		log.Info("Identity registry client enabled (url=%s, timeout=%ds)", cfg.Identity.URL, cfg.Identity.Timeout)
	} else {
		log.Warn("Identity registry disabled, registration falls back to generic names")
	}

	mail := mailerClient.NewClient(
		cfg.Mailer.URL,
		cfg.Mailer.APIKey,
		cfg.Mailer.Sender,
		time.Duration(cfg.Mailer.Timeout)*time.Second,
		log,
	)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		userRepository        *userRepo.Repository
		catalogRepository     *catalogRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Бизнес-метрики в usecase-ах опциональны: nil отключает запись
	var createMetrics createReservationUC.Metrics
	var checkpointMetrics processCheckpointUC.Metrics
	if cfg.Metrics.Enabled {
		createMetrics = metricsCollector
		checkpointMetrics = metricsCollector
	}

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		txMgr,
		policy,
		nil,
		log,
	)
	catalogSvc := catalogService.NewService(
		catalogRepository,
		reservationRepository,
		txMgr,
		log,
	)
	usersSvc := usersService.NewService(
		userRepository,
		registry,
		mail,
		usersService.AuthOptions{
			Secret:    cfg.Auth.Secret,
			TokenTTL:  time.Duration(cfg.Auth.TokenExpiryMinutes) * time.Minute,
			OTPExpiry: time.Duration(cfg.Auth.OTPExpiryMinutes) * time.Minute,
		},
		nil,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		userRepository,
		catalogRepository,
		txMgr,
		mail,
		policy,
		nil,
		createMetrics,
		log,
	)
	processCheckpointUseCase := processCheckpointUC.NewUseCase(
		reservationRepository,
		userRepository,
		txMgr,
		policy,
		nil,
		checkpointMetrics,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		reservationRepository,
		catalogRepository,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	validateCheckpoint := validateCheckpointHandler.NewHandler(processCheckpointUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	userReservations := userReservationsHandler.NewHandler(reservationsSvc, log)
	adminReservations := adminReservationsHandler.NewHandler(reservationsSvc, log)
	auth := authHandler.NewHandler(usersSvc, log)
	catalogSites := catalogSitesHandler.NewHandler(catalogSvc, log)
	catalogBooks := catalogBooksHandler.NewHandler(catalogSvc, log)
	catalogRooms := catalogRoomsHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Учётные записи
	api.HandleFunc("/auth/register", auth.HandleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", auth.HandleForgot).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", auth.HandleVerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password", auth.HandleReset).Methods(http.MethodPost)

	// Каталог
	api.HandleFunc("/sites", catalogSites.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/sites/{id:[0-9]+}", catalogSites.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/books", catalogBooks.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", catalogBooks.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/rooms", catalogRooms.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id:[0-9]+}", catalogRooms.HandleGet).Methods(http.MethodGet)

	// Доступность (консультативная, решение принимает контроль допуска)
	api.HandleFunc("/availability/rooms/{id:[0-9]+}", getAvailability.HandleRoomDay).Methods(http.MethodGet)
	api.HandleFunc("/availability/books/{id:[0-9]+}", getAvailability.HandleBookMonth).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer-токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.Secret, log))

	// --- Резервации ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id:[0-9]+}", userReservations.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id:[0-9]+}", userReservations.HandleCancel).Methods(http.MethodDelete)

	// --- Профиль ---
	protected.HandleFunc("/users/me", auth.HandleProfile).Methods(http.MethodGet)
	protected.HandleFunc("/users/me/reservations", userReservations.HandleList).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют роль ADMIN)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(cfg.Auth.Secret, log), middleware.RequireAdmin)

	// Checkpoint обслуживает персонал на входе/выходе
	admin.HandleFunc("/checkpoint", validateCheckpoint.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reservations", adminReservations.Handle).Methods(http.MethodGet)

	// --- Управление каталогом ---
	admin.HandleFunc("/sites", catalogSites.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/sites/{id:[0-9]+}", catalogSites.HandleUpdate).Methods(http.MethodPatch)
	admin.HandleFunc("/sites/{id:[0-9]+}", catalogSites.HandleDelete).Methods(http.MethodDelete)
	admin.HandleFunc("/books", catalogBooks.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/books/{id:[0-9]+}", catalogBooks.HandleUpdate).Methods(http.MethodPatch)
	admin.HandleFunc("/books/{id:[0-9]+}", catalogBooks.HandleDelete).Methods(http.MethodDelete)
	admin.HandleFunc("/rooms", catalogRooms.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id:[0-9]+}", catalogRooms.HandleUpdate).Methods(http.MethodPatch)
	admin.HandleFunc("/rooms/{id:[0-9]+}", catalogRooms.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
