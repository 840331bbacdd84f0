package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/cancel_booking"
	changeBookingHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/change_booking"
	createBookingHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/get_availability"
	getBookingHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/get_customer_bookings"
	getOccupancyHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/get_occupancy"
	getTenantBookingsHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/get_tenant_bookings"
	transitionStatusHandler "github.com/venuegrid/VG-ReservationEngine/internal/api/handlers/transition_status"
	"github.com/venuegrid/VG-ReservationEngine/internal/api/middleware"
	"github.com/venuegrid/VG-ReservationEngine/internal/bookinglock"
	"github.com/venuegrid/VG-ReservationEngine/internal/config"
	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	bookingRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/booking"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
	occupancyRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/occupancy"
	resourceRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/resource"
	venueRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/venue"
	catalogServiceClient "github.com/venuegrid/VG-ReservationEngine/internal/integrations/catalogservice"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
	bookingsService "github.com/venuegrid/VG-ReservationEngine/internal/service/bookings"
	venuesService "github.com/venuegrid/VG-ReservationEngine/internal/service/venues"
	changeBookingUC "github.com/venuegrid/VG-ReservationEngine/internal/usecase/change_booking"
	createBookingUC "github.com/venuegrid/VG-ReservationEngine/internal/usecase/create_booking"
	getAvailabilityUC "github.com/venuegrid/VG-ReservationEngine/internal/usecase/get_availability"
	transitionStatusUC "github.com/venuegrid/VG-ReservationEngine/internal/usecase/transition_status"
	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/logger"
	"github.com/venuegrid/VG-ReservationEngine/pkg/metrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/simpletxmanager"
	"github.com/venuegrid/VG-ReservationEngine/pkg/txmanager"
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

	log.Info("Starting VG-ReservationEngine...")
	log.Info("Configuration loaded from config.toml")

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

	// Инициализируем клиент каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog service client initialized (url=%s, timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		ledgerRepository    *ledgerRepo.Repository
		resourceRepository  *resourceRepo.Repository
		venueRepository     *venueRepo.Repository
		occupancyRepository *occupancyRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		venueRepository = venueRepo.NewRepository(wrappedDB)
		occupancyRepository = occupancyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		venueRepository = venueRepo.NewRepository(db)
		occupancyRepository = occupancyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Восстанавливаем in-memory состояние из БД:
	// леджеры ресурсов и счетчики заполненности заведений
	warmUpCtx, warmUpCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer warmUpCancel()

	registry := ledger.NewRegistry()
	if err := warmUpLedgers(warmUpCtx, ledgerRepository, registry, log); err != nil {
		log.Fatal("Failed to warm up resource ledgers: %v", err)
	}

	var occMetrics occupancy.MetricsRecorder
	if cfg.Metrics.Enabled {
		occMetrics = metricsCollector
	}
	occupancyMgr := occupancy.NewManager(occMetrics)
	if err := warmUpOccupancy(warmUpCtx, venueRepository, occupancyRepository, occupancyMgr, log); err != nil {
		log.Fatal("Failed to warm up occupancy trackers: %v", err)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	venueSvc := venuesService.NewService(venueRepository, occupancyMgr, log)

	// Общий реестр блокировок: перенос и смена статуса одного бронирования
	// сериализуются между собой
	bookingLocks := bookinglock.NewGuard()

	// Метрики для usecases подключаются только когда включены,
	// чтобы не передавать типизированный nil в интерфейс
	var conflictMetrics createBookingUC.Metrics
	var changeMetrics changeBookingUC.Metrics
	var transitionMetrics transitionStatusUC.Metrics
	if cfg.Metrics.Enabled {
		conflictMetrics = metricsCollector
		changeMetrics = metricsCollector
		transitionMetrics = metricsCollector
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		resourceRepository,
		venueRepository,
		catalogClient,
		registry,
		txMgr,
		conflictMetrics,
		log,
	)

	changeBookingUseCase := changeBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		resourceRepository,
		registry,
		bookingLocks,
		txMgr,
		changeMetrics,
		log,
	)

	transitionStatusUseCase := transitionStatusUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		resourceRepository,
		venueRepository,
		occupancyRepository,
		occupancyMgr,
		registry,
		bookingLocks,
		txMgr,
		transitionMetrics,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(resourceRepository, registry, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	changeBooking := changeBookingHandler.NewHandler(changeBookingUseCase, log)
	transitionStatus := transitionStatusHandler.NewHandler(transitionStatusUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionStatusUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getOccupancy := getOccupancyHandler.NewHandler(venueSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные окна ресурса на дату
	api.HandleFunc("/tenants/{tenantId}/resources/{resourceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Снимок заполненности заведения
	api.HandleFunc("/tenants/{tenantId}/occupancy",
		getOccupancy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/tenants/{tenantId}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Список бронирований заведения
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID (с историей статусов)
	protected.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос бронирования (новый интервал и/или ресурсы)
	protected.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}", changeBooking.Handle).Methods(http.MethodPatch)

	// Перевод по жизненному циклу (confirmed, arrived, completed, no_show)
	protected.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/status", transitionStatus.Handle).Methods(http.MethodPatch)

	// Отмена бронирования с причиной
	protected.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

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

// warmUpLedgers восстанавливает леджеры ресурсов из сохраненных записей
func warmUpLedgers(ctx context.Context, repo *ledgerRepo.Repository, registry *ledger.Registry, log *logger.Logger) error {
	entries, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}

	byResource := make(map[int64][]ledger.Entry)
	for _, e := range entries {
		interval, err := domain.NewTimeInterval(e.Start, e.End)
		if err != nil {
			log.Warn("Skipping corrupt ledger entry id=%s: %v", e.ID, err)
			continue
		}
		byResource[e.ResourceID] = append(byResource[e.ResourceID], ledger.Entry{
			ID:        e.ID,
			BookingID: e.BookingID,
			Interval:  interval,
		})
	}

	for resourceID, resourceEntries := range byResource {
		registry.Load(resourceID, resourceEntries)
	}

	log.Info("Resource ledgers warmed up: %d entries across %d resources", len(entries), len(byResource))
	return nil
}

// warmUpOccupancy восстанавливает счетчики заполненности заведений
func warmUpOccupancy(
	ctx context.Context,
	venues *venueRepo.Repository,
	state *occupancyRepo.Repository,
	manager *occupancy.Manager,
	log *logger.Logger,
) error {
	tracked, err := venues.ListCapacityBounded(ctx)
	if err != nil {
		return err
	}

	for _, v := range tracked {
		current, err := state.GetCurrent(ctx, v.ID)
		if err != nil {
			if !errors.Is(err, occupancyRepo.ErrStateNotFound) {
				return err
			}
			current = 0
		}

		peaks, err := state.ListPeaks(ctx, v.ID)
		if err != nil {
			return err
		}

		manager.Load(v.ID, v.TotalCapacity, current, peaks)
	}

	log.Info("Occupancy trackers warmed up for %d venues", len(tracked))
	return nil
}
