package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec

	bookingConflictsTotal *prometheus.CounterVec
	lifecycleTransitions  *prometheus.CounterVec
	venueOccupancy        *prometheus.GaugeVec
	venueOccupancyRate    *prometheus.GaugeVec
}

// New создает и регистрирует метрики сервиса
func New(service string) *Metrics {
	return &Metrics{
		service: service,

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		dbQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Number of open connections in the pool",
		}, []string{"service"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Number of idle connections in the pool",
		}, []string{"service"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		bookingConflictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Total number of booking requests rejected due to a resource conflict",
		}, []string{"service"}),

		lifecycleTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_lifecycle_transitions_total",
			Help: "Total number of booking status transitions",
		}, []string{"service", "from", "to"}),

		venueOccupancy: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "venue_current_occupancy",
			Help: "Current headcount inside a capacity-bounded venue",
		}, []string{"service", "venue"}),

		venueOccupancyRate: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "venue_occupancy_rate",
			Help: "Current occupancy as a fraction of venue capacity",
		}, []string{"service", "venue"}),
	}
}

// ObserveHTTPRequest регистрирует выполненный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery регистрирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(open, idle, inUse int) {
	m.dbPoolOpen.WithLabelValues(m.service).Set(float64(open))
	m.dbPoolIdle.WithLabelValues(m.service).Set(float64(idle))
	m.dbPoolInUse.WithLabelValues(m.service).Set(float64(inUse))
}

// IncBookingConflict увеличивает счетчик конфликтов бронирования
func (m *Metrics) IncBookingConflict() {
	m.bookingConflictsTotal.WithLabelValues(m.service).Inc()
}

// IncLifecycleTransition увеличивает счетчик переходов статусов
func (m *Metrics) IncLifecycleTransition(from, to string) {
	m.lifecycleTransitions.WithLabelValues(m.service, from, to).Inc()
}

// SetVenueOccupancy обновляет метрики заполненности заведения
func (m *Metrics) SetVenueOccupancy(venue string, current int, capacity int) {
	m.venueOccupancy.WithLabelValues(m.service, venue).Set(float64(current))
	if capacity > 0 {
		m.venueOccupancyRate.WithLabelValues(m.service, venue).Set(float64(current) / float64(capacity))
	}
}
