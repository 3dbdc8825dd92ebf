package prometheus

import (
	"sync"
	"time"

	"mauryavansham-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Authentication metrics
	AuthAttemptsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Total number of authentication attempts",
	})
	AuthSuccessCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_success_total",
		Help: "Total number of successful authentications",
	})
	AuthErrorsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_errors_total",
		Help: "Total number of authentication errors",
	})

	// Database operation metrics
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Domain operation counters, labelled by entity and operation
	OperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operations_total",
			Help: "Total number of domain operations",
		},
		[]string{"entity", "operation"},
	)

	// DuplicateInterestCounter counts rejected repeat expressions of interest
	DuplicateInterestCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interest_duplicates_total",
		Help: "Total number of duplicate interest attempts",
	})

	// NotificationsCounter counts in-app notifications by type
	NotificationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of in-app notifications created",
		},
		[]string{"type"},
	)

	// DeliveryCounter counts outbound email/sms by result
	DeliveryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_total",
			Help: "Total number of outbound deliveries by channel and result",
		},
		[]string{"channel", "result"},
	)

	// DeliveryQueueDepth is the number of jobs waiting in the delivery queue
	DeliveryQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "delivery_queue_depth",
		Help: "Number of outbound deliveries waiting to be sent",
	})

	// AdViewsCounter counts ad impressions per placement
	AdViewsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ad_views_total",
			Help: "Total number of ad impressions",
		},
		[]string{"placement"},
	)

	initOnce sync.Once
)

// InitMetrics registers the service metrics under the configured prefix
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWithPrefix(cfg.Metrics.Prefix+"_", prometheus.DefaultRegisterer)
		reg.MustRegister(
			AuthAttemptsCounter,
			AuthSuccessCounter,
			AuthErrorsCounter,
			DbOperationDuration,
			OperationsCounter,
			DuplicateInterestCounter,
			NotificationsCounter,
			DeliveryCounter,
			DeliveryQueueDepth,
			AdViewsCounter,
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOperation increments the counter for a domain operation
func RecordOperation(entity, operation string) {
	OperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordDelivery increments the outbound delivery counter
func RecordDelivery(channel, result string) {
	DeliveryCounter.WithLabelValues(channel, result).Inc()
}
