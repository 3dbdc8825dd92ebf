package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var routeLabels = []string{"service", "method", "path", "status"}

// HTTP series, labelled by the matched echo route so IDs never become labels
var (
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Requests served, by route and status code",
	}, routeLabels)

	RequestDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Time spent serving a request, by route and status code",
		Buckets: prometheus.DefBuckets,
	}, routeLabels)

	StatusCodeCategoryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_status_category_total",
		Help: "Responses grouped as 2xx, 4xx or 5xx",
	}, []string{"service", "category", "method", "path"})

	registerOnce sync.Once
)

// HTTPMetrics tags every recorded request with the service name
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics registers the HTTP collectors with the default registry
// the first time it runs. Later calls reuse them.
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDurationHistogram, StatusCodeCategoryCounter)
	})
	return &HTTPMetrics{ServiceName: serviceName}
}

// StatusCategory buckets a status code. 1xx and 3xx are not tracked and
// return "".
func StatusCategory(status int) string {
	switch status / 100 {
	case 2:
		return "2xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	}
	return ""
}

func (m *HTTPMetrics) observe(c echo.Context, took time.Duration) {
	status := c.Response().Status
	method, route := c.Request().Method, c.Path()
	code := strconv.Itoa(status)

	RequestCounter.WithLabelValues(m.ServiceName, method, route, code).Inc()
	RequestDurationHistogram.WithLabelValues(m.ServiceName, method, route, code).Observe(took.Seconds())
	if cat := StatusCategory(status); cat != "" {
		StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, cat, method, route).Inc()
	}
}

// Middleware records count and latency for each request
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			began := time.Now()
			err := next(c)
			m.observe(c, time.Since(began))
			return err
		}
	}
}

// GetPrometheusHandler serves the default registry for /metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
