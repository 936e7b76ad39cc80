package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	documentsIssued *prometheus.CounterVec
	blockedAttempts *prometheus.CounterVec
	enrollmentsMade prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	documentsIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_issued_total",
		Help: "Official documents derived, by kind",
	}, []string{"kind"})

	blockedAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blocked_attempts_total",
		Help: "Document requests denied by an academic block, by operation",
	}, []string{"operation"})

	enrollmentsMade := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "subject_enrollments_total",
		Help: "Subject enrollments created",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, documentsIssued, blockedAttempts, enrollmentsMade, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		documentsIssued: documentsIssued,
		blockedAttempts: blockedAttempts,
		enrollmentsMade: enrollmentsMade,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// CountDocumentIssued increments the issued-documents counter for a kind
// (historico, boletim, pauta, certificado).
func (m *MetricsService) CountDocumentIssued(kind string) {
	if m == nil {
		return
	}
	m.documentsIssued.WithLabelValues(kind).Inc()
}

// CountBlockedAttempt increments the blocked-attempts counter.
func (m *MetricsService) CountBlockedAttempt(operation string) {
	if m == nil {
		return
	}
	m.blockedAttempts.WithLabelValues(operation).Inc()
}

// CountEnrollment increments the enrollment counter.
func (m *MetricsService) CountEnrollment() {
	if m == nil {
		return
	}
	m.enrollmentsMade.Inc()
}
