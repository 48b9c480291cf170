package service

import (
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appErrors "github.com/Nagarajan160520/Nursing-backend-sub000/pkg/errors"
)

// MetricsService encapsulates Prometheus instrumentation for the admission
// pipeline and the HTTP surface.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	provisioningTotal    *prometheus.CounterVec
	provisioningDuration prometheus.Observer
	seatsFilled          *prometheus.GaugeVec
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

	provisioningTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provisioning_total",
		Help: "Admission provisioning attempts by outcome",
	}, []string{"outcome"})

	provisioningDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "provisioning_duration_seconds",
		Help:    "End-to-end duration of provisioning attempts",
		Buckets: prometheus.DefBuckets,
	})

	seatsFilled := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "course_seats_filled",
		Help: "Current seats filled per course code",
	}, []string{"course_code"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, provisioningTotal, provisioningDuration, seatsFilled, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		provisioningTotal:    provisioningTotal,
		provisioningDuration: provisioningDuration,
		seatsFilled:          seatsFilled,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveProvisioning records the outcome of a provisioning attempt.
func (s *MetricsService) ObserveProvisioning(err error, duration time.Duration) {
	s.provisioningTotal.WithLabelValues(provisioningOutcome(err)).Inc()
	s.provisioningDuration.Observe(duration.Seconds())
}

// SetSeatsFilled updates the seat gauge for a course.
func (s *MetricsService) SetSeatsFilled(courseCode string, filled int) {
	s.seatsFilled.WithLabelValues(courseCode).Set(float64(filled))
}

func provisioningOutcome(err error) string {
	if err == nil {
		return "committed"
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.ErrCapacityExceeded.Code:
			return "capacity_exceeded"
		case appErrors.ErrDuplicateIdentity.Code:
			return "duplicate_identity"
		case appErrors.ErrCollisionExhausted.Code:
			return "collision_exhausted"
		case appErrors.ErrValidation.Code:
			return "validation_failed"
		case appErrors.ErrNotFound.Code:
			return "course_not_found"
		case appErrors.ErrConflict.Code:
			return "duplicate_identity"
		}
	}
	return "error"
}

func httpStatusLabel(status int) string {
	return strconv.Itoa(status)
}
