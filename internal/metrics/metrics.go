package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
)

// Prometheus metrics for the participation lifecycle and the HTTP surface
var (
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	CheckInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_checkins_total",
			Help: "Check-in attempts by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	StatusAdvancesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_status_advances_total",
			Help: "Organizer status advances by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	CertificatesRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campus_certificates_rendered_total",
			Help: "Total number of certificate PDFs rendered",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RegistrationsTotal)
		prometheus.MustRegister(CheckInsTotal)
		prometheus.MustRegister(StatusAdvancesTotal)
		prometheus.MustRegister(CertificatesRenderedTotal)
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
	})
}

// Outcome turns a service result into a label value: "success" for nil,
// the error code for a *common.Error, "error" otherwise.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	var ce *common.Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return "error"
}
