package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studentportal"

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "login_attempts_total", Help: "Login attempts by result (success, invalid, bad_request, error)."},
		[]string{"result"},
	)
	AuthGateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_gate_decisions_total", Help: "Bearer token checks on protected routes by outcome (ok, missing, invalid, error)."},
		[]string{"outcome"},
	)
	DocumentsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "documents_uploaded_total", Help: "Documents stored successfully."},
	)
	UploadedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_uploaded_bytes_total", Help: "Bytes received in successful uploads."},
	)
	Downloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_downloads_total", Help: "Download requests by result (ok, not_found, bad_request, error)."},
		[]string{"result"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by route and status.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

// RegisterCollectors registers every portal collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(AuthGateDecisions)
	reg.MustRegister(DocumentsUploaded)
	reg.MustRegister(UploadedBytes)
	reg.MustRegister(Downloads)
	reg.MustRegister(RequestDuration)
}
