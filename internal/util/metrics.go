package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of confirmed bookings",
	}, []string{"type"})

	BookingsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_rejected_total",
		Help: "Total number of rejected booking requests",
	}, []string{"type", "reason"})

	BookingsReplayedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_replayed_total",
		Help: "Booking requests answered from an idempotency key",
	}, []string{"type"})

	BookingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "booking_pipeline_latency_seconds",
		Help:    "Latency of the booking pipeline",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failures_total",
		Help: "Requests rejected by the api key check",
	}, []string{"reason"})

	NotificationsDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Booking notifications accepted by a sink",
	}, []string{"sink"})

	NotificationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Booking notifications a sink failed to accept",
	}, []string{"sink"})

	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Booking notifications dropped because the queue was full",
	})

	NotificationQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_queue_depth",
		Help: "Booking notifications waiting for delivery",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
