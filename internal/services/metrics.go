package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	ChatRequests    prometheus.Counter
	ChatLatency     prometheus.Histogram
	ResponderErrors prometheus.Counter

	LeadsStored       *prometheus.CounterVec
	LeadStoreFailures prometheus.Counter

	NotificationsSent    prometheus.Counter
	NotificationsSkipped *prometheus.CounterVec
	NotificationFailures prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		ChatRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadflow_chat_requests_total",
			Help: "Total number of chat turns processed",
		}),
		ChatLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadflow_chat_request_duration_seconds",
			Help:    "Chat turn latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		ResponderErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadflow_responder_errors_total",
			Help: "Total number of failed responder invocations",
		}),
		LeadsStored: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadflow_leads_stored_total",
			Help: "Total number of leads persisted, by lead type",
		}, []string{"lead_type"}),
		LeadStoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadflow_lead_store_failures_total",
			Help: "Total number of failed lead store appends",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadflow_notifications_sent_total",
			Help: "Total number of lead notifications sent",
		}),
		NotificationsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadflow_notifications_skipped_total",
			Help: "Total number of suppressed notifications, by reason",
		}, []string{"reason"}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadflow_notification_failures_total",
			Help: "Total number of failed notification sends",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance (nil before InitMetrics).
func GetMetrics() *Metrics {
	return globalMetrics
}

// Recording helpers no-op when metrics are not initialized so services
// stay usable in tests without touching the default registry.

func recordChatRequest(seconds float64) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.ChatRequests.Inc()
	globalMetrics.ChatLatency.Observe(seconds)
}

func recordResponderError() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.ResponderErrors.Inc()
}

func recordLeadStored(leadType string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.LeadsStored.WithLabelValues(leadType).Inc()
}

func recordLeadStoreFailure() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.LeadStoreFailures.Inc()
}

func recordNotificationSent() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.NotificationsSent.Inc()
}

func recordNotificationSkipped(reason string) {
	if globalMetrics == nil {
		return
	}
	globalMetrics.NotificationsSkipped.WithLabelValues(reason).Inc()
}

func recordNotificationFailure() {
	if globalMetrics == nil {
		return
	}
	globalMetrics.NotificationFailures.Inc()
}
