package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderdesk"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	PaymentsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_processed_total",
			Help:      "Payments that went through the processor, by resulting status.",
		},
		[]string{"status"},
	)

	OrderConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_confirmations_total",
			Help:      "Confirmed orders, by whether the external system was notified.",
		},
		[]string{"notified"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPRequestDuration, PaymentsProcessed, OrderConfirmations)
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
