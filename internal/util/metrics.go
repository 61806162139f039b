package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Total number of orders submitted",
	})

	OrdersRevisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_revised_total",
		Help: "Total number of orders revised",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_deleted_total",
		Help: "Total number of orders deleted",
	})

	OrderRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_rejections_total",
		Help: "Total number of rejected order submissions and revisions",
	}, []string{"reason"})

	StockDepletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_depletions_total",
		Help: "Total number of products observed at zero inventory after an order",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"outcome"})

	RecipesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipes_created_total",
		Help: "Total number of recipes created",
	})

	ReviewsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_added_total",
		Help: "Total number of recipe reviews added",
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
