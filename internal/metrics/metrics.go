// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Plan generation outcomes (workout and meal)
// - Catalog and similarity index sizes
// - Embedded store operations
// - Upstream news client and its circuit breaker

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsefit_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulsefit_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsefit_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Plan generation metrics
	PlansGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsefit_plans_generated_total",
			Help: "Total number of generated plans by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: weekly_workout, meal, diet, recommendations
	)

	PlanGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulsefit_plan_generation_duration_seconds",
			Help:    "Plan generation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"kind"},
	)

	// Catalog metrics (set once at startup)
	CatalogSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulsefit_catalog_size",
			Help: "Number of records loaded per catalog",
		},
		[]string{"catalog"}, // "exercises", "foods"
	)

	SimilarityVocabSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsefit_similarity_vocabulary_size",
			Help: "Number of terms in the exercise similarity vocabulary",
		},
	)

	// Embedded store metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsefit_store_operations_total",
			Help: "Total embedded store operations by kind and outcome",
		},
		[]string{"operation", "outcome"}, // operation: get, put, list
	)

	// Upstream news client metrics
	NewsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsefit_news_requests_total",
			Help: "Total upstream news requests by outcome",
		},
		[]string{"outcome"}, // "success", "error", "breaker_open"
	)

	NewsBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsefit_news_breaker_state",
			Help: "News circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records metrics for a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPlanGeneration records one plan generation attempt.
func RecordPlanGeneration(kind string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PlansGenerated.WithLabelValues(kind, outcome).Inc()
	PlanGenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetCatalogSize records the loaded size of a catalog.
func SetCatalogSize(catalog string, size int) {
	CatalogSize.WithLabelValues(catalog).Set(float64(size))
}

// RecordStoreOperation records one embedded store operation.
func RecordStoreOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StoreOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordNewsRequest records one upstream news request outcome.
func RecordNewsRequest(outcome string) {
	NewsRequests.WithLabelValues(outcome).Inc()
}

// SetNewsBreakerState records the circuit breaker state as a numeric gauge.
func SetNewsBreakerState(state int) {
	NewsBreakerState.Set(float64(state))
}
