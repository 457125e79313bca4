// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulsefit/pulsefit/internal/auth"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/middleware"
)

// Router assembles the chi route tree for the Pulsefit API.
type Router struct {
	handler *Handler
	auth    *auth.Middleware
	cfg     *config.ServerConfig
}

// NewRouter creates the router over a wired handler.
func NewRouter(handler *Handler, authMW *auth.Middleware, cfg *config.ServerConfig) *Router {
	return &Router{handler: handler, auth: authMW, cfg: cfg}
}

// Setup builds the HTTP handler with the full middleware stack. Health and
// metrics stay outside the authenticated group so probes and scrapers never
// need credentials.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Email"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if router.cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(router.cfg.RateLimit, router.cfg.RateWindow))
	}

	r.Get("/", router.handler.Root)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", router.handler.Health)
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PrometheusMetrics)
			r.Use(router.auth.Authenticate)

			r.Get("/get-recommendations", router.handler.GetRecommendations)
			r.Get("/get-personalized-weekly-plan", router.handler.GetPersonalizedWeeklyPlan)
			r.Get("/get-personalized-workouts", router.handler.GetPersonalizedWorkouts)
			r.Get("/meal-plan", router.handler.GetMealPlan)
			r.Get("/recommend-diet", router.handler.RecommendDiet)
			r.Get("/news", router.handler.GetNews)
		})
	})

	return r
}
