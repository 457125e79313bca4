// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package main is the entry point for the Pulsefit server.
//
// Pulsefit is a REST backend for a fitness-tracking application. Its core is
// the recommendation subsystem: content-based exercise similarity over body
// part / equipment / target tags, nearest-neighbor meal assembly against
// calorie and macro targets, a 7-day workout plan builder with history
// avoidance, and a pre-trained diet cluster classifier.
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 layering defaults, an optional YAML file, and
//     PULSEFIT_* environment variables
//  2. Logging: zerolog, JSON or console format
//  3. Catalogs: exercise and food CSVs loaded once and treated as read-only
//  4. Indices: TF-IDF cosine similarity matrix and the food macro matcher
//  5. Diet model: JSON centroid artifact (optional; its endpoint degrades)
//  6. Store: embedded Badger database for profiles and meal logs
//  7. News client: circuit-breaker-wrapped upstream feed (optional)
//  8. HTTP server: chi router with graceful shutdown on SIGINT/SIGTERM
//
// Run with a config file:
//
//	./pulsefit -config config.yaml
//
// Or configure through the environment:
//
//	export PULSEFIT_SERVER_PORT=5000
//	export PULSEFIT_DATA_EXERCISE_CSV=data/fitness_exercises.csv
//	./pulsefit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulsefit/pulsefit/internal/api"
	"github.com/pulsefit/pulsefit/internal/auth"
	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/dietmodel"
	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/news"
	"github.com/pulsefit/pulsefit/internal/planner"
	"github.com/pulsefit/pulsefit/internal/recommend"
	"github.com/pulsefit/pulsefit/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Int("port", cfg.Server.Port).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Bool("news_enabled", cfg.News.Enabled).
		Msg("Starting Pulsefit")

	// Catalogs and indices are built once; handlers treat them as immutable.
	// A failed load logs and leaves the dependent endpoints unavailable
	// rather than killing the process, so readiness can report the gap.
	var (
		weekly      *planner.WeeklyPlanner
		meals       *planner.MealPlanner
		recommender *planner.Recommender
	)

	exercises, err := catalog.LoadExercises(cfg.Data.ExerciseCSV)
	if err != nil {
		logging.Error().Err(err).Str("path", cfg.Data.ExerciseCSV).Msg("Exercise catalog unavailable")
	} else {
		weekly, err = planner.NewWeeklyPlanner(exercises, cfg.Plan.GIFBaseURL, cfg.Plan.HistoryWindow)
		if err != nil {
			logging.Error().Err(err).Msg("Weekly planner unavailable")
		}
		index, err := recommend.NewIndex(exercises)
		if err != nil {
			logging.Error().Err(err).Msg("Similarity index unavailable")
		} else if weekly != nil {
			recommender, err = planner.NewRecommender(index, weekly, cfg.Plan.GIFBaseURL)
			if err != nil {
				logging.Error().Err(err).Msg("Recommender unavailable")
			}
		}
	}

	foods, err := catalog.LoadFoods(cfg.Data.FoodCSV)
	if err != nil {
		logging.Error().Err(err).Str("path", cfg.Data.FoodCSV).Msg("Food catalog unavailable")
	} else {
		matcher, err := recommend.NewMatcher(foods)
		if err != nil {
			logging.Error().Err(err).Msg("Meal matcher unavailable")
		} else {
			meals, err = planner.NewMealPlanner(matcher, cfg.Plan.MealNeighbors, cfg.Plan.MealPicks)
			if err != nil {
				logging.Error().Err(err).Msg("Meal planner unavailable")
			}
		}
	}

	diet, err := dietmodel.Load(cfg.Data.DietModel)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Data.DietModel).Msg("Diet model unavailable, endpoint degraded")
	}

	db, err := store.Open(&cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Store.Dir != "" {
		go store.RunGC(ctx, db, &cfg.Store)
	}

	var fetcher news.Fetcher
	if cfg.News.Enabled {
		fetcher = news.NewClient(&cfg.News)
		logging.Info().Str("query", cfg.News.Query).Msg("News client enabled")
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.Enabled {
		jwtManager, err = auth.NewJWTManager(&cfg.Auth)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
	}
	authMW := auth.NewMiddleware(jwtManager, cfg.Auth.Enabled)

	handler := api.NewHandler(
		cfg,
		store.NewProfileStore(db),
		store.NewMealLogStore(db),
		recommender,
		weekly,
		meals,
		diet,
		fetcher,
	)
	router := api.NewRouter(handler, authMW, &cfg.Server)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Pulsefit stopped")
}
