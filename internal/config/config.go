// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package config loads and validates Pulsefit configuration.
//
// Configuration is layered with koanf: struct defaults first, then an
// optional YAML file, then PULSEFIT_* environment variables, highest
// priority last. The resulting struct is validated before use.
package config

import "time"

// Config is the root configuration for the Pulsefit server.
type Config struct {
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Auth    AuthConfig    `koanf:"auth"`
	Data    DataConfig    `koanf:"data" validate:"required"`
	Plan    PlanConfig    `koanf:"plan"`
	Diet    DietConfig    `koanf:"diet"`
	Store   StoreConfig   `koanf:"store"`
	News    NewsConfig    `koanf:"news"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"required,min=1,max=65535"`

	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`

	// CORSOrigins lists allowed cross-origin hosts. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-IP request budget per RateWindow. 0 disables.
	RateLimit  int           `koanf:"rate_limit" validate:"min=0"`
	RateWindow time.Duration `koanf:"rate_window"`
}

// AuthConfig holds JWT authentication settings.
type AuthConfig struct {
	// Enabled gates bearer-token checks on the /api routes.
	Enabled bool `koanf:"enabled"`

	// JWTSecret signs and verifies HS256 tokens. Required when Enabled.
	JWTSecret string `koanf:"jwt_secret" validate:"required_if=Enabled true,omitempty,min=32"`

	// TokenTTL bounds how long issued tokens stay valid.
	TokenTTL time.Duration `koanf:"token_ttl" validate:"min=1m"`
}

// DataConfig points at the catalog and model artifacts loaded at startup.
type DataConfig struct {
	ExerciseCSV string `koanf:"exercise_csv" validate:"required"`
	FoodCSV     string `koanf:"food_csv" validate:"required"`
	DietModel   string `koanf:"diet_model" validate:"required"`
}

// PlanConfig tunes workout and meal plan generation.
type PlanConfig struct {
	// GIFBaseURL is the CDN prefix for exercise demonstration GIFs.
	GIFBaseURL string `koanf:"gif_base_url" validate:"required,url"`

	// HistoryWindow is how many recent plan entries per body part are
	// avoided when sampling new exercises.
	HistoryWindow int `koanf:"history_window" validate:"min=0"`

	// MealNeighbors is how many nearest foods are considered per slot.
	MealNeighbors int `koanf:"meal_neighbors" validate:"min=1"`

	// MealPicks is how many foods are suggested per slot.
	MealPicks int `koanf:"meal_picks" validate:"min=1"`
}

// DietConfig tunes the diet cluster classifier.
type DietConfig struct {
	// AuxFeatures are the fixed non-BMI inputs appended to the model
	// feature vector, in artifact order.
	AuxFeatures []float64 `koanf:"aux_features"`
}

// StoreConfig holds embedded persistence settings.
type StoreConfig struct {
	// Dir is the Badger database directory. Empty selects in-memory mode.
	Dir string `koanf:"dir"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval" validate:"min=1m"`
}

// NewsConfig holds the upstream fitness-news client settings.
type NewsConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey  string        `koanf:"api_key" validate:"required_if=Enabled true"`
	Query   string        `koanf:"query"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaults returns a Config populated with sane development defaults.
func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       100,
			RateWindow:      time.Minute,
		},
		Auth: AuthConfig{
			Enabled:  false,
			TokenTTL: 24 * time.Hour,
		},
		Data: DataConfig{
			ExerciseCSV: "data/fitness_exercises.csv",
			FoodCSV:     "data/food_database.csv",
			DietModel:   "data/diet_model.json",
		},
		Plan: PlanConfig{
			GIFBaseURL:    "https://d205bpvrqc9yn1.cloudfront.net",
			HistoryWindow: 5,
			MealNeighbors: 5,
			MealPicks:     3,
		},
		Diet: DietConfig{
			AuxFeatures: []float64{3, 4, 2, 2},
		},
		Store: StoreConfig{
			Dir:        "",
			GCInterval: 10 * time.Minute,
		},
		News: NewsConfig{
			Enabled: false,
			Query:   "fitness OR workout OR nutrition",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
