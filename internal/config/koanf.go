// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pulsefit/pulsefit/internal/validation"
)

// envPrefix namespaces every Pulsefit environment variable.
const envPrefix = "PULSEFIT_"

// envKeyMap maps environment variable suffixes to koanf config paths.
// Only variables listed here are honored; anything else under the prefix
// is ignored rather than guessed at.
var envKeyMap = map[string]string{
	"SERVER_HOST":             "server.host",
	"SERVER_PORT":             "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":     "server.idle_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"SERVER_CORS_ORIGINS":     "server.cors_origins",
	"SERVER_RATE_LIMIT":       "server.rate_limit",
	"SERVER_RATE_WINDOW":      "server.rate_window",

	"AUTH_ENABLED":    "auth.enabled",
	"AUTH_JWT_SECRET": "auth.jwt_secret",
	"AUTH_TOKEN_TTL":  "auth.token_ttl",

	"DATA_EXERCISE_CSV": "data.exercise_csv",
	"DATA_FOOD_CSV":     "data.food_csv",
	"DATA_DIET_MODEL":   "data.diet_model",

	"PLAN_GIF_BASE_URL":   "plan.gif_base_url",
	"PLAN_HISTORY_WINDOW": "plan.history_window",
	"PLAN_MEAL_NEIGHBORS": "plan.meal_neighbors",
	"PLAN_MEAL_PICKS":     "plan.meal_picks",

	"STORE_DIR":         "store.dir",
	"STORE_GC_INTERVAL": "store.gc_interval",

	"NEWS_ENABLED":  "news.enabled",
	"NEWS_BASE_URL": "news.base_url",
	"NEWS_API_KEY":  "news.api_key",
	"NEWS_QUERY":    "news.query",
	"NEWS_TIMEOUT":  "news.timeout",

	"LOGGING_LEVEL":  "logging.level",
	"LOGGING_FORMAT": "logging.format",
	"LOGGING_CALLER": "logging.caller",
}

// Load builds the configuration from defaults, then the optional YAML file
// at path, then PULSEFIT_* environment variables. A missing file is only an
// error when the path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform resolves a PULSEFIT_* variable name to its koanf path.
// Unknown variables map to "" and are dropped by koanf.
func envTransform(s string) string {
	key := strings.TrimPrefix(s, envPrefix)
	if path, ok := envKeyMap[key]; ok {
		return path
	}
	return ""
}

// Validate checks a Config against its struct validation tags plus the
// cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	v := validation.GetValidator()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: field %s failed rule %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Server.RateLimit > 0 && cfg.Server.RateWindow <= 0 {
		return fmt.Errorf("invalid config: server.rate_window must be positive when rate limiting is enabled")
	}
	return nil
}
