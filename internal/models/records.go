// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package models

import "time"

// Profile is the persisted user profile record. The recommendation layer
// requires BMI; every other field has a serving-time default.
type Profile struct {
	Email             string    `json:"email" validate:"required"`
	BMI               float64   `json:"bmi" validate:"gte=0"`
	WeightKg          float64   `json:"weight_kg,omitempty" validate:"gte=0"`
	HeightCm          float64   `json:"height_cm,omitempty" validate:"gte=0"`
	ActivityLevel     string    `json:"activity_level,omitempty"`
	Goal              string    `json:"goal,omitempty" validate:"fitness_goal"`
	PreferredBodyPart string    `json:"preferred_body_part,omitempty"`
	Equipment         []string  `json:"equipment,omitempty"`
	WorkoutHistory    []int     `json:"workout_history,omitempty"`
	DailyCalories     float64   `json:"daily_calories,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// MealLog is one logged meal for a user, aggregated by the diet
// recommendation endpoint.
type MealLog struct {
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Nutrition NutritionTotals `json:"nutrition"`
	LoggedAt  time.Time       `json:"logged_at"`
}
