// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package models defines the JSON request and response shapes served by the
// Pulsefit HTTP API, plus the persisted record types shared across packages.
package models

// WorkoutItem is a single exercise entry in a recommendation or plan
// response. GifURL is omitted when no demonstration GIF could be derived
// from the exercise identifier.
type WorkoutItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BodyPart  string `json:"bodyPart"`
	Equipment string `json:"equipment"`
	Target    string `json:"target"`
	GifURL    string `json:"gifUrl,omitempty"`
}

// RecommendationsResponse is the payload of GET /api/get-recommendations.
type RecommendationsResponse struct {
	Success             bool          `json:"success"`
	RecommendedWorkouts []WorkoutItem `json:"recommended_workouts"`
}

// WeeklyPlanResponse is the payload of GET /api/get-personalized-weekly-plan.
// WeeklyWorkoutPlan always carries all seven weekday keys; rest days map to
// an empty list.
type WeeklyPlanResponse struct {
	Success           bool                     `json:"success"`
	BMI               float64                  `json:"bmi"`
	IntensityLevel    string                   `json:"intensity_level"`
	WeeklyWorkoutPlan map[string][]WorkoutItem `json:"weekly_workout_plan"`
}

// PersonalizedWorkoutsResponse is the payload of GET /api/get-personalized-workouts,
// the flat (non-scheduled) variant of the weekly plan.
type PersonalizedWorkoutsResponse struct {
	Success             bool          `json:"success"`
	BMI                 float64       `json:"bmi"`
	IntensityLevel      string        `json:"intensity_level"`
	RecommendedWorkouts []WorkoutItem `json:"recommended_workouts"`
}

// PlanError is the error payload used by the workout plan endpoints.
type PlanError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorBody is the bare error payload used by the meal and diet endpoints.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is a bare informational payload.
type MessageBody struct {
	Message string `json:"message"`
}

// MealFood is one selected food item inside a meal slot.
type MealFood struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Meal is one meal slot: the selected foods plus their summed macros.
type Meal struct {
	Foods         []MealFood `json:"foods"`
	TotalCalories float64    `json:"total_calories"`
	TotalProtein  float64    `json:"total_protein"`
	TotalCarbs    float64    `json:"total_carbs"`
	TotalFat      float64    `json:"total_fat"`
}

// MealPlanResponse is the payload of GET /api/meal-plan. TotalCalories sums
// every slot, snacks included.
type MealPlanResponse struct {
	Breakfast     Meal    `json:"breakfast"`
	Lunch         Meal    `json:"lunch"`
	Dinner        Meal    `json:"dinner"`
	Snacks        []Meal  `json:"snacks"`
	TotalCalories float64 `json:"total_calories"`
}

// NutritionTotals aggregates a user's logged meals for the diet classifier.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DietPlan is one canned diet recommendation from the cluster table.
type DietPlan struct {
	Goal      string `json:"goal"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks,omitempty"`
}

// DietRecommendationResponse is the payload of GET /api/recommend-diet.
type DietRecommendationResponse struct {
	BMI              float64         `json:"bmi"`
	OverallNutrition NutritionTotals `json:"overall_nutrition"`
	RecommendedDiet  DietPlan        `json:"recommended_diet"`
}

// NewsArticle is a single article proxied from the upstream news provider.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// NewsResponse is the payload of GET /api/news.
type NewsResponse struct {
	Articles []NewsArticle `json:"articles"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
