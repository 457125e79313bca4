// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pulsefit/pulsefit/internal/auth"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/dietmodel"
	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/metrics"
	"github.com/pulsefit/pulsefit/internal/models"
	"github.com/pulsefit/pulsefit/internal/news"
	"github.com/pulsefit/pulsefit/internal/planner"
	"github.com/pulsefit/pulsefit/internal/store"
)

const (
	defaultRecommendationCount = 10
	maxRecommendationCount     = 50
	defaultNewsLimit           = 20
	maxNewsLimit               = 50
)

// Client-facing messages. The plan endpoints speak {success:false, error};
// the meal and diet endpoints speak bare {error} or {message}.
const (
	msgBMIMissing        = "BMI not found. Please update your profile."
	msgProfileNotFound   = "Profile not found. Please complete your profile first."
	msgIncompleteProfile = "Incomplete profile data"
	msgPlanFailed        = "Failed to generate workout plan"
	msgMealPlanFailed    = "Failed to generate meal plan"
	msgRecommendFailed   = "Failed to generate recommendations"
	msgNoMealData        = "No meal data available"
	msgDietModelMissing  = "Diet model not available"
	msgNewsUnavailable   = "News feed unavailable"
	msgWelcome           = "Welcome to the Pulsefit API"
)

// NutritionReader aggregates a user's logged meals.
type NutritionReader interface {
	Totals(ctx context.Context, email string) (models.NutritionTotals, int, error)
}

// Handler carries the immutable service objects and stores the endpoints
// depend on. Optional dependencies (diet model, news client) may be nil;
// their endpoints then answer with the unavailable error.
type Handler struct {
	config      *config.Config
	profiles    store.ProfileReader
	nutrition   NutritionReader
	recommender *planner.Recommender
	weekly      *planner.WeeklyPlanner
	meals       *planner.MealPlanner
	diet        *dietmodel.Model
	news        news.Fetcher
	startTime   time.Time
}

// NewHandler wires the API handler. recommender, weekly, and meals may be
// nil when the exercise or food catalog failed to load; the corresponding
// endpoints return 500 until the artifact is fixed, matching health output.
func NewHandler(
	cfg *config.Config,
	profiles store.ProfileReader,
	nutrition NutritionReader,
	recommender *planner.Recommender,
	weekly *planner.WeeklyPlanner,
	meals *planner.MealPlanner,
	diet *dietmodel.Model,
	fetcher news.Fetcher,
) *Handler {
	return &Handler{
		config:      cfg,
		profiles:    profiles,
		nutrition:   nutrition,
		recommender: recommender,
		weekly:      weekly,
		meals:       meals,
		diet:        diet,
		news:        fetcher,
		startTime:   time.Now(),
	}
}

// Root answers the API welcome message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.MessageBody{Message: msgWelcome})
}

// GetRecommendations serves GET /api/get-recommendations: profile-independent
// similarity-based workout suggestions. A "seed" query parameter makes the
// sampling reproducible.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	if h.recommender == nil {
		respondPlanError(w, http.StatusInternalServerError, msgRecommendFailed, planner.ErrCatalogUnavailable)
		return
	}

	count := clampInt(getIntParam(r, "count", defaultRecommendationCount), 1, maxRecommendationCount)

	start := time.Now()
	items := h.recommender.General(count, requestRNG(r))
	metrics.RecordPlanGeneration("recommendations", time.Since(start), nil)

	respondJSON(w, http.StatusOK, models.RecommendationsResponse{
		Success:             true,
		RecommendedWorkouts: items,
	})
}

// GetPersonalizedWeeklyPlan serves GET /api/get-personalized-weekly-plan:
// a 7-day schedule derived from the caller's stored profile.
func (h *Handler) GetPersonalizedWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	if h.weekly == nil {
		respondPlanError(w, http.StatusInternalServerError, msgPlanFailed, planner.ErrCatalogUnavailable)
		return
	}

	profile, ok := h.planProfile(w, r)
	if !ok {
		return
	}

	start := time.Now()
	plan, err := h.weekly.Build(profileToPlan(profile), requestRNG(r))
	metrics.RecordPlanGeneration("weekly_plan", time.Since(start), err)
	if err != nil {
		respondPlanError(w, http.StatusInternalServerError, msgPlanFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, models.WeeklyPlanResponse{
		Success:           true,
		BMI:               profile.BMI,
		IntensityLevel:    planner.IntensityForBMI(profile.BMI),
		WeeklyWorkoutPlan: plan,
	})
}

// GetPersonalizedWorkouts serves GET /api/get-personalized-workouts: the
// flat, unscheduled variant of the weekly plan.
func (h *Handler) GetPersonalizedWorkouts(w http.ResponseWriter, r *http.Request) {
	if h.recommender == nil {
		respondPlanError(w, http.StatusInternalServerError, msgRecommendFailed, planner.ErrCatalogUnavailable)
		return
	}

	profile, ok := h.planProfile(w, r)
	if !ok {
		return
	}

	count := clampInt(getIntParam(r, "count", defaultRecommendationCount), 1, maxRecommendationCount)

	start := time.Now()
	items := h.recommender.Personalized(profileToPlan(profile), count, requestRNG(r))
	metrics.RecordPlanGeneration("personalized_workouts", time.Since(start), nil)

	respondJSON(w, http.StatusOK, models.PersonalizedWorkoutsResponse{
		Success:             true,
		BMI:                 profile.BMI,
		IntensityLevel:      planner.IntensityForBMI(profile.BMI),
		RecommendedWorkouts: items,
	})
}

// GetMealPlan serves GET /api/meal-plan: a five-slot daily plan sized to the
// caller's calorie budget and BMI macro bracket.
func (h *Handler) GetMealPlan(w http.ResponseWriter, r *http.Request) {
	if h.meals == nil {
		respondErrorBody(w, http.StatusInternalServerError, msgMealPlanFailed, planner.ErrMatcherUnavailable)
		return
	}

	email := auth.IdentityFromContext(r.Context())
	profile, err := h.profiles.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondErrorBody(w, http.StatusNotFound, msgProfileNotFound, nil)
			return
		}
		respondErrorBody(w, http.StatusInternalServerError, msgMealPlanFailed, err)
		return
	}
	if profile.BMI <= 0 || (profile.DailyCalories <= 0 && profile.WeightKg <= 0) {
		respondErrorBody(w, http.StatusBadRequest, msgIncompleteProfile, nil)
		return
	}

	base := profile.DailyCalories
	if base <= 0 {
		base = planner.DailyCalories(profile.WeightKg, profile.ActivityLevel)
	}
	calories := planner.AdjustCalories(base, profile.BMI, profile.Goal)

	start := time.Now()
	plan, err := h.meals.GenerateMealPlan(profile.BMI, calories, requestRNG(r))
	metrics.RecordPlanGeneration("meal_plan", time.Since(start), err)
	if err != nil {
		respondErrorBody(w, http.StatusInternalServerError, msgMealPlanFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// RecommendDiet serves GET /api/recommend-diet: classifies the caller into a
// canned diet plan from their BMI and reports their logged nutrition totals.
func (h *Handler) RecommendDiet(w http.ResponseWriter, r *http.Request) {
	email := auth.IdentityFromContext(r.Context())
	profile, err := h.profiles.Get(r.Context(), email)
	if err != nil || profile.BMI <= 0 {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			respondErrorBody(w, http.StatusInternalServerError, msgDietModelMissing, err)
			return
		}
		respondErrorBody(w, http.StatusBadRequest, msgBMIMissing, nil)
		return
	}

	totals, logged, err := h.nutrition.Totals(r.Context(), email)
	if err != nil {
		respondErrorBody(w, http.StatusInternalServerError, msgDietModelMissing, err)
		return
	}
	if logged == 0 {
		respondJSON(w, http.StatusBadRequest, models.MessageBody{Message: msgNoMealData})
		return
	}

	if h.diet == nil {
		respondErrorBody(w, http.StatusInternalServerError, msgDietModelMissing, nil)
		return
	}
	plan, err := h.diet.Recommend(profile.BMI, h.config.Diet.AuxFeatures)
	if err != nil {
		respondErrorBody(w, http.StatusInternalServerError, msgDietModelMissing, err)
		return
	}

	respondJSON(w, http.StatusOK, models.DietRecommendationResponse{
		BMI:              profile.BMI,
		OverallNutrition: totals,
		RecommendedDiet:  plan,
	})
}

// GetNews serves GET /api/news, proxying the upstream fitness news feed.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	if h.news == nil {
		respondErrorBody(w, http.StatusServiceUnavailable, msgNewsUnavailable, nil)
		return
	}

	limit := clampInt(getIntParam(r, "limit", defaultNewsLimit), 1, maxNewsLimit)
	articles, err := h.news.Headlines(r.Context(), limit)
	if err != nil {
		respondErrorBody(w, http.StatusInternalServerError, msgNewsUnavailable, err)
		return
	}

	respondJSON(w, http.StatusOK, models.NewsResponse{Articles: articles})
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// HealthReady reports readiness: every catalog-derived service must have
// loaded. Optional services (diet model, news) degrade status to "degraded"
// without failing readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"exercise_catalog": availability(h.weekly != nil),
		"similarity_index": availability(h.recommender != nil),
		"food_catalog":     availability(h.meals != nil),
		"diet_model":       availability(h.diet != nil),
	}

	status := "ok"
	code := http.StatusOK
	if h.weekly == nil || h.recommender == nil || h.meals == nil {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	} else if h.diet == nil {
		status = "degraded"
	}

	respondJSON(w, code, models.HealthResponse{Status: status, Checks: checks})
}

// Health is the combined health endpoint, equivalent to readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.HealthReady(w, r)
}

// planProfile loads the caller's profile for the workout plan endpoints and
// writes the 400 plan error when the BMI is missing.
func (h *Handler) planProfile(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	email := auth.IdentityFromContext(r.Context())
	profile, err := h.profiles.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondPlanError(w, http.StatusBadRequest, msgBMIMissing, nil)
			return nil, false
		}
		respondPlanError(w, http.StatusInternalServerError, msgPlanFailed, err)
		return nil, false
	}
	if profile.BMI <= 0 {
		respondPlanError(w, http.StatusBadRequest, msgBMIMissing, nil)
		return nil, false
	}

	logging.Debug().Str("user", sanitizeLogValue(email)).Float64("bmi", profile.BMI).Msg("Plan profile resolved")
	return profile, true
}

// profileToPlan projects the stored profile onto the planner's input. Users
// with no declared equipment default to body weight so the equipment filter
// never empties the pool.
func profileToPlan(p *models.Profile) planner.PlanProfile {
	equipment := p.Equipment
	if len(equipment) == 0 {
		equipment = []string{"body weight"}
	}
	return planner.PlanProfile{
		BMI:               p.BMI,
		PreferredBodyPart: p.PreferredBodyPart,
		Equipment:         equipment,
		WorkoutHistory:    p.WorkoutHistory,
	}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}
