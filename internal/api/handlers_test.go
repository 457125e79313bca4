// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/pulsefit/pulsefit/internal/auth"
	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/dietmodel"
	"github.com/pulsefit/pulsefit/internal/models"
	"github.com/pulsefit/pulsefit/internal/news"
	"github.com/pulsefit/pulsefit/internal/planner"
	"github.com/pulsefit/pulsefit/internal/recommend"
	"github.com/pulsefit/pulsefit/internal/store"
)

const testExerciseCSV = `id,name,bodyPart,equipment,target
1,jumping jacks,cardio,body weight,cardiovascular system
2,treadmill run,cardio,treadmill,cardiovascular system
3,burpee,full body,body weight,cardiovascular system
4,mountain climber,full body,body weight,abs
5,bicep curl,upper arms,body weight,biceps
6,hammer curl,upper arms,dumbbell,biceps
7,wrist curl,lower arms,dumbbell,forearms
8,calf raise,lower legs,body weight,calves
9,squat,upper legs,body weight,quads
10,crunch,waist,body weight,abs
11,plank,waist,body weight,abs
12,bench press,chest,barbell,pectorals
13,push up,chest,body weight,pectorals
14,shoulder press,shoulders,dumbbell,delts
15,high knees,cardio,body weight,cardiovascular system
16,rowing machine,cardio,machine,cardiovascular system
`

const testFoodCSV = `name,calories,protein,carbs,fat
Apple,52,0.3,14,0.2
Chicken Breast,165,31,0,3.6
Oatmeal,150,5,27,3
Salmon,208,20,0,13
White Rice,130,2.7,28,0.3
Greek Yogurt,59,10,3.6,0.4
Almonds,579,21,22,50
Banana,89,1.1,23,0.3
`

const testModelJSON = `{
	"version": 1,
	"feature_names": ["bmi", "meals_per_day", "activity_score", "water_intake", "sleep_quality"],
	"centroids": [
		[17.0, 3, 4, 2, 2],
		[22.0, 3, 4, 2, 2],
		[29.0, 3, 4, 2, 2]
	]
}`

// testEnv wires a full handler over in-memory stores and fixture catalogs.
type testEnv struct {
	handler  *Handler
	profiles *store.ProfileStore
	mealLogs *store.MealLogStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.Open(&config.StoreConfig{Dir: "", GCInterval: time.Minute})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	exercises, err := catalog.ReadExercises(strings.NewReader(testExerciseCSV))
	if err != nil {
		t.Fatalf("ReadExercises() error = %v", err)
	}
	foods, err := catalog.ReadFoods(strings.NewReader(testFoodCSV))
	if err != nil {
		t.Fatalf("ReadFoods() error = %v", err)
	}
	index, err := recommend.NewIndex(exercises)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	matcher, err := recommend.NewMatcher(foods)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}

	const gifBase = "https://gifs.example.com"
	weekly, err := planner.NewWeeklyPlanner(exercises, gifBase, 5)
	if err != nil {
		t.Fatalf("NewWeeklyPlanner() error = %v", err)
	}
	meals, err := planner.NewMealPlanner(matcher, 5, 3)
	if err != nil {
		t.Fatalf("NewMealPlanner() error = %v", err)
	}
	recommender, err := planner.NewRecommender(index, weekly, gifBase)
	if err != nil {
		t.Fatalf("NewRecommender() error = %v", err)
	}

	modelPath := filepath.Join(t.TempDir(), "diet_model.json")
	if err := os.WriteFile(modelPath, []byte(testModelJSON), 0o600); err != nil {
		t.Fatalf("writing model fixture: %v", err)
	}
	diet, err := dietmodel.Load(modelPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := &config.Config{
		Diet: config.DietConfig{AuxFeatures: []float64{3, 4, 2, 2}},
	}
	profiles := store.NewProfileStore(db)
	mealLogs := store.NewMealLogStore(db)

	return &testEnv{
		handler:  NewHandler(cfg, profiles, mealLogs, recommender, weekly, meals, diet, nil),
		profiles: profiles,
		mealLogs: mealLogs,
		cfg:      cfg,
	}
}

// do runs a handler func with the given identity on the request context.
func do(t *testing.T, fn http.HandlerFunc, target, email string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	if email != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), email))
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func putProfile(t *testing.T, env *testEnv, p models.Profile) {
	t.Helper()
	if err := env.profiles.Put(context.Background(), &p); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
}

func TestRootWelcome(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.Root, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body models.MessageBody
	decode(t, rec, &body)
	if body.Message == "" {
		t.Error("welcome message missing")
	}
}

func TestGetRecommendations(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.GetRecommendations, "/api/get-recommendations?count=5", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body models.RecommendationsResponse
	decode(t, rec, &body)
	if !body.Success {
		t.Error("success = false")
	}
	if len(body.RecommendedWorkouts) == 0 || len(body.RecommendedWorkouts) > 5 {
		t.Errorf("len(workouts) = %d, want 1..5", len(body.RecommendedWorkouts))
	}
	for _, item := range body.RecommendedWorkouts {
		if item.GifURL == "" || !strings.HasSuffix(item.GifURL, ".gif") {
			t.Errorf("workout %d has bad gifUrl %q", item.ID, item.GifURL)
		}
	}
}

func TestGetRecommendationsSeedDeterminism(t *testing.T) {
	env := newTestEnv(t)
	first := do(t, env.handler.GetRecommendations, "/api/get-recommendations?count=6&seed=42", "")
	second := do(t, env.handler.GetRecommendations, "/api/get-recommendations?count=6&seed=42", "")

	if first.Body.String() != second.Body.String() {
		t.Error("identical seeds produced different responses")
	}
}

func TestGetRecommendationsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.handler.recommender = nil

	rec := do(t, env.handler.GetRecommendations, "/api/get-recommendations", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body models.PlanError
	decode(t, rec, &body)
	if body.Success {
		t.Error("success should be false")
	}
}

func TestWeeklyPlanMissingProfile(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.GetPersonalizedWeeklyPlan, "/api/get-personalized-weekly-plan", "ghost@example.com")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body models.PlanError
	decode(t, rec, &body)
	if body.Success || body.Error != msgBMIMissing {
		t.Errorf("body = %+v", body)
	}
}

func TestWeeklyPlanMissingBMI(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{Email: "nobmi@example.com", WeightKg: 70})

	rec := do(t, env.handler.GetPersonalizedWeeklyPlan, "/api/get-personalized-weekly-plan", "nobmi@example.com")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWeeklyPlanSuccess(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{
		Email:             "alice@example.com",
		BMI:               22,
		PreferredBodyPart: "chest",
	})

	rec := do(t, env.handler.GetPersonalizedWeeklyPlan, "/api/get-personalized-weekly-plan?seed=7", "alice@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.WeeklyPlanResponse
	decode(t, rec, &body)
	if !body.Success || body.BMI != 22 {
		t.Errorf("body header = %+v", body)
	}
	if body.IntensityLevel != "intermediate" {
		t.Errorf("intensity = %q, want intermediate", body.IntensityLevel)
	}
	if len(body.WeeklyWorkoutPlan) != 7 {
		t.Fatalf("plan has %d day keys, want 7", len(body.WeeklyWorkoutPlan))
	}
	if len(body.WeeklyWorkoutPlan["Sunday"]) != 0 {
		t.Error("Sunday should be a rest day")
	}
}

func TestPersonalizedWorkouts(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{
		Email:          "bob@example.com",
		BMI:            27,
		WorkoutHistory: []int{12},
	})

	rec := do(t, env.handler.GetPersonalizedWorkouts, "/api/get-personalized-workouts?count=4&seed=3", "bob@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.PersonalizedWorkoutsResponse
	decode(t, rec, &body)
	if !body.Success || body.IntensityLevel != "advanced" {
		t.Errorf("body header = %+v", body)
	}
	if len(body.RecommendedWorkouts) == 0 || len(body.RecommendedWorkouts) > 4 {
		t.Errorf("len(workouts) = %d, want 1..4", len(body.RecommendedWorkouts))
	}
	for _, item := range body.RecommendedWorkouts {
		if item.ID == 12 {
			t.Error("recently performed exercise should not be recommended")
		}
	}
}

func TestMealPlanProfileNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.GetMealPlan, "/api/meal-plan", "ghost@example.com")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body models.ErrorBody
	decode(t, rec, &body)
	if body.Error != msgProfileNotFound {
		t.Errorf("error = %q", body.Error)
	}
}

func TestMealPlanIncompleteProfile(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{Email: "thin@example.com", BMI: 21})

	rec := do(t, env.handler.GetMealPlan, "/api/meal-plan", "thin@example.com")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body models.ErrorBody
	decode(t, rec, &body)
	if body.Error != msgIncompleteProfile {
		t.Errorf("error = %q", body.Error)
	}
}

func TestMealPlanSuccess(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{
		Email:         "carol@example.com",
		BMI:           22,
		WeightKg:      60,
		ActivityLevel: "moderate",
		Goal:          "maintain",
	})

	rec := do(t, env.handler.GetMealPlan, "/api/meal-plan?seed=11", "carol@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.MealPlanResponse
	decode(t, rec, &body)
	if len(body.Snacks) != 2 {
		t.Fatalf("len(snacks) = %d, want 2", len(body.Snacks))
	}
	sum := body.Breakfast.TotalCalories + body.Lunch.TotalCalories +
		body.Dinner.TotalCalories + body.Snacks[0].TotalCalories + body.Snacks[1].TotalCalories
	if diff := body.TotalCalories - sum; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("total_calories = %v, slot sum = %v", body.TotalCalories, sum)
	}
	if len(body.Breakfast.Foods) == 0 {
		t.Error("breakfast has no foods")
	}
}

func TestMealPlanFromStoredCalories(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{
		Email:         "erin@example.com",
		BMI:           22,
		DailyCalories: 2000,
	})

	rec := do(t, env.handler.GetMealPlan, "/api/meal-plan?seed=11", "erin@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.MealPlanResponse
	decode(t, rec, &body)
	if body.TotalCalories <= 0 {
		t.Errorf("total_calories = %v, want > 0", body.TotalCalories)
	}
	if len(body.Breakfast.Foods) == 0 {
		t.Error("breakfast has no foods")
	}
}

func TestRecommendDietMissingBMI(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.RecommendDiet, "/api/recommend-diet", "ghost@example.com")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body models.ErrorBody
	decode(t, rec, &body)
	if body.Error != msgBMIMissing {
		t.Errorf("error = %q", body.Error)
	}
}

func TestRecommendDietNoMealData(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{Email: "dan@example.com", BMI: 24})

	rec := do(t, env.handler.RecommendDiet, "/api/recommend-diet", "dan@example.com")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body models.MessageBody
	decode(t, rec, &body)
	if body.Message != msgNoMealData {
		t.Errorf("message = %q", body.Message)
	}
}

func TestRecommendDietSuccess(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{Email: "erin@example.com", BMI: 28.5})
	err := env.mealLogs.Append(context.Background(), &models.MealLog{
		Email:     "erin@example.com",
		Name:      "grilled chicken",
		Nutrition: models.NutritionTotals{Calories: 420, Protein: 40, Carbs: 12, Fats: 20},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rec := do(t, env.handler.RecommendDiet, "/api/recommend-diet", "erin@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body models.DietRecommendationResponse
	decode(t, rec, &body)
	if body.BMI != 28.5 {
		t.Errorf("bmi = %v", body.BMI)
	}
	if body.OverallNutrition.Calories != 420 {
		t.Errorf("overall_nutrition = %+v", body.OverallNutrition)
	}
	// BMI 28.5 is nearest the 29.0 centroid, which maps to weight loss.
	if body.RecommendedDiet.Goal != "Weight Loss" {
		t.Errorf("recommended goal = %q, want Weight Loss", body.RecommendedDiet.Goal)
	}
}

func TestRecommendDietModelUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.handler.diet = nil
	putProfile(t, env, models.Profile{Email: "frank@example.com", BMI: 24})
	err := env.mealLogs.Append(context.Background(), &models.MealLog{
		Email:     "frank@example.com",
		Name:      "toast",
		Nutrition: models.NutritionTotals{Calories: 120},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rec := do(t, env.handler.RecommendDiet, "/api/recommend-diet", "frank@example.com")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body models.ErrorBody
	decode(t, rec, &body)
	if body.Error != msgDietModelMissing {
		t.Errorf("error = %q", body.Error)
	}
}

// stubFetcher returns canned articles for the news endpoint tests.
type stubFetcher struct {
	articles []models.NewsArticle
	err      error
}

func (s *stubFetcher) Headlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.articles) {
		return s.articles[:limit], nil
	}
	return s.articles, nil
}

func TestGetNewsDisabled(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.GetNews, "/api/news", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetNews(t *testing.T) {
	env := newTestEnv(t)
	env.handler.news = &stubFetcher{articles: []models.NewsArticle{
		{Title: "Zone 2 training", URL: "https://example.com/z2"},
	}}

	rec := do(t, env.handler.GetNews, "/api/news", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body models.NewsResponse
	decode(t, rec, &body)
	if len(body.Articles) != 1 || body.Articles[0].Title != "Zone 2 training" {
		t.Errorf("articles = %+v", body.Articles)
	}
}

func TestGetNewsUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.handler.news = &stubFetcher{err: news.ErrUnavailable}

	rec := do(t, env.handler.GetNews, "/api/news", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	env := newTestEnv(t)
	rec := do(t, env.handler.HealthReady, "/api/health/ready", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body models.HealthResponse
	decode(t, rec, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Checks["exercise_catalog"] != "available" {
		t.Errorf("checks = %+v", body.Checks)
	}
}

func TestHealthReadyDegraded(t *testing.T) {
	env := newTestEnv(t)
	env.handler.diet = nil

	rec := do(t, env.handler.HealthReady, "/api/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, degraded should still be ready", rec.Code)
	}
	var body models.HealthResponse
	decode(t, rec, &body)
	if body.Status != "degraded" || body.Checks["diet_model"] != "unavailable" {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthReadyUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.handler.weekly = nil

	rec := do(t, env.handler.HealthReady, "/api/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouterServesEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	putProfile(t, env, models.Profile{Email: "router@example.com", BMI: 22, WeightKg: 70})

	authMW := auth.NewMiddleware(nil, false)
	router := NewRouter(env.handler, authMW, &config.ServerConfig{
		CORSOrigins: []string{"*"},
		RateLimit:   100,
		RateWindow:  time.Minute,
	})
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	tests := []struct {
		name   string
		path   string
		email  string
		status int
	}{
		{"root", "/", "", http.StatusOK},
		{"health", "/api/health", "", http.StatusOK},
		{"liveness", "/api/health/live", "", http.StatusOK},
		{"metrics", "/metrics", "", http.StatusOK},
		{"recommendations", "/api/get-recommendations?count=3", "", http.StatusOK},
		{"weekly plan", "/api/get-personalized-weekly-plan", "router@example.com", http.StatusOK},
		{"weekly plan no profile", "/api/get-personalized-weekly-plan", "ghost@example.com", http.StatusBadRequest},
		{"meal plan", "/api/meal-plan", "router@example.com", http.StatusOK},
		{"unknown route", "/api/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, http.NoBody)
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}
			if tt.email != "" {
				req.Header.Set("X-User-Email", tt.email)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("request error = %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d, body %s", resp.StatusCode, tt.status, body)
			}
		})
	}
}
