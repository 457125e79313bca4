// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package planner

import (
	"errors"
	"math/rand"

	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/models"
	"github.com/pulsefit/pulsefit/internal/recommend"
)

// ErrMatcherUnavailable indicates the food matcher was not built, so no meal
// plan can be produced.
var ErrMatcherUnavailable = errors.New("meal matcher unavailable")

// Calorie share per meal slot. The five shares sum to 1.
var mealSlotShares = struct {
	Breakfast, Lunch, Dinner, Snack float64
}{
	Breakfast: 0.25,
	Lunch:     0.35,
	Dinner:    0.30,
	Snack:     0.05,
}

// MealPlanner assembles meal plans by querying the food matcher per slot.
type MealPlanner struct {
	matcher   *recommend.Matcher
	neighbors int
	picks     int
}

// NewMealPlanner creates a meal planner. neighbors is how many nearest foods
// each slot considers; picks how many of those are selected.
func NewMealPlanner(matcher *recommend.Matcher, neighbors, picks int) (*MealPlanner, error) {
	if matcher == nil || matcher.Len() == 0 {
		return nil, ErrMatcherUnavailable
	}
	if neighbors < 1 {
		neighbors = 5
	}
	if picks < 1 {
		picks = 3
	}
	return &MealPlanner{matcher: matcher, neighbors: neighbors, picks: picks}, nil
}

// GenerateMeal builds one meal slot: derive the gram targets from the slot's
// calorie share, find the nearest foods, and pick a random subset of them.
func (p *MealPlanner) GenerateMeal(calories float64, macros MacroRatios, rng *rand.Rand) models.Meal {
	protein, carbs, fat := MacroTargetsGrams(calories, macros)
	target := [4]float64{calories, protein, carbs, fat}

	nearest := p.matcher.KNearest(target, p.neighbors)
	picks := p.picks
	if picks > len(nearest) {
		picks = len(nearest)
	}

	meal := models.Meal{Foods: make([]models.MealFood, picks)}
	for i, pos := range rng.Perm(len(nearest))[:picks] {
		meal.Foods[i] = toMealFood(nearest[pos])
		meal.TotalCalories += nearest[pos].Calories
		meal.TotalProtein += nearest[pos].Protein
		meal.TotalCarbs += nearest[pos].Carbs
		meal.TotalFat += nearest[pos].Fat
	}
	return meal
}

// GenerateMealPlan builds the full five-slot plan for a BMI and daily
// calorie budget. TotalCalories sums every slot, snacks included.
func (p *MealPlanner) GenerateMealPlan(bmi, dailyCalories float64, rng *rand.Rand) (*models.MealPlanResponse, error) {
	if p.matcher == nil || p.matcher.Len() == 0 {
		return nil, ErrMatcherUnavailable
	}

	macros := MacrosForBMI(bmi)
	plan := &models.MealPlanResponse{
		Breakfast: p.GenerateMeal(dailyCalories*mealSlotShares.Breakfast, macros, rng),
		Lunch:     p.GenerateMeal(dailyCalories*mealSlotShares.Lunch, macros, rng),
		Dinner:    p.GenerateMeal(dailyCalories*mealSlotShares.Dinner, macros, rng),
		Snacks: []models.Meal{
			p.GenerateMeal(dailyCalories*mealSlotShares.Snack, macros, rng),
			p.GenerateMeal(dailyCalories*mealSlotShares.Snack, macros, rng),
		},
	}

	plan.TotalCalories = plan.Breakfast.TotalCalories +
		plan.Lunch.TotalCalories +
		plan.Dinner.TotalCalories +
		plan.Snacks[0].TotalCalories +
		plan.Snacks[1].TotalCalories
	return plan, nil
}

func toMealFood(f catalog.FoodItem) models.MealFood {
	return models.MealFood{
		Name:     f.Name,
		Calories: f.Calories,
		Protein:  f.Protein,
		Carbs:    f.Carbs,
		Fat:      f.Fat,
	}
}
