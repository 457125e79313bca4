// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package planner

// Goal values accepted by calorie adjustment.
const (
	GoalMaintain   = "maintain"
	GoalLoseWeight = "lose_weight"
	GoalGainWeight = "gain_weight"
)

// Atwater energy factors, kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// MacroRatios are the fractions of the calorie budget assigned to each
// macronutrient. The three fractions always sum to 1.
type MacroRatios struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// MacrosForBMI returns the macro split for a BMI bracket.
func MacrosForBMI(bmi float64) MacroRatios {
	switch {
	case bmi < 18.5:
		return MacroRatios{Protein: 0.25, Carbs: 0.50, Fat: 0.25}
	case bmi > 25:
		return MacroRatios{Protein: 0.35, Carbs: 0.40, Fat: 0.25}
	default:
		return MacroRatios{Protein: 0.30, Carbs: 0.45, Fat: 0.25}
	}
}

// activityMultipliers scale the weight-based calorie baseline by activity
// level. Unrecognized levels fall back to sedentary.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// ActivityMultiplier returns the calorie multiplier for an activity level.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers["sedentary"]
}

// DailyCalories estimates the daily calorie baseline from body weight and
// activity level: weight_kg x 22 x activity multiplier.
func DailyCalories(weightKg float64, activityLevel string) float64 {
	return weightKg * 22 * ActivityMultiplier(activityLevel)
}

// AdjustCalories applies the goal and BMI adjustment to a calorie baseline:
// cutting 10% for weight loss or overweight BMI, adding 10% for weight gain
// or underweight BMI, otherwise unchanged.
func AdjustCalories(base float64, bmi float64, goal string) float64 {
	switch {
	case goal == GoalLoseWeight || bmi > 25:
		return base * 0.9
	case goal == GoalGainWeight || bmi < 18.5:
		return base * 1.1
	default:
		return base
	}
}

// MacroTargetsGrams converts a calorie budget and macro split into gram
// targets using the Atwater factors.
func MacroTargetsGrams(calories float64, macros MacroRatios) (protein, carbs, fat float64) {
	protein = calories * macros.Protein / kcalPerGramProtein
	carbs = calories * macros.Carbs / kcalPerGramCarbs
	fat = calories * macros.Fat / kcalPerGramFat
	return protein, carbs, fat
}
