// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package dietmodel

import "github.com/pulsefit/pulsefit/internal/models"

// dietPlans maps cluster ids to their canned recommendations.
var dietPlans = map[int]models.DietPlan{
	0: {
		Goal:      "Weight Gain",
		Breakfast: "Avocado Toast & Eggs",
		Lunch:     "Chicken & Quinoa",
		Dinner:    "Salmon & Brown Rice",
		Snacks:    "Greek Yogurt with Nuts",
	},
	1: {
		Goal:      "Maintenance",
		Breakfast: "Oats & Banana",
		Lunch:     "Grilled Chicken Salad",
		Dinner:    "Stir-fry Tofu with Rice",
		Snacks:    "Hummus with Carrots",
	},
	2: {
		Goal:      "Weight Loss",
		Breakfast: "Scrambled Eggs with Spinach",
		Lunch:     "Grilled Fish & Veggies",
		Dinner:    "Vegetable Soup",
		Snacks:    "Almond Butter & Apple",
	},
}

// fallbackPlan is returned for cluster ids outside the table.
var fallbackPlan = models.DietPlan{
	Goal:      "Balanced Diet",
	Breakfast: "Smoothie",
	Lunch:     "Quinoa Salad",
	Dinner:    "Grilled Fish",
}

// PlanForCluster returns the canned diet plan for a cluster id, falling back
// to the generic balanced plan for unknown clusters.
func PlanForCluster(cluster int) models.DietPlan {
	if plan, ok := dietPlans[cluster]; ok {
		return plan
	}
	return fallbackPlan
}

// Recommend classifies a user into a diet plan. The feature vector is the
// BMI followed by the configured auxiliary constants, matching the order the
// artifact was trained with.
func (m *Model) Recommend(bmi float64, auxFeatures []float64) (models.DietPlan, error) {
	features := make([]float64, 0, 1+len(auxFeatures))
	features = append(features, bmi)
	features = append(features, auxFeatures...)

	cluster, err := m.Predict(features)
	if err != nil {
		return models.DietPlan{}, err
	}
	return PlanForCluster(cluster), nil
}
