// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package recommend

import (
	"errors"
	"math"
	"sort"

	"github.com/pulsefit/pulsefit/internal/catalog"
)

// ErrMatcherEmpty indicates the meal matcher was built over an empty food
// catalog and cannot serve queries.
var ErrMatcherEmpty = errors.New("meal matcher has no foods")

// Matcher answers nearest-neighbor queries over the food catalog's
// 4-dimensional macro vectors (calories, protein, carbs, fat) using
// Euclidean distance. Brute force is fine at catalog scale; distances are
// recomputed per query against a few hundred rows.
type Matcher struct {
	foods   []catalog.FoodItem
	vectors [][4]float64
}

// NewMatcher builds a matcher over the loaded food catalog.
func NewMatcher(cat *catalog.FoodCatalog) (*Matcher, error) {
	foods := cat.All()
	if len(foods) == 0 {
		return nil, ErrMatcherEmpty
	}

	vectors := make([][4]float64, len(foods))
	for i, f := range foods {
		vectors[i] = f.Vector()
	}
	return &Matcher{foods: foods, vectors: vectors}, nil
}

// Len returns the number of indexed foods.
func (m *Matcher) Len() int {
	return len(m.foods)
}

// KNearest returns the k foods closest to target, nearest first. Ties keep
// catalog insertion order. k larger than the catalog returns every food.
func (m *Matcher) KNearest(target [4]float64, k int) []catalog.FoodItem {
	if k <= 0 {
		return nil
	}
	if k > len(m.foods) {
		k = len(m.foods)
	}

	dists := make([]float64, len(m.vectors))
	order := make([]int, len(m.vectors))
	for i, v := range m.vectors {
		dists[i] = euclidean(v, target)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dists[order[a]] < dists[order[b]]
	})

	nearest := make([]catalog.FoodItem, k)
	for i := 0; i < k; i++ {
		nearest[i] = m.foods[order[i]]
	}
	return nearest
}

// euclidean returns the Euclidean distance between two macro vectors.
func euclidean(a, b [4]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
