// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package planner

import (
	"math/rand"

	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/models"
	"github.com/pulsefit/pulsefit/internal/recommend"
)

// Recommender produces flat workout recommendation lists from the similarity
// index, with or without a profile.
type Recommender struct {
	index      *recommend.Index
	planner    *WeeklyPlanner
	gifBaseURL string
}

// NewRecommender creates a recommender over the similarity index. planner
// supplies the shared profile pre-filtering.
func NewRecommender(index *recommend.Index, planner *WeeklyPlanner, gifBaseURL string) (*Recommender, error) {
	if index == nil || index.Len() == 0 {
		return nil, ErrCatalogUnavailable
	}
	return &Recommender{index: index, planner: planner, gifBaseURL: gifBaseURL}, nil
}

// General returns profile-independent suggestions: a handful of random seed
// exercises expanded through the similarity index, deduplicated in score
// order, capped at count. Deterministic under a fixed rng seed.
func (r *Recommender) General(count int, rng *rand.Rand) []models.WorkoutItem {
	if count <= 0 {
		return []models.WorkoutItem{}
	}

	seeds := 3
	if seeds > r.index.Len() {
		seeds = r.index.Len()
	}

	seen := make(map[int]struct{}, count)
	items := make([]models.WorkoutItem, 0, count)
	add := func(e catalog.Exercise) bool {
		if _, dup := seen[e.ID]; dup {
			return len(items) < count
		}
		seen[e.ID] = struct{}{}
		items = append(items, r.workoutItem(e))
		return len(items) < count
	}

	for _, pos := range rng.Perm(r.index.Len())[:seeds] {
		seed := r.index.At(pos)
		if !add(seed) {
			return items
		}
		neighbors, err := r.index.SimilarToID(seed.ID, count)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			if !add(n.Exercise) {
				return items
			}
		}
	}
	return items
}

// Personalized returns a flat recommendation list for a profile: the weekly
// planner's pre-filters select the eligible pool, recent workout history
// seeds similarity expansion, and random picks fill any remainder.
func (r *Recommender) Personalized(profile PlanProfile, count int, rng *rand.Rand) []models.WorkoutItem {
	if count <= 0 {
		return []models.WorkoutItem{}
	}

	intensity := IntensityForBMI(profile.BMI)
	filtered := r.planner.preFilter(profile, intensity)

	eligible := make(map[int]struct{}, len(filtered))
	for _, e := range filtered {
		eligible[e.ID] = struct{}{}
	}
	recent := r.planner.recentSet(profile.WorkoutHistory)

	seen := make(map[int]struct{}, count)
	items := make([]models.WorkoutItem, 0, count)
	add := func(e catalog.Exercise) bool {
		if _, dup := seen[e.ID]; dup {
			return len(items) < count
		}
		seen[e.ID] = struct{}{}
		items = append(items, r.workoutItem(e))
		return len(items) < count
	}

	// Expand from history, most recent first, skipping what was just done.
	for i := len(profile.WorkoutHistory) - 1; i >= 0; i-- {
		neighbors, err := r.index.SimilarToID(profile.WorkoutHistory[i], count)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			if _, ok := eligible[n.Exercise.ID]; !ok {
				continue
			}
			if _, done := recent[n.Exercise.ID]; done {
				continue
			}
			if !add(n.Exercise) {
				return items
			}
		}
	}

	// Fill the remainder with random eligible picks.
	for _, pos := range rng.Perm(len(filtered)) {
		if !add(filtered[pos]) {
			return items
		}
	}
	return items
}

func (r *Recommender) workoutItem(e catalog.Exercise) models.WorkoutItem {
	return models.WorkoutItem{
		ID:        e.ID,
		Name:      e.Name,
		BodyPart:  e.BodyPart,
		Equipment: e.Equipment,
		Target:    e.Target,
		GifURL:    FormatGIFURL(r.gifBaseURL, e.ID),
	}
}
