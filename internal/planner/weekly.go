// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package planner

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/models"
)

// ErrCatalogUnavailable indicates the exercise catalog was not loaded, so no
// workout plan can be produced.
var ErrCatalogUnavailable = errors.New("exercise catalog unavailable")

// PlanProfile carries the profile fields workout planning consumes.
// PreferredBodyPart "all" (or empty) means no preference. WorkoutHistory is
// ordered most-recent-last.
type PlanProfile struct {
	BMI               float64
	PreferredBodyPart string
	Equipment         []string
	WorkoutHistory    []int
}

// WeeklyPlanner builds 7-day workout schedules from the exercise catalog.
type WeeklyPlanner struct {
	catalog       *catalog.ExerciseCatalog
	gifBaseURL    string
	historyWindow int
}

// NewWeeklyPlanner creates a planner over the loaded catalog.
func NewWeeklyPlanner(cat *catalog.ExerciseCatalog, gifBaseURL string, historyWindow int) (*WeeklyPlanner, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, ErrCatalogUnavailable
	}
	return &WeeklyPlanner{
		catalog:       cat,
		gifBaseURL:    gifBaseURL,
		historyWindow: historyWindow,
	}, nil
}

// Build assembles the weekly plan for the given profile. The result always
// contains all seven weekday keys; rest days map to empty lists. rng drives
// the per-day sampling, so a fixed seed reproduces the plan exactly.
func (p *WeeklyPlanner) Build(profile PlanProfile, rng *rand.Rand) (map[string][]models.WorkoutItem, error) {
	intensity := IntensityForBMI(profile.BMI)
	filtered := p.preFilter(profile, intensity)

	splits := tierSplits[intensity]
	plan := make(map[string][]models.WorkoutItem, len(Weekdays))
	for _, day := range Weekdays {
		split, active := splits[day]
		if !active {
			plan[day] = []models.WorkoutItem{}
			continue
		}
		plan[day] = p.pickForDay(filtered, split, profile.WorkoutHistory, rng)
	}
	return plan, nil
}

// preFilter applies the tier and profile filters, in order: tier content
// restrictions, preferred-body-part duplication bias, then the available
// equipment restriction.
func (p *WeeklyPlanner) preFilter(profile PlanProfile, intensity string) []catalog.Exercise {
	all := p.catalog.All()
	filtered := make([]catalog.Exercise, 0, len(all))

	for _, e := range all {
		if intensity == IntensityBeginner && containsFold(e.Name, "advanced", "pro") {
			continue
		}
		if intensity == IntensityLowImpact && !containsFold(e.Equipment, "body weight", "resistance band") {
			continue
		}
		filtered = append(filtered, e)
	}

	if pref := profile.PreferredBodyPart; pref != "" && pref != "all" {
		// Duplicate preferred rows ahead of the rest so uniform sampling
		// favors the preference without excluding variety.
		biased := make([]catalog.Exercise, 0, 2*len(filtered))
		var others []catalog.Exercise
		for _, e := range filtered {
			if e.BodyPart == pref {
				biased = append(biased, e, e)
			} else {
				others = append(others, e)
			}
		}
		filtered = append(biased, others...)
	}

	if len(profile.Equipment) > 0 {
		available := make(map[string]struct{}, len(profile.Equipment))
		for _, eq := range profile.Equipment {
			available[eq] = struct{}{}
		}
		kept := filtered[:0]
		for _, e := range filtered {
			if _, ok := available[e.Equipment]; ok {
				kept = append(kept, e)
			}
		}
		filtered = kept
	}
	return filtered
}

// pickForDay selects the day's exercises: pattern match, fallback pattern,
// full-set fallback, then history-aware uniform sampling.
func (p *WeeklyPlanner) pickForDay(filtered []catalog.Exercise, split daySplit, history []int, rng *rand.Rand) []models.WorkoutItem {
	candidates := matchBodyPart(filtered, split.Pattern)

	if len(candidates) == 0 {
		for _, fb := range fallbackPatterns {
			if strings.Contains(split.Pattern, fb.Primary) {
				candidates = matchBodyPart(filtered, fb.Fallback)
				break
			}
		}
	}
	if len(candidates) == 0 {
		candidates = filtered
	}

	size := split.Count
	if size > len(candidates) {
		size = len(candidates)
	}
	if size == 0 {
		return []models.WorkoutItem{}
	}

	pool := candidates
	if len(history) > 0 {
		recent := p.recentSet(history)
		fresh := make([]catalog.Exercise, 0, len(candidates))
		for _, e := range candidates {
			if _, done := recent[e.ID]; !done {
				fresh = append(fresh, e)
			}
		}
		if len(fresh) >= size {
			pool = fresh
		}
	}

	items := make([]models.WorkoutItem, size)
	for i, pos := range rng.Perm(len(pool))[:size] {
		items[i] = p.workoutItem(pool[pos])
	}
	return items
}

// recentSet returns the exercise IDs in the last historyWindow entries.
func (p *WeeklyPlanner) recentSet(history []int) map[int]struct{} {
	start := 0
	if len(history) > p.historyWindow {
		start = len(history) - p.historyWindow
	}
	recent := make(map[int]struct{}, p.historyWindow)
	for _, id := range history[start:] {
		recent[id] = struct{}{}
	}
	return recent
}

// workoutItem converts a catalog row to its response shape with the GIF URL.
func (p *WeeklyPlanner) workoutItem(e catalog.Exercise) models.WorkoutItem {
	return models.WorkoutItem{
		ID:        e.ID,
		Name:      e.Name,
		BodyPart:  e.BodyPart,
		Equipment: e.Equipment,
		Target:    e.Target,
		GifURL:    FormatGIFURL(p.gifBaseURL, e.ID),
	}
}

// matchBodyPart keeps exercises whose body part contains any alternative of
// the |-separated pattern, case-insensitively.
func matchBodyPart(exercises []catalog.Exercise, pattern string) []catalog.Exercise {
	alts := strings.Split(strings.ToLower(pattern), "|")
	var matched []catalog.Exercise
	for _, e := range exercises {
		part := strings.ToLower(e.BodyPart)
		for _, alt := range alts {
			if strings.Contains(part, alt) {
				matched = append(matched, e)
				break
			}
		}
	}
	return matched
}

// containsFold reports whether s contains any of the substrings,
// case-insensitively.
func containsFold(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
