// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package planner

import "fmt"

// Intensity tiers derived from BMI.
const (
	IntensityBeginner     = "beginner"
	IntensityIntermediate = "intermediate"
	IntensityAdvanced     = "advanced"
	IntensityLowImpact    = "low-impact"
)

// Weekdays in schedule order. Every weekly plan carries all seven keys.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IntensityForBMI classifies a BMI into its workout intensity tier.
func IntensityForBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return IntensityBeginner
	case bmi < 25:
		return IntensityIntermediate
	case bmi < 30:
		return IntensityAdvanced
	default:
		return IntensityLowImpact
	}
}

// daySplit is one active day of a tier's schedule: the body-part pattern to
// target (| separates alternatives) and how many exercises to pick.
type daySplit struct {
	Pattern string
	Count   int
}

// tierSplits maps each tier to its active days. Days absent from a tier's
// split are rest days and appear in the plan as empty lists.
var tierSplits = map[string]map[string]daySplit{
	IntensityBeginner: {
		"Monday":    {Pattern: "cardio", Count: 3},
		"Wednesday": {Pattern: "full body", Count: 4},
		"Friday":    {Pattern: "full body", Count: 4},
	},
	IntensityIntermediate: {
		"Monday":    {Pattern: "upper arms", Count: 3},
		"Tuesday":   {Pattern: "cardio", Count: 2},
		"Wednesday": {Pattern: "lower legs", Count: 3},
		"Thursday":  {Pattern: "back", Count: 3},
		"Friday":    {Pattern: "chest", Count: 3},
		"Saturday":  {Pattern: "cardio", Count: 2},
	},
	IntensityAdvanced: {
		"Monday":    {Pattern: "upper arms|lower arms", Count: 4},
		"Tuesday":   {Pattern: "cardio", Count: 3},
		"Wednesday": {Pattern: "upper legs|lower legs", Count: 4},
		"Thursday":  {Pattern: "back|waist", Count: 4},
		"Friday":    {Pattern: "chest|shoulders", Count: 4},
		"Saturday":  {Pattern: "cardio", Count: 3},
	},
}

func init() {
	// Low-impact shares the six-day compound split; its gentler content
	// comes from the equipment pre-filter, not a different schedule.
	tierSplits[IntensityLowImpact] = tierSplits[IntensityAdvanced]
}

// fallbackPatterns maps a primary body-part term to the substitute searched
// when the primary pattern matches nothing. Checked in this order; the first
// term contained in the day's pattern wins.
var fallbackPatterns = []struct {
	Primary  string
	Fallback string
}{
	{Primary: "upper arms", Fallback: "arms"},
	{Primary: "lower legs", Fallback: "legs"},
	{Primary: "back", Fallback: "waist"},
	{Primary: "chest", Fallback: "shoulders"},
}

// FormatGIFURL derives the demonstration GIF URL for an exercise ID:
// the 4-digit zero-padded ID under the CDN base. Non-positive IDs have no
// GIF and return "".
func FormatGIFURL(baseURL string, id int) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%04d.gif", baseURL, id)
}
