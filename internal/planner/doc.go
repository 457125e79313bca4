// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package planner assembles workout and meal plans from the loaded catalogs
// and a user profile.
//
// Plan construction is pure computation over the immutable catalogs plus one
// injected *rand.Rand; passing the same profile, catalog, and seed always
// yields the same plan. Handlers create a fresh crypto-seeded source per
// request; tests pass a fixed seed.
package planner
