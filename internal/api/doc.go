// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package api provides the HTTP surface of Pulsefit: the chi router, the
// recommendation and plan endpoints, and the JSON response helpers.
//
// Handlers hold immutable service objects (catalogs, similarity index, meal
// matcher, diet model) built once at startup, plus the Badger-backed profile
// and meal-log stores. Request-scoped randomness comes from a seedable
// *rand.Rand so responses are reproducible under a fixed seed.
package api
