// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package recommend implements the similarity and matching primitives behind
// the recommendation endpoints: a TF-IDF vectorizer over exercise tag text, a
// precomputed cosine-similarity index for exercise lookup, and a Euclidean
// nearest-neighbor matcher over food macro vectors.
//
// All structures are built once at startup from the loaded catalogs and are
// read-only afterward, so they can be shared freely across request handlers.
package recommend
