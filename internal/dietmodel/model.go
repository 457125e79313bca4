// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package dietmodel loads the pre-trained diet clustering artifact and
// classifies users into canned diet recommendations.
//
// The artifact is produced by an offline training job and consumed here as
// an opaque set of cluster centroids; prediction assigns the nearest
// centroid by Euclidean distance. No training happens in-process.
package dietmodel

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"

	"github.com/pulsefit/pulsefit/internal/logging"
)

// Sentinel errors for model loading and prediction.
var (
	// ErrModelUnavailable indicates the artifact is missing or unreadable.
	// Only the diet endpoint fails on this; the rest of the service serves.
	ErrModelUnavailable = errors.New("diet model unavailable")

	// ErrFeatureMismatch indicates the input vector length does not match
	// the artifact's feature count.
	ErrFeatureMismatch = errors.New("feature vector length mismatch")
)

// artifact is the on-disk JSON layout of the trained model.
type artifact struct {
	Version      int         `json:"version"`
	FeatureNames []string    `json:"feature_names"`
	Centroids    [][]float64 `json:"centroids"`
}

// Model is the loaded diet cluster model.
type Model struct {
	featureNames []string
	centroids    [][]float64
}

// Load reads and validates the model artifact at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %w", ErrModelUnavailable, path, err)
	}

	if len(a.Centroids) == 0 {
		return nil, fmt.Errorf("%w: artifact has no centroids", ErrModelUnavailable)
	}
	dims := len(a.FeatureNames)
	if dims == 0 {
		dims = len(a.Centroids[0])
	}
	for i, c := range a.Centroids {
		if len(c) != dims {
			return nil, fmt.Errorf("%w: centroid %d has %d dims, want %d", ErrModelUnavailable, i, len(c), dims)
		}
	}

	logging.Info().Str("path", path).Int("version", a.Version).
		Int("clusters", len(a.Centroids)).Int("features", dims).
		Msg("diet model loaded")

	return &Model{featureNames: a.FeatureNames, centroids: a.Centroids}, nil
}

// Features returns the artifact's feature dimensionality.
func (m *Model) Features() int {
	if len(m.featureNames) > 0 {
		return len(m.featureNames)
	}
	return len(m.centroids[0])
}

// Clusters returns the number of centroids.
func (m *Model) Clusters() int {
	return len(m.centroids)
}

// Predict assigns the feature vector to its nearest centroid and returns
// the cluster id. Ties go to the lower cluster id.
func (m *Model) Predict(features []float64) (int, error) {
	if len(features) != m.Features() {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureMismatch, len(features), m.Features())
	}

	best := 0
	bestDist := math.Inf(1)
	for i, c := range m.centroids {
		var sum float64
		for j := range c {
			d := features[j] - c[j]
			sum += d * d
		}
		if sum < bestDist {
			best = i
			bestDist = sum
		}
	}
	return best, nil
}
