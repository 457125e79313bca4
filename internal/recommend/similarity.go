// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pulsefit/pulsefit/internal/catalog"
	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/metrics"
)

// Sentinel errors for similarity lookups.
var (
	// ErrIndexEmpty indicates no exercise had a usable tag string.
	ErrIndexEmpty = errors.New("similarity index has no entries")

	// ErrExerciseUnknown indicates the queried exercise is not in the index.
	ErrExerciseUnknown = errors.New("exercise not in similarity index")
)

// Neighbor is one ranked result of a similarity query.
type Neighbor struct {
	Exercise catalog.Exercise
	Score    float64
}

// Index holds the precomputed pairwise cosine similarity over the exercise
// catalog's TF-IDF tag vectors. Rows with empty tag strings are excluded.
//
// The dense matrix is acceptable for catalogs in the hundreds to low
// thousands; past roughly 20k exercises the O(n²) memory would need a
// top-k-per-row representation instead.
type Index struct {
	exercises []catalog.Exercise
	posByID   map[int]int
	matrix    [][]float64
	vocabSize int
}

// NewIndex fits the TF-IDF vectorizer over the catalog's tags and computes
// the full similarity matrix once.
func NewIndex(cat *catalog.ExerciseCatalog) (*Index, error) {
	var included []catalog.Exercise
	var docs []string
	for _, e := range cat.All() {
		if e.BodyPart == "" && e.Equipment == "" && e.Target == "" {
			logging.Warn().Int("id", e.ID).Str("name", e.Name).Msg("excluding untagged exercise from similarity index")
			continue
		}
		included = append(included, e)
		docs = append(docs, e.Tag())
	}
	if len(included) == 0 {
		return nil, ErrIndexEmpty
	}

	vectorizer, vectors, err := FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("fitting tag vectorizer: %w", err)
	}

	n := len(included)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := vectors[i].Dot(vectors[j])
			matrix[i][j] = s
			matrix[j][i] = s
		}
	}

	posByID := make(map[int]int, n)
	for pos, e := range included {
		posByID[e.ID] = pos
	}

	idx := &Index{
		exercises: included,
		posByID:   posByID,
		matrix:    matrix,
		vocabSize: vectorizer.VocabularySize(),
	}

	logging.Info().Int("exercises", n).Int("vocabulary", idx.vocabSize).Msg("similarity index built")
	metrics.SimilarityVocabSize.Set(float64(idx.vocabSize))
	return idx, nil
}

// Len returns the number of indexed exercises.
func (idx *Index) Len() int {
	return len(idx.exercises)
}

// VocabularySize returns the fitted vocabulary size.
func (idx *Index) VocabularySize() int {
	return idx.vocabSize
}

// At returns the indexed exercise at position i.
func (idx *Index) At(i int) catalog.Exercise {
	return idx.exercises[i]
}

// Similarity returns the cosine similarity between the exercises at index
// positions i and j.
func (idx *Index) Similarity(i, j int) float64 {
	return idx.matrix[i][j]
}

// SimilarToID returns up to k exercises most similar to the exercise with
// the given identifier, highest score first, the query itself excluded.
// Ties preserve catalog insertion order so identical inputs always produce
// identical output.
func (idx *Index) SimilarToID(id, k int) ([]Neighbor, error) {
	pos, ok := idx.posByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrExerciseUnknown, id)
	}
	if k <= 0 {
		return nil, nil
	}

	row := idx.matrix[pos]
	order := make([]int, 0, len(row)-1)
	for i := range row {
		if i != pos {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	neighbors := make([]Neighbor, k)
	for i := 0; i < k; i++ {
		neighbors[i] = Neighbor{
			Exercise: idx.exercises[order[i]],
			Score:    row[order[i]],
		}
	}
	return neighbors, nil
}
