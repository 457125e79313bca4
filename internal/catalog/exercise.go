// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/metrics"
)

// Sentinel errors for catalog loading.
var (
	// ErrMissingColumn indicates the CSV header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrEmptyCatalog indicates the source parsed but yielded no usable rows.
	ErrEmptyCatalog = errors.New("catalog contains no rows")
)

// Exercise is one row of the exercise table. Immutable once loaded.
type Exercise struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	BodyPart  string `json:"bodyPart"`
	Equipment string `json:"equipment"`
	Target    string `json:"target"`
}

// Tag returns the space-joined tag string used for similarity vectorization,
// case preserved.
func (e Exercise) Tag() string {
	return e.BodyPart + " " + e.Equipment + " " + e.Target
}

// ExerciseCatalog holds the loaded exercise table with an ID lookup index.
type ExerciseCatalog struct {
	exercises []Exercise
	byID      map[int]int // exercise ID -> position
}

// exerciseColumns are the required CSV header names, matched case-insensitively.
var exerciseColumns = []string{"id", "name", "bodypart", "equipment", "target"}

// LoadExercises reads the exercise table from the CSV at path.
// The header must contain the id, name, bodyPart, equipment, and target
// columns in any order. A missing file or missing column is an error; the
// workout features cannot serve without the catalog.
func LoadExercises(path string) (*ExerciseCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening exercise catalog: %w", err)
	}
	defer f.Close()

	c, err := ReadExercises(f)
	if err != nil {
		return nil, fmt.Errorf("reading exercise catalog %q: %w", path, err)
	}

	logging.Info().Str("path", path).Int("exercises", c.Len()).Msg("exercise catalog loaded")
	metrics.SetCatalogSize("exercises", c.Len())
	return c, nil
}

// ReadExercises parses an exercise table from r. Split from LoadExercises so
// tests can feed in-memory CSV.
func ReadExercises(r io.Reader) (*ExerciseCatalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := columnIndex(header, exerciseColumns)
	if err != nil {
		return nil, err
	}

	c := &ExerciseCatalog{byID: make(map[int]int)}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[cols["id"]]))
		if err != nil {
			logging.Warn().Str("id", record[cols["id"]]).Msg("skipping exercise with non-integer id")
			continue
		}

		e := Exercise{
			ID:        id,
			Name:      strings.TrimSpace(record[cols["name"]]),
			BodyPart:  strings.TrimSpace(record[cols["bodypart"]]),
			Equipment: strings.TrimSpace(record[cols["equipment"]]),
			Target:    strings.TrimSpace(record[cols["target"]]),
		}
		c.byID[e.ID] = len(c.exercises)
		c.exercises = append(c.exercises, e)
	}

	if len(c.exercises) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// All returns the catalog rows in insertion order. Callers must not mutate
// the returned slice.
func (c *ExerciseCatalog) All() []Exercise {
	return c.exercises
}

// Len returns the number of loaded exercises.
func (c *ExerciseCatalog) Len() int {
	return len(c.exercises)
}

// ByID returns the exercise with the given identifier.
func (c *ExerciseCatalog) ByID(id int) (Exercise, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[pos], true
}

// columnIndex maps required column names to their header positions,
// case-insensitively. Returns ErrMissingColumn naming the first absent one.
func columnIndex(header, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		pos, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = pos
	}
	return cols, nil
}
