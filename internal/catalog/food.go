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

// FoodItem is one row of the food table. Macro values are per serving;
// absent or unparseable cells load as 0.
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Vector returns the 4-dimensional feature vector used by the meal matcher.
func (f FoodItem) Vector() [4]float64 {
	return [4]float64{f.Calories, f.Protein, f.Carbs, f.Fat}
}

// FoodCatalog holds the loaded food table.
type FoodCatalog struct {
	foods []FoodItem
}

var foodColumns = []string{"name", "calories", "protein", "carbs", "fat"}

// LoadFoods reads the food table from the CSV at path.
func LoadFoods(path string) (*FoodCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening food catalog: %w", err)
	}
	defer f.Close()

	c, err := ReadFoods(f)
	if err != nil {
		return nil, fmt.Errorf("reading food catalog %q: %w", path, err)
	}

	logging.Info().Str("path", path).Int("foods", c.Len()).Msg("food catalog loaded")
	metrics.SetCatalogSize("foods", c.Len())
	return c, nil
}

// ReadFoods parses a food table from r.
func ReadFoods(r io.Reader) (*FoodCatalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := columnIndex(header, foodColumns)
	if err != nil {
		return nil, err
	}

	c := &FoodCatalog{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		name := strings.TrimSpace(record[cols["name"]])
		if name == "" {
			continue
		}

		c.foods = append(c.foods, FoodItem{
			Name:     name,
			Calories: parseMacro(record[cols["calories"]]),
			Protein:  parseMacro(record[cols["protein"]]),
			Carbs:    parseMacro(record[cols["carbs"]]),
			Fat:      parseMacro(record[cols["fat"]]),
		})
	}

	if len(c.foods) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// parseMacro parses a macro cell, defaulting to 0 for absent or unparseable
// values and clamping negatives to 0.
func parseMacro(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// All returns the food rows in insertion order. Callers must not mutate the
// returned slice.
func (c *FoodCatalog) All() []FoodItem {
	return c.foods
}

// Len returns the number of loaded foods.
func (c *FoodCatalog) Len() int {
	return len(c.foods)
}

// At returns the food at the given insertion position.
func (c *FoodCatalog) At(i int) FoodItem {
	return c.foods[i]
}
