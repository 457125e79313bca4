// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package catalog

import (
	"errors"
	"strings"
	"testing"
)

const exerciseCSV = `id,name,bodyPart,equipment,target
1,push up,chest,body weight,pectorals
2,barbell squat,upper legs,barbell,quads
3,treadmill run,cardio,treadmill,cardiovascular system
`

const foodCSV = `name,calories,protein,carbs,fat
Apple,52,0.3,14,0.2
Chicken Breast,165,31,0,3.6
Mystery,abc,,-1,
`

func TestReadExercises(t *testing.T) {
	c, err := ReadExercises(strings.NewReader(exerciseCSV))
	if err != nil {
		t.Fatalf("ReadExercises() error = %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	e, ok := c.ByID(2)
	if !ok {
		t.Fatal("ByID(2) not found")
	}
	if e.Name != "barbell squat" || e.BodyPart != "upper legs" {
		t.Errorf("ByID(2) = %+v", e)
	}
	if got := e.Tag(); got != "upper legs barbell quads" {
		t.Errorf("Tag() = %q", got)
	}

	if _, ok := c.ByID(99); ok {
		t.Error("ByID(99) should not be found")
	}
}

func TestReadExercisesColumnOrderIsFlexible(t *testing.T) {
	csv := "name,target,id,equipment,bodyPart\npush up,pectorals,7,body weight,chest\n"
	c, err := ReadExercises(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadExercises() error = %v", err)
	}
	e, ok := c.ByID(7)
	if !ok || e.Name != "push up" || e.Target != "pectorals" {
		t.Errorf("ByID(7) = %+v, ok = %v", e, ok)
	}
}

func TestReadExercisesMissingColumn(t *testing.T) {
	csv := "id,name,equipment,target\n1,push up,body weight,pectorals\n"
	_, err := ReadExercises(strings.NewReader(csv))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("error = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), "bodypart") {
		t.Errorf("error %q should name the missing column", err)
	}
}

func TestReadExercisesSkipsBadIDs(t *testing.T) {
	csv := "id,name,bodyPart,equipment,target\nx,bad row,chest,band,pecs\n5,good row,back,cable,lats\n"
	c, err := ReadExercises(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadExercises() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestReadExercisesEmpty(t *testing.T) {
	_, err := ReadExercises(strings.NewReader("id,name,bodyPart,equipment,target\n"))
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("error = %v, want ErrEmptyCatalog", err)
	}
}

func TestReadFoods(t *testing.T) {
	c, err := ReadFoods(strings.NewReader(foodCSV))
	if err != nil {
		t.Fatalf("ReadFoods() error = %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	apple := c.At(0)
	if apple.Name != "Apple" || apple.Calories != 52 {
		t.Errorf("At(0) = %+v", apple)
	}
	if got := apple.Vector(); got != [4]float64{52, 0.3, 14, 0.2} {
		t.Errorf("Vector() = %v", got)
	}

	// Unparseable macro cells default to 0, never negative.
	mystery := c.At(2)
	if mystery.Calories != 0 || mystery.Protein != 0 || mystery.Carbs != 0 || mystery.Fat != 0 {
		t.Errorf("unparseable macros should load as 0, got %+v", mystery)
	}
}

func TestReadFoodsMissingColumn(t *testing.T) {
	_, err := ReadFoods(strings.NewReader("name,calories\nApple,52\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("error = %v, want ErrMissingColumn", err)
	}
}

func TestLoadExercisesMissingFile(t *testing.T) {
	if _, err := LoadExercises("testdata/does-not-exist.csv"); err == nil {
		t.Fatal("LoadExercises() on a missing file should fail")
	}
}
