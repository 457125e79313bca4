// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/pulsefit/pulsefit/internal/metrics"
	"github.com/pulsefit/pulsefit/internal/models"
)

const mealLogKeyPrefix = "meallog:"

// MealLogReader is the read interface the diet recommendation handler
// depends on.
type MealLogReader interface {
	List(ctx context.Context, email string) ([]models.MealLog, error)
}

// MealLogStore persists logged meals in Badger under per-user key prefixes.
type MealLogStore struct {
	db *badger.DB
}

// NewMealLogStore creates a meal log store over an open database.
func NewMealLogStore(db *badger.DB) *MealLogStore {
	return &MealLogStore{db: db}
}

// mealLogKey orders a user's entries by log time; the nanosecond suffix
// keeps same-instant entries distinct.
func mealLogKey(email string, at time.Time) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", mealLogKeyPrefix, email, at.UnixNano()))
}

// Append stores one logged meal for the entry's user.
func (s *MealLogStore) Append(ctx context.Context, entry *models.MealLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Email == "" {
		return errors.New("meal log email is required")
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding meal log: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(mealLogKey(entry.Email, entry.LoggedAt), data)
	})
	metrics.RecordStoreOperation("put", err)
	if err != nil {
		return fmt.Errorf("storing meal log: %w", err)
	}
	return nil
}

// List returns every logged meal for email in log-time order. A user with
// no entries gets an empty slice, not an error.
func (s *MealLogStore) List(ctx context.Context, email string) ([]models.MealLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []models.MealLog
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(mealLogKeyPrefix + email + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var entry models.MealLog
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Totals aggregates every logged meal's nutrition for email.
func (s *MealLogStore) Totals(ctx context.Context, email string) (models.NutritionTotals, int, error) {
	entries, err := s.List(ctx, email)
	if err != nil {
		return models.NutritionTotals{}, 0, err
	}

	var totals models.NutritionTotals
	for _, e := range entries {
		totals.Calories += e.Nutrition.Calories
		totals.Protein += e.Nutrition.Protein
		totals.Carbs += e.Nutrition.Carbs
		totals.Fats += e.Nutrition.Fats
	}
	return totals, len(entries), nil
}
