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
	"github.com/pulsefit/pulsefit/internal/validation"
)

// ErrNotFound indicates no record exists for the requested key.
var ErrNotFound = errors.New("record not found")

const profileKeyPrefix = "profile:"

// ProfileReader is the read interface the recommendation handlers depend on.
type ProfileReader interface {
	Get(ctx context.Context, email string) (*models.Profile, error)
}

// ProfileStore persists user profiles in Badger, keyed by email.
type ProfileStore struct {
	db *badger.DB
}

// NewProfileStore creates a profile store over an open database.
func NewProfileStore(db *badger.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func profileKey(email string) []byte {
	return []byte(profileKeyPrefix + email)
}

// Get returns the profile for email, or ErrNotFound.
func (s *ProfileStore) Get(ctx context.Context, email string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profile models.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: profile for %s", ErrNotFound, email)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	metrics.RecordStoreOperation("get", err)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Put upserts a profile. The record's email is the key; UpdatedAt is stamped
// here.
func (s *ProfileStore) Put(ctx context.Context, profile *models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile.Email == "" {
		return errors.New("profile email is required")
	}
	if verr := validation.ValidateStruct(profile); verr != nil {
		return fmt.Errorf("invalid profile: %w", verr)
	}

	profile.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.Email), data)
	})
	metrics.RecordStoreOperation("put", err)
	if err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}
	return nil
}

// Delete removes a profile. Deleting a missing profile is not an error.
func (s *ProfileStore) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(profileKey(email))
	})
	metrics.RecordStoreOperation("delete", err)
	return err
}
