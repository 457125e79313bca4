// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package store provides the embedded BadgerDB persistence for user
// profiles and meal logs.
//
// Records are stored as JSON under type prefixes ("profile:", "meallog:")
// keyed by user email. Badger gives single-record transactional semantics;
// concurrent updates to the same profile resolve to one of the written
// values, which is all the serving layer requires.
package store

import (
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/logging"
)

// Open opens the Badger database at cfg.Dir, or an in-memory instance when
// Dir is empty. The caller owns closing the returned handle.
func Open(cfg *config.StoreConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return db, nil
}

// RunGC runs Badger value-log garbage collection on cfg.GCInterval until ctx
// is canceled. In-memory databases have no value log, so RunGC returns
// immediately for them.
func RunGC(ctx context.Context, db *badger.DB, cfg *config.StoreConfig) {
	if cfg.Dir == "" {
		return
	}
	ticker := time.NewTicker(cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Rerun until a cycle reclaims nothing.
			for {
				if err := db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
		}
	}
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}
