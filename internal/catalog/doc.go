// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package catalog loads the fixed exercise and food tables consumed by the
// recommendation subsystem.
//
// Both catalogs are read from CSV at process start, validated against their
// required columns, and never mutated afterward. Handlers share a single
// catalog instance across requests; all accessors are safe for concurrent
// readers.
package catalog
