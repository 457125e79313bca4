// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package api

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/models"
)

// sanitizeLogValue strips control characters from strings before they reach
// the log stream, preventing forged or corrupted log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON marshals v and writes it with Content-Type and a weak ETag.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondPlanError writes the {success:false, error} shape used by the
// workout plan endpoints.
func respondPlanError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Str("error", sanitizeLogValue(err.Error())).Msg("Plan endpoint error")
	}
	respondJSON(w, status, models.PlanError{Success: false, Error: message})
}

// respondErrorBody writes the bare {error} shape used by the meal and diet
// endpoints.
func respondErrorBody(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		logging.Error().Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}
	respondJSON(w, status, models.ErrorBody{Error: message})
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// requestRNG returns the random source for a request. A "seed" query
// parameter pins the sequence for reproducible responses; otherwise the
// source is seeded from crypto/rand.
func requestRNG(r *http.Request) *rand.Rand {
	if raw := r.URL.Query().Get("seed"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return rand.New(rand.NewSource(seed))
		}
	}
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// Degraded but functional; sampling quality is not security-sensitive.
		return rand.New(rand.NewSource(1))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(buf[:]))))
}
