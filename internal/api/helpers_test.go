// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean string", "user@example.com", "user@example.com"},
		{"newline injection", "line1\nline2", "line1\\x0aline2"},
		{"carriage return", "a\rb", "a\\x0db"},
		{"tab", "a\tb", "a\\x09b"},
		{"delete char", "a\x7fb", "a\\x7fb"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogValue(tt.input); got != tt.want {
				t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		name   string
		target string
		key    string
		def    int
		want   int
	}{
		{"present", "/?count=7", "count", 10, 7},
		{"absent", "/", "count", 10, 10},
		{"non-numeric", "/?count=abc", "count", 10, 10},
		{"negative", "/?count=-3", "count", 10, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			if got := getIntParam(r, tt.key, tt.def); got != tt.want {
				t.Errorf("getIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{15, 1, 10, 10},
		{1, 1, 10, 1},
		{10, 1, 10, 10},
	}
	for _, tt := range tests {
		if got := clampInt(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRequestRNGSeeded(t *testing.T) {
	r1 := httptest.NewRequest(http.MethodGet, "/?seed=42", http.NoBody)
	r2 := httptest.NewRequest(http.MethodGet, "/?seed=42", http.NoBody)

	a, b := requestRNG(r1), requestRNG(r2)
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("identical seeds produced diverging sequences")
		}
	}
}

func TestRequestRNGUnseeded(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if requestRNG(r) == nil {
		t.Fatal("requestRNG returned nil")
	}
}

func TestGenerateETagStable(t *testing.T) {
	data := []byte(`{"success":true}`)
	if generateETag(data) != generateETag(data) {
		t.Error("ETag not stable for identical payloads")
	}
	if generateETag(data) == generateETag([]byte(`{"success":false}`)) {
		t.Error("distinct payloads produced identical ETags")
	}
}
