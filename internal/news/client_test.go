// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulsefit/pulsefit/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.NewsConfig{
		Enabled: true,
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Query:   "fitness OR workout",
		Timeout: 2 * time.Second,
	})
}

func TestHeadlinesParsesArticles(t *testing.T) {
	var gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "Strength studies", "description": "New research", "url": "https://example.com/a",
				 "publishedAt": "2026-08-01T10:00:00Z", "source": {"name": "Fit Daily"}},
				{"title": "", "url": "https://example.com/dropped"},
				{"title": "Protein timing", "url": "https://example.com/b", "source": {"name": "Nutrition Wire"}}
			]
		}`))
	})

	articles, err := client.Headlines(context.Background(), 10)
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if gotQuery != "fitness OR workout" {
		t.Errorf("query param = %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2 (titleless entry dropped)", len(articles))
	}
	if articles[0].Title != "Strength studies" || articles[0].Source != "Fit Daily" {
		t.Errorf("articles[0] = %+v", articles[0])
	}
}

func TestHeadlinesLimitForwarded(t *testing.T) {
	var gotPageSize string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPageSize = r.URL.Query().Get("pageSize")
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	if _, err := client.Headlines(context.Background(), 5); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if gotPageSize != "5" {
		t.Errorf("pageSize = %q, want 5", gotPageSize)
	}
}

func TestHeadlinesUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	})

	if _, err := client.Headlines(context.Background(), 5); err == nil {
		t.Fatal("Headlines() should fail on HTTP 401")
	}
}

func TestHeadlinesUpstreamStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"rateLimited","articles":[]}`))
	})

	if _, err := client.Headlines(context.Background(), 5); err == nil {
		t.Fatal("Headlines() should fail on upstream status error")
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Drive enough failures to trip the breaker (>=5 requests, 60% failing).
	for i := 0; i < 6; i++ {
		_, _ = client.Headlines(context.Background(), 1)
	}

	before := calls
	if _, err := client.Headlines(context.Background(), 1); err == nil {
		t.Fatal("Headlines() should fail while breaker is open")
	}
	if calls != before {
		t.Errorf("breaker did not short-circuit: upstream called %d times after open", calls-before)
	}
}
