// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package news proxies fitness headlines from an upstream NewsAPI-style
// provider. The upstream call is wrapped in a circuit breaker so a slow
// or failing provider cannot drag down request handling.
package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pulsefit/pulsefit/internal/config"
	"github.com/pulsefit/pulsefit/internal/logging"
	"github.com/pulsefit/pulsefit/internal/metrics"
	"github.com/pulsefit/pulsefit/internal/models"
)

// ErrUnavailable is returned when the circuit is open or the upstream
// provider cannot be reached.
var ErrUnavailable = errors.New("news: provider unavailable")

// maxErrorBodySize bounds how much of an upstream error body is read
// for diagnostics.
const maxErrorBodySize = 16 * 1024

// upstreamResponse mirrors the NewsAPI "everything" payload, reduced to
// the fields Pulsefit forwards.
type upstreamResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetcher retrieves fitness news articles.
type Fetcher interface {
	Headlines(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// Client calls the upstream news provider with circuit breaker protection.
type Client struct {
	baseURL string
	apiKey  string
	query   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]models.NewsArticle]
}

// NewClient builds a news client from configuration. The breaker opens
// after a 60% failure rate over at least 5 requests and probes again
// after the configured timeout window.
func NewClient(cfg *config.NewsConfig) *Client {
	metrics.SetNewsBreakerState(0)

	cb := gobreaker.NewCircuitBreaker[[]models.NewsArticle](gobreaker.Settings{
		Name:        "news-api",
		MaxRequests: 2,
		Interval:    cfg.Timeout * 6,
		Timeout:     cfg.Timeout * 12,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("News breaker state transition")
			metrics.SetNewsBreakerState(stateToInt(to))
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		query:   cfg.Query,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
	}
}

// Headlines returns up to limit articles matching the configured query.
func (c *Client) Headlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	articles, err := c.cb.Execute(func() ([]models.NewsArticle, error) {
		return c.fetch(ctx, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordNewsRequest("rejected")
			logging.Warn().Err(err).Msg("News request rejected by open breaker")
			return nil, ErrUnavailable
		}
		metrics.RecordNewsRequest("failure")
		return nil, err
	}
	metrics.RecordNewsRequest("success")
	return articles, nil
}

func (c *Client) fetch(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	reqURL, err := c.buildURL(limit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("news: building request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: %w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("news: upstream returned HTTP %d: %s", resp.StatusCode, body)
	}

	var payload upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("news: decoding response: %w", err)
	}
	if payload.Status != "" && payload.Status != "ok" {
		return nil, fmt.Errorf("news: upstream status %q: %s", payload.Status, payload.Message)
	}

	articles := make([]models.NewsArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

func (c *Client) buildURL(limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("news: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", c.query)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	if limit > 0 {
		q.Set("pageSize", fmt.Sprintf("%d", limit))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
