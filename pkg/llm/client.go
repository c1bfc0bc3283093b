// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llm wraps the Gemini backend behind the stable generate
// contract of spec.md §4.10: typed error kinds and a bounded retry
// policy for the kinds the policy allows.
//
// Retries happen inside a single call to Generate and do not acquire
// a fresh RateGate reservation — the caller acquires once for the
// logical request, and LlmClient's own retries are covered by that
// same reservation ("honoring gate reservations").
package llm

import (
	"context"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
)

// Config configures Client.
type Config struct {
	APIKey         string
	Model          string
	MaxRetries     int
	RetryBaseDelay time.Duration
	// Metrics may be nil.
	Metrics *telemetry.Metrics
}

// Client wraps a genai.Client with typed errors and bounded retry.
type Client struct {
	genai *genai.Client
	model string
	cfg   Config
}

// New creates a Client. It fails fatally (AuthFailure) if no API key
// is configured, per spec.md §4.10.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Kind: AuthFailure, Message: "no API key configured"}
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, &Error{Kind: AuthFailure, Message: "failed to create genai client", Err: err}
	}

	return &Client{genai: client, model: cfg.Model, cfg: cfg}, nil
}

// Generate produces one completion for prompt, retrying RateLimited
// and Transient failures up to cfg.MaxRetries times with exponential
// backoff, and stopping immediately on any other error kind.
func (c *Client) Generate(ctx context.Context, prompt string, maxOutputTokens int, temperature float64, deadline time.Time) (string, error) {
	callCtx := ctx
	var cancel context.CancelFunc
	if !deadline.IsZero() {
		callCtx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxOutputTokens),
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.genai.Models.GenerateContent(callCtx, c.model, contents, genConfig)
		if err == nil {
			return extractText(resp), nil
		}

		lastErr = classify(callCtx, err)
		if !lastErr.Retryable() || attempt == c.cfg.MaxRetries {
			return "", lastErr
		}
		c.cfg.Metrics.RecordLLMRetry(lastErr.Kind.String())

		wait := backoff(c.cfg.RetryBaseDelay, attempt)
		if lastErr.Kind == RateLimited && lastErr.RetryAfter > wait {
			wait = lastErr.RetryAfter
		}
		select {
		case <-time.After(wait):
		case <-callCtx.Done():
			return "", &Error{Kind: Cancelled, Message: callCtx.Err().Error(), Err: callCtx.Err()}
		}
	}
	return "", lastErr
}

// Close releases nothing and always returns nil.
func (c *Client) Close() error {
	return nil
}

func backoff(base time.Duration, attempt int) time.Duration {
	exp := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Int63n(int64(base) + 1))
	return exp + jitter
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}
