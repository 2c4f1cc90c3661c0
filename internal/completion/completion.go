// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion wraps the natural-language completion service. It
// offers a freeform mode that returns text and a structured mode that
// decodes a JSON object into a typed value.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the service answers with no text.
var ErrEmptyResponse = errors.New("completion service returned no text")

// Request is one prompt sent to the completion service.
type Request struct {
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int
	// Model overrides the backend's default model when set.
	Model string
}

// Backend abstracts the completion API so tests can supply a mock.
// Implementations make exactly one attempt per call.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Client adds bounded retries and structured decoding on top of a Backend.
type Client struct {
	Backend    Backend
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient returns a Client. A negative maxRetries is treated as zero.
func NewClient(b Backend, maxRetries int, log *zap.Logger) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Backend: b, MaxRetries: maxRetries, Logger: log}
}

// Text runs req in freeform mode.
func (c *Client) Text(ctx context.Context, req Request) (string, error) {
	var out string
	err := c.withRetry(ctx, "freeform", func() error {
		text, err := c.Backend.Complete(ctx, req)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return ErrEmptyResponse
		}
		out = text
		return nil
	})
	return out, err
}

// JSON runs req in structured mode and decodes the first JSON object in
// the answer into out. A response that does not decode counts as a failed
// attempt and is retried.
func (c *Client) JSON(ctx context.Context, req Request, out any) error {
	req.Prompt = strings.TrimRight(req.Prompt, "\n") + "\n\n" + structuredSuffix
	return c.withRetry(ctx, "structured", func() error {
		text, err := c.Backend.Complete(ctx, req)
		if err != nil {
			return err
		}
		return Decode(text, out)
	})
}

const structuredSuffix = "Respond with a single JSON object only. Do not include any text outside the JSON object."

// Decode extracts the JSON object from text, tolerating Markdown code
// fences and leading or trailing prose, and unmarshals it into out.
func Decode(text string, out any) error {
	raw := jsonObject(text)
	if raw == "" {
		if strings.TrimSpace(text) == "" {
			return ErrEmptyResponse
		}
		return fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}
	return nil
}

func jsonObject(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

func (c *Client) withRetry(ctx context.Context, mode string, call func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err
		c.Logger.Debug("completion attempt failed",
			zap.String("mode", mode),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return fmt.Errorf("after %d retries: %w", c.MaxRetries, lastErr)
}
