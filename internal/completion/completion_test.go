// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/daviddagyei/ai-scholarship-agent/internal/httputil"
)

func TestMain(m *testing.M) {
	backoffBase = time.Millisecond
	httputil.RetryBaseDelay = time.Millisecond
	os.Exit(m.Run())
}

// scriptedBackend returns responses in order; an error entry fails that call.
type scriptedBackend struct {
	replies []any
	calls   int
	prompts []string
}

func (s *scriptedBackend) Complete(_ context.Context, req Request) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if s.calls >= len(s.replies) {
		s.calls++
		return "", fmt.Errorf("no scripted reply for call %d", s.calls)
	}
	r := s.replies[s.calls]
	s.calls++
	if err, ok := r.(error); ok {
		return "", err
	}
	return r.(string), nil
}

type queryList struct {
	Query     []string `json:"query"`
	Rationale string   `json:"rationale"`
}

func TestClientJSON(t *testing.T) {
	tests := []struct {
		name      string
		replies   []any
		retries   int
		wantErr   bool
		wantCalls int
		want      []string
	}{
		{
			name:      "plain JSON",
			replies:   []any{`{"query":["a","b"],"rationale":"r"}`},
			wantCalls: 1,
			want:      []string{"a", "b"},
		},
		{
			name:      "fenced JSON with prose",
			replies:   []any{"Here you go:\n```json\n{\"query\":[\"a\"],\"rationale\":\"r\"}\n```"},
			wantCalls: 1,
			want:      []string{"a"},
		},
		{
			name:      "transient error then success",
			replies:   []any{errors.New("boom"), `{"query":["x"]}`},
			retries:   2,
			wantCalls: 2,
			want:      []string{"x"},
		},
		{
			name:      "undecodable then success",
			replies:   []any{"not json", `{"query":["y"]}`},
			retries:   1,
			wantCalls: 2,
			want:      []string{"y"},
		},
		{
			name:      "exhausts retries",
			replies:   []any{errors.New("a"), errors.New("b"), errors.New("c")},
			retries:   2,
			wantErr:   true,
			wantCalls: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &scriptedBackend{replies: tt.replies}
			c := NewClient(b, tt.retries, zaptest.NewLogger(t))

			var got queryList
			err := c.JSON(context.Background(), Request{Prompt: "generate"}, &got)
			assert.Equal(t, tt.wantCalls, b.calls)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Query)
			assert.Contains(t, b.prompts[0], structuredSuffix)
		})
	}
}

func TestClientTextRejectsBlank(t *testing.T) {
	b := &scriptedBackend{replies: []any{"   ", "answer"}}
	c := NewClient(b, 1, nil)

	got, err := c.Text(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "answer", got)

	b = &scriptedBackend{replies: []any{""}}
	_, err = NewClient(b, 0, nil).Text(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClientStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := &scriptedBackend{replies: []any{errors.New("down"), "never"}}
	err := NewClient(b, 3, nil).JSON(ctx, Request{Prompt: "p"}, &queryList{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, b.calls)
}

func TestDecode(t *testing.T) {
	var v map[string]any
	assert.ErrorIs(t, Decode("  ", &v), ErrEmptyResponse)
	assert.Error(t, Decode("no braces here", &v))
	assert.Error(t, Decode("{broken", &v))
	require.NoError(t, Decode("```\n{\"k\": 1}\n```", &v))
	assert.Equal(t, float64(1), v["k"])
}

func TestClaudeComplete(t *testing.T) {
	var got MessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"content":[{"type":"text","text":"hello "},{"type":"text","text":"world"}],"stop_reason":"end_turn"}`)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	c := &Claude{APIKey: "test-key", Model: "claude-test", Client: ts.Client()}
	text, err := c.Complete(context.Background(), Request{Prompt: "hi", Temperature: 1.0})
	require.NoError(t, err)

	assert.Equal(t, "hello world", text)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 1.0, *got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestClaudeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "non-200", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantErr: "returned 400"},
		{name: "bad JSON", status: http.StatusOK, body: `{`, wantErr: "decoding"},
		{name: "no text", status: http.StatusOK, body: `{"content":[]}`, wantErr: ErrEmptyResponse.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			old := claudeAPIURL
			claudeAPIURL = ts.URL
			defer func() { claudeAPIURL = old }()

			c := &Claude{APIKey: "k", Model: "m", Client: ts.Client()}
			_, err := c.Complete(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}
