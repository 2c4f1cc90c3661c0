// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/daviddagyei/ai-scholarship-agent/internal/completion"
)

const searchResponse = `{
  "content": [
    {"type": "server_tool_use", "id": "t1", "name": "web_search"},
    {"type": "web_search_tool_result", "content": [{"type": "web_search_result", "url": "https://acme.org/apply", "title": "Acme"}]},
    {"type": "text", "text": "Acme Foundation offers a $5,000 award."
     , "citations": [{"type": "web_search_result_location", "url": "https://acme.org/apply", "title": "Acme", "cited_text": "award"}]},
    {"type": "text", "text": " Apply by 2099-01-01."}
  ],
  "stop_reason": "end_turn"
}`

func TestClaudeSearcher(t *testing.T) {
	var got completion.MessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, searchResponse)
	}))
	defer ts.Close()

	s := &ClaudeSearcher{
		API:    &completion.Claude{APIKey: "k", Model: "m", Client: ts.Client(), Endpoint: ts.URL},
		Now:    func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
		Logger: zaptest.NewLogger(t),
	}

	res, err := s.Search(context.Background(), "engineering scholarships")
	require.NoError(t, err)

	assert.Equal(t, "Acme Foundation offers a $5,000 award. Apply by 2099-01-01.", res.Text)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, 0, res.Segments[0].Start)
	assert.Equal(t, len("Acme Foundation offers a $5,000 award."), res.Segments[0].End)
	assert.Equal(t, "https://acme.org/apply", res.Segments[0].Sources[0].URL)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "web_search_20250305", got.Tools[0].Type)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.0, *got.Temperature)
	assert.Contains(t, got.Messages[0].Content, "engineering scholarships")
	assert.Contains(t, got.Messages[0].Content, "2026-05-01")
}

func TestClaudeSearcherNoText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"content":[{"type":"server_tool_use"}]}`)
	}))
	defer ts.Close()

	s := &ClaudeSearcher{API: &completion.Claude{Client: ts.Client(), Endpoint: ts.URL}}
	_, err := s.Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoText)
}
