// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/internal/httputil"
	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// sheetsBaseURL is the Google Sheets API root. Package-level var for test substitution.
var sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Sheets appends rows to a Google Sheets worksheet through the REST API.
type Sheets struct {
	SpreadsheetID string
	Sheet         string
	Token         string
	Client        *http.Client
	Logger        *zap.Logger

	mu sync.Mutex
	// needsHeader is set when the last title read found an empty
	// worksheet, so the next append writes the header first.
	needsHeader bool
}

type valueRange struct {
	Values [][]string `json:"values"`
}

// ExistingTitles implements Sink. It reads the title column, skipping the
// first row only when it is the header.
func (s *Sheets) ExistingTitles(ctx context.Context) ([]string, error) {
	col := string(rune('A' + types.TitleColumn))
	rng := fmt.Sprintf("%s!%s:%s", s.sheet(), col, col)

	var vr valueRange
	if err := s.do(ctx, http.MethodGet, s.valuesURL(rng, ""), nil, &vr); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.needsHeader = len(vr.Values) == 0
	s.mu.Unlock()

	var titles []string
	for i, row := range vr.Values {
		if len(row) == 0 || (i == 0 && isTitleHeader(row[0])) {
			continue
		}
		titles = append(titles, row[0])
	}
	return titles, nil
}

func isTitleHeader(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), types.ColumnHeaders[types.TitleColumn])
}

// AppendRow implements Sink. Values are written as entered (RAW). The
// first append to a worksheet found empty carries the header row.
func (s *Sheets) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := [][]string{row}
	if s.needsHeader {
		values = [][]string{types.ColumnHeaders, row}
	}
	if err := s.appendValues(ctx, values); err != nil {
		return err
	}
	s.needsHeader = false
	return nil
}

// Init writes the header row when the worksheet is empty.
func (s *Sheets) Init(ctx context.Context) error {
	var vr valueRange
	if err := s.do(ctx, http.MethodGet, s.valuesURL(s.sheet()+"!A1:A1", ""), nil, &vr); err != nil {
		return err
	}
	if len(vr.Values) > 0 {
		return nil
	}
	return s.appendValues(ctx, [][]string{types.ColumnHeaders})
}

func (s *Sheets) appendValues(ctx context.Context, values [][]string) error {
	body, err := json.Marshal(valueRange{Values: values})
	if err != nil {
		return fmt.Errorf("marshaling row: %w", err)
	}
	u := s.valuesURL(s.sheet()+"!A1", ":append") + "?valueInputOption=RAW&insertDataOption=INSERT_ROWS"
	return s.do(ctx, http.MethodPost, u, body, nil)
}

func (s *Sheets) valuesURL(rng, suffix string) string {
	return fmt.Sprintf("%s/%s/values/%s%s", sheetsBaseURL, url.PathEscape(s.SpreadsheetID), url.PathEscape(rng), suffix)
}

func (s *Sheets) sheet() string {
	if s.Sheet == "" {
		return types.DefaultSheet
	}
	return s.Sheet
}

func (s *Sheets) do(ctx context.Context, method, u string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0, s.Logger)
	if err != nil {
		return fmt.Errorf("calling Sheets API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("Sheets API returned %d: %s", resp.StatusCode, string(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding Sheets response: %w", err)
	}
	return nil
}
