// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// Open builds the sink described by cfg. A configuration missing the
// target, or the credential for a remote sink, yields ErrUnavailable.
// The returned closer releases any resources held by the sink.
func Open(cfg types.SinkConfig, log *zap.Logger) (Sink, io.Closer, error) {
	switch cfg.Kind {
	case types.SinkNone, "":
		return nil, nopCloser{}, fmt.Errorf("%w: no sink kind configured", ErrUnavailable)
	}
	if cfg.Target == "" {
		return nil, nopCloser{}, fmt.Errorf("%w: %s sink has no target", ErrUnavailable, cfg.Kind)
	}

	switch cfg.Kind {
	case types.SinkSheets:
		if cfg.Credential == "" {
			return nil, nopCloser{}, fmt.Errorf("%w: sheets sink has no access token", ErrUnavailable)
		}
		return &Sheets{
			SpreadsheetID: cfg.Target,
			Sheet:         cfg.Sheet,
			Token:         cfg.Credential,
			Client:        &http.Client{Timeout: 30 * time.Second},
			Logger:        log,
		}, nopCloser{}, nil
	case types.SinkWorkbook:
		return NewWorkbook(cfg.Target, cfg.Sheet), nopCloser{}, nil
	case types.SinkSQLite:
		s, err := OpenSQLite(cfg.Target)
		if err != nil {
			return nil, nopCloser{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return s, s, nil
	}
	return nil, nopCloser{}, fmt.Errorf("%w: unknown sink kind %q", ErrUnavailable, cfg.Kind)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
