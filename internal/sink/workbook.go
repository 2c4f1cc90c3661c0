// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"github.com/daviddagyei/ai-scholarship-agent/pkg/types"
)

// lockRetry is how often a blocked writer polls the workbook's lock file.
var lockRetry = 50 * time.Millisecond

// pathLocks serializes access to a workbook path within this process.
// Every Workbook for the same file shares one mutex.
var pathLocks sync.Map

// Workbook stores rows in a local .xlsx file. The first row of the sheet
// is a header and is never read as data.
//
// Each read-modify-write holds a per-path mutex and an advisory lock on
// "<path>.lock", so concurrent runs in one process or several never
// overwrite each other's rows.
type Workbook struct {
	path  string
	sheet string
}

// NewWorkbook returns a Workbook sink for path. The file is created on
// first write or Init.
func NewWorkbook(path, sheet string) *Workbook {
	if sheet == "" {
		sheet = types.DefaultSheet
	}
	return &Workbook{path: path, sheet: sheet}
}

// lock takes the in-process and the cross-process lock for w.path.
func (w *Workbook) lock(ctx context.Context) (func(), error) {
	key, err := filepath.Abs(w.path)
	if err != nil {
		key = filepath.Clean(w.path)
	}
	v, _ := pathLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("creating workbook directory: %w", err)
	}
	fl := flock.New(key + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		mu.Unlock()
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return nil, fmt.Errorf("locking workbook %s: %w", w.path, err)
	}
	return func() {
		_ = fl.Unlock()
		mu.Unlock()
	}, nil
}

// Init creates the workbook with a header row if it does not exist.
func (w *Workbook) Init(ctx context.Context) error {
	unlock, err := w.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(w.path)
}

// ExistingTitles implements Sink.
func (w *Workbook) ExistingTitles(ctx context.Context) ([]string, error) {
	unlock, err := w.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", w.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", w.sheet, err)
	}
	var titles []string
	for i, row := range rows {
		if i == 0 || len(row) <= types.TitleColumn {
			continue
		}
		titles = append(titles, row[types.TitleColumn])
	}
	return titles, nil
}

// AppendRow implements Sink.
func (w *Workbook) AppendRow(ctx context.Context, row []string) error {
	unlock, err := w.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", w.sheet, err)
	}
	if err := writeRow(f, w.sheet, len(rows)+1, row); err != nil {
		return err
	}
	return f.SaveAs(w.path)
}

// open loads the workbook or creates a new one with the header row.
func (w *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(w.path); err == nil {
		f, err := excelize.OpenFile(w.path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook %s: %w", w.path, err)
		}
		if idx, _ := f.GetSheetIndex(w.sheet); idx < 0 {
			if _, err := f.NewSheet(w.sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("creating sheet %s: %w", w.sheet, err)
			}
			if err := writeRow(f, w.sheet, 1, types.ColumnHeaders); err != nil {
				f.Close()
				return nil, err
			}
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeRow(f, w.sheet, 1, types.ColumnHeaders); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, n int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("computing cell: %w", err)
	}
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", n, err)
	}
	return nil
}
