package sheetstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet used when none is configured.
const DefaultSheetName = "Sheet1"

// ExcelOptions configures an ExcelStore.
type ExcelOptions struct {
	Path       string
	SheetName  string
	HeaderRows int
}

// ExcelStore keeps the tracking grid in one worksheet of an .xlsx workbook.
// Header rows and every other sheet in the workbook are left untouched.
type ExcelStore struct {
	opts   ExcelOptions
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewExcelStore creates a new ExcelStore
func NewExcelStore(opts ExcelOptions, logger zerolog.Logger) *ExcelStore {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	if opts.HeaderRows < 0 {
		opts.HeaderRows = 0
	}
	return &ExcelStore{
		opts:   opts,
		logger: logger.With().Str("component", "ExcelStore").Str("path", opts.Path).Logger(),
	}
}

// Load reads every row below the header. Blank rows are returned too so
// that row indices stay aligned with the sheet.
func (s *ExcelStore) Load(ctx context.Context) ([]models.TrackedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.WrapErrorf(common.ErrNotFound, "tracking workbook %s", s.opts.Path)
		}
		return nil, common.WrapErrorf(err, "failed to open tracking workbook %s", s.opts.Path)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(s.opts.SheetName); err != nil || idx < 0 {
		return nil, common.WrapErrorf(common.ErrNotFound, "sheet %q", s.opts.SheetName)
	}

	grid, err := f.GetRows(s.opts.SheetName)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read sheet %q", s.opts.SheetName)
	}

	var rows []models.TrackedRow
	for i := s.opts.HeaderRows; i < len(grid); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows = append(rows, models.RowFromCells(i+1, grid[i]))
	}

	s.logger.Debug().Int("rows", len(rows)).Str("sheet", s.opts.SheetName).Msg("Loaded tracked rows")
	return rows, nil
}

// Save writes rows back to the positions they were loaded from.
func (s *ExcelStore) Save(ctx context.Context, rows []models.TrackedRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.opts.Path)
	if err != nil {
		return common.WrapErrorf(err, "failed to open tracking workbook %s", s.opts.Path)
	}
	defer f.Close()

	for _, row := range rows {
		if row.Index <= s.opts.HeaderRows {
			return common.NewRowError(row.Index, row.URL, common.NewError("row index overlaps the header"))
		}
		cell, err := excelize.CoordinatesToCellName(1, row.Index)
		if err != nil {
			return common.NewRowError(row.Index, row.URL, err)
		}
		values := sheetValues(row)
		if err := f.SetSheetRow(s.opts.SheetName, cell, &values); err != nil {
			return common.NewRowError(row.Index, row.URL, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return common.WrapErrorf(err, "failed to save tracking workbook %s", s.opts.Path)
	}

	s.logger.Debug().Int("rows", len(rows)).Msg("Saved tracked rows")
	return nil
}

// sheetValues converts a row to cell values. Numeric status codes are
// written as numbers so the sheet can sort and filter on them.
func sheetValues(row models.TrackedRow) []interface{} {
	cells := row.Cells()
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	for _, col := range []int{models.ColCurrentStatus, models.ColPreviousStatus} {
		if code, err := strconv.Atoi(cells[col]); err == nil {
			values[col] = code
		}
	}
	return values
}

// CreateWorkbook writes a new workbook with the tracking header row and the
// given client/URL pairs. It refuses to overwrite an existing file.
func CreateWorkbook(path, sheetName string, targets [][2]string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing workbook %s", path)
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return common.WrapError(err, "failed to rename sheet")
		}
	}

	header := make([]interface{}, len(models.TrackedColumnHeaders))
	for i, h := range models.TrackedColumnHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return common.WrapError(err, "failed to write header row")
	}

	for i, target := range targets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{target[0], target[1]}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return common.WrapErrorf(err, "failed to write target %s", target[1])
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return common.WrapErrorf(err, "failed to create directory %s", dir)
		}
	}
	return f.SaveAs(path)
}
