package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Workbook writes records to one sheet of an XLSX workbook. Like the CSV
// sink, the file lands atomically via temp + rename.
type Workbook struct {
	Path  string
	Sheet string // empty means "Sheet1"
}

func (s *Workbook) Write(records [][]string) error {
	sheet := s.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The new file always starts with Sheet1; rename rather than add+delete.
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
		}
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
		}
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
	}
	return nil
}
