package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSV writes records as comma-delimited UTF-8 text.
//
// The write is atomic: records go to a temp file in the destination
// directory, which is renamed over the target only after a clean flush.
// An interrupted or failed run never leaves a half-written output file.
type CSV struct {
	Path  string
	Comma rune // 0 means ','
}

func (s *CSV) Write(records [][]string) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, s.Path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	w := csv.NewWriter(tmp)
	if s.Comma != 0 {
		w.Comma = s.Comma
	}
	if err := w.WriteAll(records); err != nil {
		cleanup()
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
