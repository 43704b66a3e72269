// Package fileutil provides file helpers shared by the SEG-Y tooling: sidecar
// naming and validation, and atomic writes for derived outputs.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SidecarExt is the extension of on-disk trace index files.
const SidecarExt = ".index"

// Exists returns true if the file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SidecarPath returns the index file that accompanies a SEG-Y file: the same
// path with its extension replaced by SidecarExt. "line.sgy" maps to
// "line.index".
func SidecarPath(segyPath string) string {
	ext := filepath.Ext(segyPath)
	return strings.TrimSuffix(segyPath, ext) + SidecarExt
}

// RecordFileValid checks that path holds a non-empty whole number of
// fixed-size records and returns that number. Files that are empty, missing
// or end mid-record are reported invalid.
func RecordFileValid(path string, recordSize int64) (int64, bool) {
	if recordSize <= 0 {
		return 0, false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	if info.Size() == 0 || info.Size()%recordSize != 0 {
		return 0, false
	}
	return info.Size() / recordSize, true
}

// WriteAtomic creates a uniquely named temporary file next to outPath, hands
// it to write, then syncs it and renames it over outPath. outPath is left
// untouched when write or any later step fails. write must not close f.
func WriteAtomic(outPath string, write func(f *os.File) error) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(outPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	fail := func(err error) error {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := write(f); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}
	return nil
}
