// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempOutput stages an output file next to its destination so the
// destination only ever appears fully written, even when a run dies
// halfway through a splice.
type TempOutput struct {
	dest string
	file *os.File
}

// NewTempOutput creates a staging file in the destination's directory.
// Caller must defer CleanupOnError.
func NewTempOutput(dest string) (*TempOutput, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), ".stegano-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempOutput{dest: dest, file: f}, nil
}

// File exposes the staged file for writing.
func (t *TempOutput) File() *os.File {
	return t.file
}

// CleanupOnError closes the staged file and removes it if the write
// failed. After a successful Promote both calls are no-ops.
func (t *TempOutput) CleanupOnError(errp *error) {
	t.file.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(t.file.Name()) //nolint:gosec // best-effort cleanup
	}
}

// Promote flushes the staged file and moves it over the destination,
// returning the final size.
func (t *TempOutput) Promote() (int64, error) {
	if err := t.file.Sync(); err != nil {
		return 0, fmt.Errorf("flushing staged output: %w", err)
	}

	info, err := t.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat staged output: %w", err)
	}

	if err := t.file.Close(); err != nil {
		return 0, fmt.Errorf("closing staged output: %w", err)
	}

	if err := os.Rename(t.file.Name(), t.dest); err != nil {
		return 0, fmt.Errorf("moving staged output into place: %w", err)
	}

	return info.Size(), nil
}
