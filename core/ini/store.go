package ini

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// ErrNotFound is returned by Read when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// Read loads and parses the file at path.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data), nil
}

// Write replaces the file at path with the serialized table.
// The content is written to a temporary file in the same directory and
// renamed over path; an existing file keeps its permissions.
func Write(path string, t *Table) error {
	if err := atomic.WriteFile(path, bytes.NewReader(Format(t))); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Update reads path, applies fn to the table and writes the result back.
// Nothing is written when fn returns an error.
func Update(path string, fn func(t *Table) error) error {
	t, err := Read(path)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	return Write(path, t)
}
