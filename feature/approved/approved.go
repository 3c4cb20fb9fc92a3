// Package approved provides the list of workshop items a server should be
// subscribed to.
//
// The list is curated outside the server as a table: one column holds the
// workshop IDs and any other cells (titles, notes, a header row) are ignored.
// The table is read as CSV from a local file or from object storage.
package approved

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"kf2-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrInvalidColumn is returned for a column number below 1.
var ErrInvalidColumn = errors.New("column must be 1 or greater")

// Source fetches the approved workshop IDs.
type Source interface {
	Fetch(ctx context.Context) ([]uint64, error)
}

// ParseColumn reads CSV from r and returns the IDs found in column, counted
// from 1. Only cells made of decimal digits are used. Rows shorter than
// column are skipped. The result is sorted and free of duplicates.
func ParseColumn(r io.Reader, column int) ([]uint64, error) {
	if column < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var ids []uint64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read approved list: %w", err)
		}
		if len(record) < column {
			continue
		}

		cell := strings.TrimSpace(record[column-1])
		if !isDigits(cell) {
			continue
		}
		id, err := strconv.ParseUint(cell, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FileSource reads the list from a local CSV file.
type FileSource struct {
	Path   string
	Column int
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open approved list: %w", err)
	}
	defer f.Close()
	return ParseColumn(f, s.Column)
}

// StorageSource reads the list from an object in a bucket.
type StorageSource struct {
	Client storage.Client
	Bucket string
	Object string
	Column int
}

// Fetch implements Source.
func (s StorageSource) Fetch(ctx context.Context) ([]uint64, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", s.Bucket, s.Object, err)
	}
	defer obj.Close()

	ids, err := ParseColumn(obj, s.Column)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", s.Bucket, s.Object, err)
	}
	return ids, nil
}

// Static serves a fixed list.
type Static []uint64

// Fetch implements Source.
func (s Static) Fetch(context.Context) ([]uint64, error) {
	ids := slices.Clone(s)
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
