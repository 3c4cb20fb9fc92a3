// Package catalog enumerates custom map names from map directories.
//
// A candidate map is a regular file whose name starts with "kf-" and whose
// extension is ".kfm", both compared case-insensitively. The name reported
// is the file's base name without extension, with its original case.
package catalog

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	mapPrefix    = "kf-"
	mapExtension = ".kfm"
)

// Catalog lists candidate map names.
type Catalog interface {
	// ListCandidateNames returns the maps found under dirs. Order is
	// unspecified and a name found in several places appears several times.
	ListCandidateNames(ctx context.Context, dirs []string) ([]string, error)
}

// FileCatalog walks directories on the local filesystem.
type FileCatalog struct {
	logger *zap.Logger
}

// NewFileCatalog creates a filesystem catalog.
func NewFileCatalog(logger *zap.Logger) *FileCatalog {
	return &FileCatalog{logger: logger}
}

// ListCandidateNames walks every directory concurrently. Missing
// directories, and paths that are not directories, contribute nothing.
// Unreadable subdirectories are skipped with a warning; only cancellation
// fails the listing.
func (c *FileCatalog) ListCandidateNames(ctx context.Context, dirs []string) ([]string, error) {
	var (
		mu    sync.Mutex
		names []string
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			found, err := c.walk(ctx, dir)
			if err != nil {
				return err
			}
			mu.Lock()
			names = append(names, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *FileCatalog) walk(ctx context.Context, root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				return nil
			}
			c.logger.Warn("Skipping unreadable map path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if name, ok := MapName(d.Name()); ok && isRegular(path, d) {
			names = append(names, name)
		}
		return nil
	})
	return names, err
}

// isRegular follows symlinks so linked map files still count.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// MapName returns the map name for a file name if it is a candidate map.
func MapName(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	if !strings.EqualFold(ext, mapExtension) {
		return "", false
	}
	if !strings.HasPrefix(strings.ToLower(fileName), mapPrefix) {
		return "", false
	}
	return strings.TrimSuffix(fileName, ext), true
}

// Static is a fixed Catalog, useful when the map list comes from elsewhere.
type Static []string

// ListCandidateNames returns the static names.
func (s Static) ListCandidateNames(context.Context, []string) ([]string, error) {
	return append([]string(nil), s...), nil
}
