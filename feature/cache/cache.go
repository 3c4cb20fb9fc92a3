// Package cache removes workshop download directories that no longer belong
// to a subscribed item.
//
// The server downloads every subscribed item into KFGame/Cache/<id>. When an
// item is unsubscribed its directory stays behind and its maps keep showing
// up in the catalog, so stale directories are deleted before summaries and
// map cycles are rebuilt.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// Failure records a directory that could not be removed.
type Failure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("remove %s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result summarizes one reconciliation.
type Result struct {
	// Removed lists the stale directories that were deleted.
	Removed []string `json:"removed"`

	// Kept lists the directories matching a subscribed item.
	Kept []string `json:"kept"`

	// Failures lists stale directories that could not be deleted.
	Failures []Failure `json:"failures"`
}

// Err joins all failures, or returns nil when every removal succeeded.
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Plan splits the immediate subdirectories of root into stale and kept
// names. A missing root has neither. Regular files are ignored.
func Plan(root string, ids []uint64) (stale, kept []string, err error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cache %s: %w", root, err)
	}

	subscribed := idSet(ids)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := subscribed[e.Name()]; ok {
			kept = append(kept, e.Name())
		} else {
			stale = append(stale, e.Name())
		}
	}
	return stale, kept, nil
}

func idSet(ids []uint64) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[strconv.FormatUint(id, 10)] = struct{}{}
	}
	return set
}

// Reconciler deletes stale cache directories.
type Reconciler struct {
	logger    *zap.Logger
	removeAll func(path string) error
}

// NewReconciler creates a reconciler that removes directories from disk.
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger, removeAll: os.RemoveAll}
}

// Reconcile removes every immediate subdirectory of root whose name is not
// the decimal form of one of ids. A failed removal is recorded and the
// remaining directories are still processed; the returned error is only set
// when root cannot be listed or ctx is done.
func (r *Reconciler) Reconcile(ctx context.Context, root string, ids []uint64) (Result, error) {
	stale, kept, err := Plan(root, ids)
	if err != nil {
		return Result{}, err
	}

	res := Result{Kept: kept}
	subscribed := idSet(ids)

	for _, name := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, ok := subscribed[name]; ok {
			continue
		}

		if err := r.removeAll(filepath.Join(root, name)); err != nil {
			r.logger.Warn("Failed to remove cache directory", zap.String("name", name), zap.Error(err))
			res.Failures = append(res.Failures, Failure{Name: name, Err: err})
			continue
		}
		res.Removed = append(res.Removed, name)
	}

	r.logger.Info("Cache reconciled",
		zap.String("root", root),
		zap.Int("removed", len(res.Removed)),
		zap.Int("kept", len(res.Kept)),
		zap.Int("failed", len(res.Failures)),
	)
	return res, nil
}
