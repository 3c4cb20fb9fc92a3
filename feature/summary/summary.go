// Package summary regenerates the custom map summary sections of
// PCServer-KFGame.ini.
//
// Summary sections look like
//
//	[KF-Outpost KFMapSummary]
//	MapName=KF-Outpost
//
// Vanilla summaries shipped with the server carry eight body lines; the ones
// generated here carry exactly one. Line count is the only thing telling the
// two apart: a generated entry edited up to eight lines, or a vanilla entry
// trimmed to one, will be misclassified.
package summary

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"kf2-manager/core/ini"
	"kf2-manager/feature/catalog"
	"kf2-manager/feature/kf2"

	"go.uber.org/zap"
)

var summaryHeader = regexp.MustCompile(`^\[.+ KFMapSummary\]`)

// Result lists what Rebuild changed.
type Result struct {
	// Removed are headers of generated summaries that were discarded.
	Removed []string
	// Added are the map names that received a generated summary.
	Added []string
}

// Header returns the summary header for a map.
func Header(name string) string {
	return fmt.Sprintf("[%s KFMapSummary]", name)
}

// IsGenerated reports whether a section is a generated map summary.
func IsGenerated(header string, lines []string) bool {
	return summaryHeader.MatchString(header) && len(lines) == 1
}

// Rebuild discards every generated summary and creates one per distinct
// name. Generated entries are never patched in place; maps missing from
// names simply lose their summary.
//
// A name with an existing vanilla summary keeps it untouched.
func Rebuild(t *ini.Table, names []string) Result {
	var res Result

	for _, s := range t.Sections() {
		if IsGenerated(s.Header, s.Lines) {
			t.Delete(s.Header)
			res.Removed = append(res.Removed, s.Header)
		}
	}

	unique := slices.Clone(names)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	for _, name := range unique {
		header := Header(name)
		if t.Has(header) {
			continue
		}
		t.Set(header, []string{"MapName=" + name})
		res.Added = append(res.Added, name)
	}
	return res
}

// Service rebuilds the summaries of a server's game ini from its map
// directories.
type Service struct {
	catalog catalog.Catalog
	layout  kf2.Layout
	logger  *zap.Logger
}

// NewService creates a new summary service.
func NewService(c catalog.Catalog, layout kf2.Layout, logger *zap.Logger) *Service {
	return &Service{catalog: c, layout: layout, logger: logger}
}

// Rebuild lists the map catalog and rewrites the game ini.
func (s *Service) Rebuild(ctx context.Context) (Result, error) {
	names, err := s.catalog.ListCandidateNames(ctx, s.layout.MapDirs())
	if err != nil {
		return Result{}, fmt.Errorf("failed to list maps: %w", err)
	}

	var res Result
	err = ini.Update(s.layout.GameINI(), func(t *ini.Table) error {
		res = Rebuild(t, names)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("Map summaries rebuilt",
		zap.Int("removed", len(res.Removed)),
		zap.Int("added", len(res.Added)),
	)
	return res, nil
}
