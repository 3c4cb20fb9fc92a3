// Package mapcycle edits the map rotation lines of PCServer-KFGame.ini.
//
// Map cycles live in the game info section as repeated lines:
//
//	[KFGame.KFGameInfo]
//	GameMapCycles=(Maps=("KF-BioticsLab","KF-BurningParis"))
//	GameMapCycles=(Maps=("KF-Custom1","KF-Custom2"))
//
// A cycle is addressed by its ordinal among those lines.
package mapcycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"kf2-manager/core/ini"
	"kf2-manager/feature/catalog"
	"kf2-manager/feature/kf2"

	"go.uber.org/zap"
)

// CyclePrefix starts every map cycle line.
const CyclePrefix = "GameMapCycles"

// ErrSectionMissing is returned when the game info section does not exist.
var ErrSectionMissing = errors.New("game info section missing")

// Line builds a cycle line from names, deduplicated and sorted.
func Line(names []string) string {
	unique := slices.Clone(names)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	quoted := make([]string, 0, len(unique))
	for _, n := range unique {
		quoted = append(quoted, `"`+n+`"`)
	}
	return CyclePrefix + "=(Maps=(" + strings.Join(quoted, ",") + "))"
}

// RebuildCycle writes the cycle built from names at index.
//
// When index addresses an existing cycle line, that line is overwritten.
// Any other index, negative or past the last cycle, appends a new cycle right
// after the last existing one (or as the first body line when there is
// none). A caller therefore cannot create cycle 5 while only cycles 0 and 1
// exist: the new line becomes cycle 2.
//
// It returns the ordinal the cycle was written to.
func RebuildCycle(t *ini.Table, names []string, index int) (int, error) {
	lines, ok := t.Get(kf2.GameInfoSection)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSectionMissing, kf2.GameInfoSection)
	}

	positions := cyclePositions(lines)
	line := Line(names)

	if index >= 0 && index < len(positions) {
		lines[positions[index]] = line
		t.Set(kf2.GameInfoSection, lines)
		return index, nil
	}

	insertAt := 0
	if len(positions) > 0 {
		insertAt = positions[len(positions)-1] + 1
	}
	lines = slices.Insert(lines, insertAt, line)
	t.Set(kf2.GameInfoSection, lines)
	return len(positions), nil
}

// Cycles returns the map lists of all cycles, in order.
func Cycles(t *ini.Table) ([][]string, error) {
	lines, ok := t.Get(kf2.GameInfoSection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionMissing, kf2.GameInfoSection)
	}

	var cycles [][]string
	for _, pos := range cyclePositions(lines) {
		cycles = append(cycles, parseMaps(lines[pos]))
	}
	return cycles, nil
}

func cyclePositions(lines []string) []int {
	var positions []int
	for i, line := range lines {
		if strings.HasPrefix(line, CyclePrefix) {
			positions = append(positions, i)
		}
	}
	return positions
}

// parseMaps reads the quoted names of a cycle line.
func parseMaps(line string) []string {
	_, rest, ok := strings.Cut(line, "Maps=(")
	if !ok {
		return nil
	}
	rest, _, _ = strings.Cut(rest, ")")

	var maps []string
	for _, field := range strings.Split(rest, ",") {
		name := strings.Trim(strings.TrimSpace(field), `"`)
		if name != "" {
			maps = append(maps, name)
		}
	}
	return maps
}

// Service rebuilds the custom map cycle of a server's game ini.
type Service struct {
	catalog catalog.Catalog
	layout  kf2.Layout
	logger  *zap.Logger
}

// NewService creates a new map cycle service.
func NewService(c catalog.Catalog, layout kf2.Layout, logger *zap.Logger) *Service {
	return &Service{catalog: c, layout: layout, logger: logger}
}

// Rebuild writes the cycle of all catalog maps at index.
func (s *Service) Rebuild(ctx context.Context, index int) (int, error) {
	names, err := s.catalog.ListCandidateNames(ctx, s.layout.MapDirs())
	if err != nil {
		return 0, fmt.Errorf("failed to list maps: %w", err)
	}

	var written int
	err = ini.Update(s.layout.GameINI(), func(t *ini.Table) error {
		n, rebuildErr := RebuildCycle(t, names, index)
		written = n
		return rebuildErr
	})
	if err != nil {
		return 0, err
	}

	if written != index {
		s.logger.Warn("Map cycle index not present, appended instead",
			zap.Int("requested", index),
			zap.Int("written", written),
		)
	}
	s.logger.Info("Map cycle rebuilt", zap.Int("index", written), zap.Int("maps", len(names)))
	return written, nil
}

// Cycles reads the current map cycles.
func (s *Service) Cycles() ([][]string, error) {
	t, err := ini.Read(s.layout.GameINI())
	if err != nil {
		return nil, err
	}
	return Cycles(t)
}
