// Package workshop manages the Steam Workshop subscription list stored in
// PCServer-KFEngine.ini.
//
// Subscriptions are repeated lines in a single section:
//
//	[OnlineSubsystemSteamworks.KFWorkshopSteamworks]
//	ServerSubscribedWorkshopItems=1234
//	ServerSubscribedWorkshopItems=5678
//
// Every mutation rewrites the section with distinct IDs in ascending numeric
// order, so the file content depends only on the resulting set.
package workshop

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"kf2-manager/core/ini"
	"kf2-manager/feature/kf2"

	"go.uber.org/zap"
)

// Mode selects how SetItems combines the given IDs with stored ones.
type Mode int

const (
	// Replace stores exactly the given IDs.
	Replace Mode = iota
	// Merge stores the union of the given and the stored IDs.
	Merge
)

func (m Mode) String() string {
	if m == Merge {
		return "merge"
	}
	return "replace"
}

// ParseItems extracts the IDs from subscription lines. Lines without "=" or
// without a non-negative integer after it are skipped. The result is sorted
// and free of duplicates.
func ParseItems(lines []string) []uint64 {
	ids := make([]uint64, 0, len(lines))
	for _, line := range lines {
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return normalize(ids)
}

// Items returns the subscribed IDs; a missing section means none.
func Items(t *ini.Table) []uint64 {
	lines, _ := t.Get(kf2.WorkshopSection)
	return ParseItems(lines)
}

// SetItems rewrites the subscription section, creating it if absent.
func SetItems(t *ini.Table, items []uint64, mode Mode) []uint64 {
	next := slices.Clone(items)
	if mode == Merge {
		next = append(next, Items(t)...)
	}
	next = normalize(next)
	t.Set(kf2.WorkshopSection, Lines(next))
	return next
}

// RemoveItems drops the given IDs from the subscription section. With no
// IDs the whole section is deleted.
func RemoveItems(t *ini.Table, items []uint64) []uint64 {
	if len(items) == 0 {
		t.Delete(kf2.WorkshopSection)
		return nil
	}

	drop := make(map[uint64]struct{}, len(items))
	for _, id := range items {
		drop[id] = struct{}{}
	}

	kept := slices.DeleteFunc(Items(t), func(id uint64) bool {
		_, ok := drop[id]
		return ok
	})
	t.Set(kf2.WorkshopSection, Lines(kept))
	return kept
}

// Lines formats IDs as subscription lines, in the given order.
func Lines(ids []uint64) []string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("%s=%d", kf2.WorkshopItemKey, id))
	}
	return lines
}

// ParseIDs parses decimal workshop IDs, e.g. from command line arguments.
func ParseIDs(values []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid workshop id %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func normalize(ids []uint64) []uint64 {
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Service applies subscription changes to an engine ini file.
type Service struct {
	path   string
	logger *zap.Logger
}

// NewService creates a service for the engine ini at path.
func NewService(path string, logger *zap.Logger) *Service {
	return &Service{path: path, logger: logger}
}

// Set stores items using mode and returns the resulting subscription set.
func (s *Service) Set(items []uint64, mode Mode) ([]uint64, error) {
	var result []uint64
	err := ini.Update(s.path, func(t *ini.Table) error {
		result = SetItems(t, items, mode)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Workshop subscriptions updated",
		zap.String("mode", mode.String()),
		zap.Int("given", len(items)),
		zap.Int("subscribed", len(result)),
	)
	return result, nil
}

// Remove unsubscribes items, or everything when items is empty.
func (s *Service) Remove(items []uint64) ([]uint64, error) {
	var result []uint64
	err := ini.Update(s.path, func(t *ini.Table) error {
		result = RemoveItems(t, items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Workshop subscriptions removed",
		zap.Int("removed_requested", len(items)),
		zap.Int("subscribed", len(result)),
	)
	return result, nil
}

// Items reads the current subscription set.
func (s *Service) Items() ([]uint64, error) {
	t, err := ini.Read(s.path)
	if err != nil {
		return nil, err
	}
	return Items(t), nil
}
