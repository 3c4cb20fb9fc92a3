package status

import (
	"context"
	"errors"

	"kf2-manager/feature/history"
	"kf2-manager/feature/supervisor"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrHistoryDisabled is returned when no history store is configured.
var ErrHistoryDisabled = errors.New("history is disabled")

// Supervisor exposes the live state.
type Supervisor interface {
	Snapshot() supervisor.Snapshot
}

// WorkshopReader reads the subscription set.
type WorkshopReader interface {
	Items() ([]uint64, error)
}

// CycleReader reads the map cycles.
type CycleReader interface {
	Cycles() ([][]string, error)
}

// HistoryReader lists recorded cycles.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Cycle, error)
}

// Service gathers status data.
type Service struct {
	supervisor Supervisor
	workshop   WorkshopReader
	cycles     CycleReader
	history    HistoryReader
	logger     *zap.Logger
	group      singleflight.Group
}

// NewService creates a status service. hist may be nil.
func NewService(sup Supervisor, ws WorkshopReader, cycles CycleReader, hist HistoryReader, logger *zap.Logger) *Service {
	return &Service{supervisor: sup, workshop: ws, cycles: cycles, history: hist, logger: logger}
}

// Snapshot returns the supervisor snapshot.
func (s *Service) Snapshot() supervisor.Snapshot {
	return s.supervisor.Snapshot()
}

// Workshop returns the subscribed items.
func (s *Service) Workshop() ([]uint64, error) {
	v, err, _ := s.group.Do("workshop", func() (any, error) {
		return s.workshop.Items()
	})
	if err != nil {
		return nil, err
	}
	return v.([]uint64), nil
}

// MapCycles returns the map lists of all cycles.
func (s *Service) MapCycles() ([][]string, error) {
	v, err, _ := s.group.Do("mapcycles", func() (any, error) {
		return s.cycles.Cycles()
	})
	if err != nil {
		return nil, err
	}
	return v.([][]string), nil
}

// History returns up to limit recent cycles.
func (s *Service) History(ctx context.Context, limit int) ([]history.Cycle, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}
