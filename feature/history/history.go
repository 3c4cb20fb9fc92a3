package history

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outcome describes how a cycle ended.
type Outcome string

const (
	OutcomeRestarted Outcome = "restarted"
	OutcomeExited    Outcome = "process_exited"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Cycle is one supervisor cycle.
type Cycle struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	StartedAt     time.Time `gorm:"column:started_at;index" json:"started_at"`
	EndedAt       time.Time `gorm:"column:ended_at" json:"ended_at"`
	Subscribed    int       `gorm:"column:subscribed" json:"subscribed"`
	CacheRemoved  int       `gorm:"column:cache_removed" json:"cache_removed"`
	CacheFailures int       `gorm:"column:cache_failures" json:"cache_failures"`
	Maps          int       `gorm:"column:maps" json:"maps"`
	Outcome       Outcome   `gorm:"column:outcome;size:32" json:"outcome"`
	Detail        string    `gorm:"column:detail;size:512" json:"detail"`
}

// TableName implements gorm's tabler.
func (Cycle) TableName() string {
	return "supervisor_cycles"
}

// Recorder stores finished cycles.
type Recorder interface {
	Record(ctx context.Context, c Cycle) error
}

// Nop discards cycles.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Cycle) error { return nil }

// Store keeps cycles in a gorm database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the cycles table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Cycle{}); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	return nil
}

// Record inserts c, assigning an ID when it has none. Detail is cut to
// the column size.
func (s *Store) Record(ctx context.Context, c Cycle) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Detail = truncate(c.Detail, maxDetail)
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return fmt.Errorf("failed to record cycle %s: %w", c.ID, err)
	}
	return nil
}

// maxDetail matches the size of the detail column.
const maxDetail = 512

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Recent returns up to limit cycles, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Cycle, error) {
	var cycles []Cycle
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&cycles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	return cycles, nil
}
