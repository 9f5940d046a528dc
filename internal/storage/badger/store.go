// Package badger provides BadgerDB-based persistence for indicator
// snapshots.
package badger

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// Store wraps badgerhold for typed snapshot storage.
type Store struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the snapshot database at path.
func NewStore(path string, logger *common.Logger) (*Store, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Debug().Str("path", path).Msg("snapshot store opened")

	return &Store{store: store, logger: logger}, nil
}

// SaveSnapshot records one indicator fetch. The badgerhold sequence assigns
// the key, so snapshots accumulate as an append-only history per symbol.
func (s *Store) SaveSnapshot(symbol string, set models.IndicatorSet) error {
	snapshot := &models.IndicatorSnapshot{
		Symbol:     symbol,
		Indicators: set,
		CapturedAt: time.Now(),
	}
	if err := s.store.Insert(badgerhold.NextSequence(), snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.logger.Debug().Str("symbol", symbol).Int("indicators", len(set)).Msg("snapshot saved")
	return nil
}

// GetSnapshot returns the most recent snapshot for a symbol.
func (s *Store) GetSnapshot(symbol string) (*models.IndicatorSnapshot, error) {
	var snapshots []models.IndicatorSnapshot
	err := s.store.Find(&snapshots, badgerhold.Where("Symbol").Eq(symbol).Index("Symbol"))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("snapshot for %s: %w", symbol, common.ErrNotFound)
	}

	latest := snapshots[0]
	for _, snap := range snapshots[1:] {
		if snap.CapturedAt.After(latest.CapturedAt) {
			latest = snap
		}
	}
	return &latest, nil
}

// ListSnapshots returns snapshots captured since the given time, newest
// first.
func (s *Store) ListSnapshots(since time.Time) ([]*models.IndicatorSnapshot, error) {
	var snapshots []models.IndicatorSnapshot
	err := s.store.Find(&snapshots, badgerhold.Where("CapturedAt").Ge(since))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CapturedAt.After(snapshots[j].CapturedAt)
	})

	out := make([]*models.IndicatorSnapshot, len(snapshots))
	for i := range snapshots {
		out[i] = &snapshots[i]
	}
	return out, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

var _ interfaces.SnapshotStore = (*Store)(nil)
