package interfaces

import (
	"time"

	"github.com/pallas-ai/pallas/internal/models"
)

// SnapshotStore persists indicator snapshots so a narrative can be rebuilt
// or audited after the fact.
type SnapshotStore interface {
	// SaveSnapshot records the series fetched for a symbol at a point in time.
	SaveSnapshot(symbol string, set models.IndicatorSet) error

	// GetSnapshot returns the most recent snapshot for a symbol, or a wrapped
	// common.ErrNotFound when none exists.
	GetSnapshot(symbol string) (*models.IndicatorSnapshot, error)

	// ListSnapshots returns snapshots recorded since the given time, newest
	// first.
	ListSnapshots(since time.Time) ([]*models.IndicatorSnapshot, error)

	Close() error
}
