package snapshotrepository

import (
	"context"

	"github.com/Amund211/clientboard/internal/domain"
)

// SnapshotRepository keeps the last successfully fetched project per list, so
// a stale copy can be served when the tracker is unreachable
type SnapshotRepository interface {
	StoreSnapshot(ctx context.Context, snapshot domain.ProjectSnapshot) error

	// Raises domain.ErrNotFound if no snapshot exists for the list
	GetSnapshot(ctx context.Context, listID string) (domain.ProjectSnapshot, error)
}
