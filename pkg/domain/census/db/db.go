package db

import (
	"context"

	"github.com/v6census/v6census/pkg/domain"
)

// SnapshotInterface is the access to the snapshot store.
//
// The store is a write-through copy of the in-memory cache. Daemons reload
// it at boot so a restart does not hammer every upstream at once.
type SnapshotInterface interface {
	// Get retrieves the snapshots stored for keys.
	//
	// args:
	//     - ctx: context
	//     - keys: dataset keys to look up
	//
	// returns:
	//     - map[domain.Key]domain.Snapshot: found snapshots, keyed by dataset key.
	//       Keys with no stored snapshot are just missing from the map, not an error.
	//     - error
	Get(ctx context.Context, keys []domain.Key) (map[domain.Key]domain.Snapshot, error)

	// List retrieves all stored snapshots.
	List(ctx context.Context) ([]domain.Snapshot, error)

	// Put stores the snapshot, overwriting any snapshot stored for the same key.
	Put(ctx context.Context, s domain.Snapshot) error

	// Delete removes the snapshots stored for keys.
	//
	// Keys with no stored snapshot are ignored.
	Delete(ctx context.Context, keys []domain.Key) error

	// DeleteAll removes every stored snapshot.
	DeleteAll(ctx context.Context) error
}

// Database bundles the stores of the census and their shared connection.
type Database interface {
	Snapshots() SnapshotInterface

	Ping(ctx context.Context) error

	Close() error
}
