package census

import (
	"context"
	"time"

	"github.com/v6census/v6census/pkg/domain"
)

// Service is the census surface the serving layer consumes.
//
// *Manager implements it; tests substitute a mock.
type Service interface {
	// Dataset returns the current snapshot of key, fetching it when the
	// cache and the store have nothing fresh.
	Dataset(ctx context.Context, key domain.Key) (domain.Snapshot, error)

	// Refresh fetches the given datasets anew. With no keys, the whole
	// registry is refreshed.
	Refresh(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error)

	// RefreshExpiring refreshes the registry datasets missing, expired, or
	// expiring within the horizon.
	RefreshExpiring(ctx context.Context, horizon time.Duration) ([]domain.Snapshot, error)

	// Invalidate drops the given datasets, returning how many cached
	// snapshots were dropped.
	Invalidate(ctx context.Context, keys ...domain.Key) (int, error)

	// InvalidateAll drops every snapshot.
	InvalidateAll(ctx context.Context) (int, error)

	// Sources lists the registry entries in serving order.
	Sources() []domain.SourceInfo

	// Peek returns the cached snapshot of key even when expired.
	Peek(key domain.Key) (domain.Snapshot, bool)

	// Stats summarizes the cache content.
	Stats() CacheStats
}

var _ Service = &Manager{}
