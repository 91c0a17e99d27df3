package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/v6census/v6census/pkg/conn/db/postgres/testenv"
	"github.com/v6census/v6census/pkg/domain"
	kpgcensus "github.com/v6census/v6census/pkg/domain/census/db/postgres"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/try"
)

func TestSnapshotStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testenv.GetPool(ctx, t)
	if err := kpgcensus.EnsureSchema(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgcensus.NewSnapshotStore(pool)

	fetchedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	stored := domain.Snapshot{
		Key: "bgp",
		Payload: &stats.BGPStats{
			IPv6Prefixes:  228748,
			IPv4Prefixes:  1014404,
			IPv6Share:     18.4,
			GrowthPerYear: 26000,
			Provider:      "bgpstuff.net",
		},
		Origin:    domain.OriginLive,
		FetchedAt: fetchedAt,
		ExpiresAt: fetchedAt.Add(30 * 24 * time.Hour),
	}

	t.Run("it stores a snapshot and retrieves it by key", func(t *testing.T) {
		if err := testee.Put(ctx, stored); err != nil {
			t.Fatal(err)
		}

		found := try.To(testee.Get(ctx, []domain.Key{"bgp"})).OrFatal(t)
		got, ok := found["bgp"]
		if !ok {
			t.Fatalf("snapshot is not found: %v", found)
		}
		if !got.Equal(stored) {
			t.Errorf("snapshot is wrong:\n===actual===\n%+v\n===expected===\n%+v", got, stored)
		}
	})

	t.Run("it overwrites the snapshot stored for the same key", func(t *testing.T) {
		updated := stored
		updated.Origin = domain.OriginFallback
		updated.Note = "upstream timed out"
		updated.FetchedAt = fetchedAt.Add(6 * time.Hour)
		updated.ExpiresAt = updated.FetchedAt.Add(30 * 24 * time.Hour)
		if err := testee.Put(ctx, updated); err != nil {
			t.Fatal(err)
		}

		found := try.To(testee.Get(ctx, []domain.Key{"bgp"})).OrFatal(t)
		if got := found["bgp"]; !got.Equal(updated) {
			t.Errorf("snapshot is wrong:\n===actual===\n%+v\n===expected===\n%+v", got, updated)
		}

		all := try.To(testee.List(ctx)).OrFatal(t)
		if len(all) != 1 {
			t.Errorf("snapshots should not duplicate: %+v", all)
		}
	})

	t.Run("it does not find keys which are not stored", func(t *testing.T) {
		found := try.To(testee.Get(ctx, []domain.Key{"no-such-key"})).OrFatal(t)
		if len(found) != 0 {
			t.Errorf("unexpected snapshot is found: %+v", found)
		}
	})
}

func TestSnapshotStore_StaticSnapshotsKeepNoExpiry(t *testing.T) {
	ctx := context.Background()
	pool := testenv.GetPool(ctx, t)
	if err := kpgcensus.EnsureSchema(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgcensus.NewSnapshotStore(pool)

	stored := domain.Snapshot{
		Key: "matrix",
		Payload: &stats.MatrixStats{
			Metrics: []stats.MetricRow{
				{Name: "users", Percentage: 47.0, Note: "Google measurement"},
			},
		},
		Origin:    domain.OriginStatic,
		FetchedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	if err := testee.Put(ctx, stored); err != nil {
		t.Fatal(err)
	}

	found := try.To(testee.Get(ctx, []domain.Key{"matrix"})).OrFatal(t)
	got := found["matrix"]
	if !got.ExpiresAt.IsZero() {
		t.Errorf("static snapshot should have no expiry: %+v", got.ExpiresAt)
	}
	if got.Expired(time.Now().Add(100 * 24 * time.Hour)) {
		t.Error("static snapshot should never expire")
	}
}

func TestSnapshotStore_Delete(t *testing.T) {
	ctx := context.Background()
	pool := testenv.GetPool(ctx, t)
	if err := kpgcensus.EnsureSchema(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgcensus.NewSnapshotStore(pool)

	fetchedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	for _, key := range []domain.Key{"adoption/global", "bgp", "pulse"} {
		snap := domain.Snapshot{
			Key:       key,
			Payload:   &stats.GlobalAdoption{Percentage: 47.0, Provider: "Google"},
			Origin:    domain.OriginLive,
			FetchedAt: fetchedAt,
			ExpiresAt: fetchedAt.Add(30 * 24 * time.Hour),
		}
		if err := testee.Put(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("it deletes only the given keys", func(t *testing.T) {
		if err := testee.Delete(ctx, []domain.Key{"bgp", "no-such-key"}); err != nil {
			t.Fatal(err)
		}

		rest := try.To(testee.List(ctx)).OrFatal(t)
		if len(rest) != 2 {
			t.Fatalf("unexpected snapshots are left: %+v", rest)
		}
		for _, snap := range rest {
			if snap.Key == "bgp" {
				t.Error("deleted snapshot is found")
			}
		}
	})

	t.Run("it deletes everything on DeleteAll", func(t *testing.T) {
		if err := testee.DeleteAll(ctx); err != nil {
			t.Fatal(err)
		}

		rest := try.To(testee.List(ctx)).OrFatal(t)
		if len(rest) != 0 {
			t.Errorf("unexpected snapshots are left: %+v", rest)
		}
	})
}
