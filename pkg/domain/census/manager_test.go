package census_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/census"
	dbmock "github.com/v6census/v6census/pkg/domain/census/db/mock"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/try"
)

type fakeSource struct {
	key      domain.Key
	method   domain.Method
	fetch    func(ctx context.Context) (stats.Payload, error)
	fallback stats.Payload
}

var _ domain.Source = &fakeSource{}

func (f *fakeSource) Key() domain.Key {
	return f.key
}

func (f *fakeSource) Info() domain.SourceInfo {
	return domain.SourceInfo{Key: f.key, Provider: "test", Method: f.method}
}

func (f *fakeSource) Fetch(ctx context.Context) (stats.Payload, error) {
	return f.fetch(ctx)
}

func (f *fakeSource) Fallback() stats.Payload {
	return f.fallback
}

type fakeFamily struct {
	prefix string
	build  func(param string) (domain.Source, error)
}

var _ domain.Family = &fakeFamily{}

func (f *fakeFamily) Prefix() string {
	return f.prefix
}

func (f *fakeFamily) New(param string) (domain.Source, error) {
	return f.build(param)
}

func quietly() census.Option {
	return census.WithLogger(log.New(io.Discard, "", 0))
}

func TestManager_Dataset(t *testing.T) {
	ctx := context.Background()

	t.Run("it fetches once and then serves from the cache", func(t *testing.T) {
		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "adoption/global",
				method: domain.MethodScrape,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.GlobalAdoption{Percentage: 47.0, Provider: "Google"}, nil
				},
				fallback: &stats.GlobalAdoption{Percentage: 40.0},
			},
		}, quietly())

		first := try.To(testee.Dataset(ctx, "adoption/global")).OrFatal(t)
		if first.Origin != domain.OriginLive {
			t.Errorf("unexpected origin: %s", first.Origin)
		}
		if first.ExpiresAt.IsZero() {
			t.Error("live snapshot should expire")
		}

		second := try.To(testee.Dataset(ctx, "adoption/global")).OrFatal(t)
		if fetched != 1 {
			t.Errorf("the source should be fetched once, but: %d times", fetched)
		}
		if !second.Equal(first) {
			t.Errorf("cached snapshot differs:\n===first===\n%+v\n===second===\n%+v", first, second)
		}
	})

	t.Run("it falls back to the built-in estimate when the upstream fails", func(t *testing.T) {
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "bgp",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					return nil, errors.New("upstream timed out")
				},
				fallback: &stats.BGPStats{IPv6Prefixes: 228748, IPv4Prefixes: 1014404},
			},
		}, quietly())

		snap := try.To(testee.Dataset(ctx, "bgp")).OrFatal(t)
		if snap.Origin != domain.OriginFallback {
			t.Errorf("unexpected origin: %s", snap.Origin)
		}
		if snap.Note != "upstream timed out" {
			t.Errorf("the note should carry the fetch error: %q", snap.Note)
		}
		payload, ok := snap.Payload.(*stats.BGPStats)
		if !ok || payload.IPv6Prefixes != 228748 {
			t.Errorf("unexpected payload: %+v", snap.Payload)
		}
		if snap.ExpiresAt.IsZero() {
			t.Error("fallback snapshot should expire like a live one")
		}
	})

	t.Run("it marks snapshots of curated catalogs static, with no expiry", func(t *testing.T) {
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "cloud",
				method: domain.MethodStatic,
				fetch: func(context.Context) (stats.Payload, error) {
					return &stats.CloudCatalog{}, nil
				},
				fallback: &stats.CloudCatalog{},
			},
		}, quietly())

		snap := try.To(testee.Dataset(ctx, "cloud")).OrFatal(t)
		if snap.Origin != domain.OriginStatic {
			t.Errorf("unexpected origin: %s", snap.Origin)
		}
		if !snap.ExpiresAt.IsZero() {
			t.Errorf("static snapshot should not expire: %s", snap.ExpiresAt)
		}
	})

	t.Run("it refetches after the snapshot expires", func(t *testing.T) {
		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "pulse",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.PulseStats{}, nil
				},
				fallback: &stats.PulseStats{},
			},
		}, quietly(), census.WithTTL(time.Nanosecond))

		try.To(testee.Dataset(ctx, "pulse")).OrFatal(t)
		time.Sleep(time.Millisecond)
		try.To(testee.Dataset(ctx, "pulse")).OrFatal(t)

		if fetched != 2 {
			t.Errorf("expired snapshot should be refetched: %d fetches", fetched)
		}
	})

	t.Run("it errors for keys no source serves", func(t *testing.T) {
		testee := census.New(nil, quietly())
		if _, err := testee.Dataset(ctx, "no-such-dataset"); !errors.Is(err, domain.ErrUnknownKey) {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("it builds sources for family keys", func(t *testing.T) {
		testee := census.New(nil, quietly(), census.WithFamilies(&fakeFamily{
			prefix: "whois/",
			build: func(param string) (domain.Source, error) {
				return &fakeSource{
					key:    domain.Key("whois/" + param),
					method: domain.MethodAPI,
					fetch: func(context.Context) (stats.Payload, error) {
						return &stats.WhoisInfo{Resource: param}, nil
					},
					fallback: &stats.WhoisInfo{Resource: param},
				}, nil
			},
		}))

		snap := try.To(testee.Dataset(ctx, "whois/AS15169")).OrFatal(t)
		payload, ok := snap.Payload.(*stats.WhoisInfo)
		if !ok || payload.Resource != "AS15169" {
			t.Errorf("unexpected payload: %+v", snap.Payload)
		}

		// the bare prefix has no parameter, so no source serves it
		if _, err := testee.Dataset(ctx, "whois/"); !errors.Is(err, domain.ErrUnknownKey) {
			t.Errorf("unexpected error: %s", err)
		}
	})
}

func TestManager_Store(t *testing.T) {
	ctx := context.Background()
	fetchedAt := time.Now().Add(-time.Hour)

	t.Run("it reads through the store before fetching upstream", func(t *testing.T) {
		stored := domain.Snapshot{
			Key:       "akamai",
			Payload:   &stats.AkamaiStats{},
			Origin:    domain.OriginLive,
			FetchedAt: fetchedAt,
			ExpiresAt: fetchedAt.Add(30 * 24 * time.Hour),
		}
		store := dbmock.NewSnapshotInterface()
		store.Impl.Get = func(_ context.Context, keys []domain.Key) (map[domain.Key]domain.Snapshot, error) {
			return map[domain.Key]domain.Snapshot{"akamai": stored}, nil
		}

		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "akamai",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.AkamaiStats{}, nil
				},
				fallback: &stats.AkamaiStats{},
			},
		}, quietly(), census.WithStore(store))

		snap := try.To(testee.Dataset(ctx, "akamai")).OrFatal(t)
		if fetched != 0 {
			t.Errorf("the upstream should not be fetched: %d times", fetched)
		}
		if !snap.Equal(stored) {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})

	t.Run("it fetches upstream when the stored snapshot is expired", func(t *testing.T) {
		expired := domain.Snapshot{
			Key:       "akamai",
			Payload:   &stats.AkamaiStats{},
			Origin:    domain.OriginLive,
			FetchedAt: fetchedAt.Add(-60 * 24 * time.Hour),
			ExpiresAt: fetchedAt.Add(-30 * 24 * time.Hour),
		}
		store := dbmock.NewSnapshotInterface()
		store.Impl.Get = func(_ context.Context, keys []domain.Key) (map[domain.Key]domain.Snapshot, error) {
			return map[domain.Key]domain.Snapshot{"akamai": expired}, nil
		}
		store.Impl.Put = func(_ context.Context, s domain.Snapshot) error { return nil }

		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "akamai",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.AkamaiStats{}, nil
				},
				fallback: &stats.AkamaiStats{},
			},
		}, quietly(), census.WithStore(store))

		snap := try.To(testee.Dataset(ctx, "akamai")).OrFatal(t)
		if fetched != 1 {
			t.Errorf("the upstream should be fetched: %d times", fetched)
		}
		if snap.Origin != domain.OriginLive {
			t.Errorf("unexpected origin: %s", snap.Origin)
		}
		if store.Calls.Put.Times() != 1 {
			t.Errorf("the fresh snapshot should be written through: %d puts", store.Calls.Put.Times())
		}
	})

	t.Run("a broken store does not take dataset reads down", func(t *testing.T) {
		store := dbmock.NewSnapshotInterface()
		store.Impl.Get = func(context.Context, []domain.Key) (map[domain.Key]domain.Snapshot, error) {
			return nil, errors.New("connection refused")
		}
		store.Impl.Put = func(context.Context, domain.Snapshot) error {
			return errors.New("connection refused")
		}

		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "pulse",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					return &stats.PulseStats{}, nil
				},
				fallback: &stats.PulseStats{},
			},
		}, quietly(), census.WithStore(store))

		snap := try.To(testee.Dataset(ctx, "pulse")).OrFatal(t)
		if snap.Origin != domain.OriginLive {
			t.Errorf("unexpected origin: %s", snap.Origin)
		}
	})

	t.Run("Hydrate loads unexpired snapshots only", func(t *testing.T) {
		fresh := domain.Snapshot{
			Key:       "bgp",
			Payload:   &stats.BGPStats{IPv6Prefixes: 228748},
			Origin:    domain.OriginLive,
			FetchedAt: fetchedAt,
			ExpiresAt: fetchedAt.Add(30 * 24 * time.Hour),
		}
		rotten := domain.Snapshot{
			Key:       "pulse",
			Payload:   &stats.PulseStats{},
			Origin:    domain.OriginLive,
			FetchedAt: fetchedAt.Add(-60 * 24 * time.Hour),
			ExpiresAt: fetchedAt.Add(-30 * 24 * time.Hour),
		}
		store := dbmock.NewSnapshotInterface()
		store.Impl.List = func(context.Context) ([]domain.Snapshot, error) {
			return []domain.Snapshot{fresh, rotten}, nil
		}

		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "bgp",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.BGPStats{}, nil
				},
				fallback: &stats.BGPStats{},
			},
		}, quietly(), census.WithStore(store))

		loaded := try.To(testee.Hydrate(ctx)).OrFatal(t)
		if loaded != 1 {
			t.Errorf("only the unexpired snapshot should load: %d", loaded)
		}

		snap := try.To(testee.Dataset(ctx, "bgp")).OrFatal(t)
		if fetched != 0 {
			t.Errorf("the hydrated dataset should not be refetched: %d times", fetched)
		}
		if !snap.Equal(fresh) {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
	})
}

func TestManager_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("it refreshes the whole registry with no keys", func(t *testing.T) {
		keys := []domain.Key{"adoption/global", "bgp", "pulse"}
		srcs := []domain.Source{}
		for _, key := range keys {
			srcs = append(srcs, &fakeSource{
				key:    key,
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					return &stats.GlobalAdoption{}, nil
				},
				fallback: &stats.GlobalAdoption{},
			})
		}

		testee := census.New(srcs, quietly())
		snapshots := try.To(testee.Refresh(ctx)).OrFatal(t)
		if len(snapshots) != len(keys) {
			t.Fatalf("unexpected snapshot count: %d", len(snapshots))
		}
		for nth, snap := range snapshots {
			if snap.Key != keys[nth] {
				t.Errorf("snapshots should come back in registration order: %v", snapshots)
			}
		}
		if stats := testee.Stats(); stats.Entries != len(keys) {
			t.Errorf("all snapshots should be cached: %+v", stats)
		}
	})

	t.Run("it keeps refreshing when some sources fail", func(t *testing.T) {
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "adoption/global",
				method: domain.MethodScrape,
				fetch: func(context.Context) (stats.Payload, error) {
					return nil, errors.New("upstream is down")
				},
				fallback: &stats.GlobalAdoption{Percentage: 47.0},
			},
			&fakeSource{
				key:    "bgp",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					return &stats.BGPStats{IPv6Prefixes: 230000}, nil
				},
				fallback: &stats.BGPStats{},
			},
		}, quietly())

		snapshots := try.To(testee.Refresh(ctx)).OrFatal(t)
		origins := map[domain.Key]domain.Origin{}
		for _, snap := range snapshots {
			origins[snap.Key] = snap.Origin
		}
		if origins["adoption/global"] != domain.OriginFallback {
			t.Errorf("failing source should fall back: %+v", origins)
		}
		if origins["bgp"] != domain.OriginLive {
			t.Errorf("healthy source should stay live: %+v", origins)
		}
	})

	t.Run("it fetches at most maxParallel sources at once", func(t *testing.T) {
		mu := sync.Mutex{}
		inflight, peak := 0, 0

		srcs := []domain.Source{}
		for nth := 0; nth < 7; nth++ {
			srcs = append(srcs, &fakeSource{
				key:    domain.Key(fmt.Sprintf("dataset/%d", nth)),
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					mu.Lock()
					inflight++
					if peak < inflight {
						peak = inflight
					}
					mu.Unlock()

					time.Sleep(20 * time.Millisecond)

					mu.Lock()
					inflight--
					mu.Unlock()
					return &stats.GlobalAdoption{}, nil
				},
				fallback: &stats.GlobalAdoption{},
			})
		}

		testee := census.New(srcs, quietly(), census.WithMaxParallel(2))
		snapshots := try.To(testee.Refresh(ctx)).OrFatal(t)
		if len(snapshots) != len(srcs) {
			t.Fatalf("unexpected snapshot count: %d", len(snapshots))
		}

		mu.Lock()
		defer mu.Unlock()
		if 2 < peak {
			t.Errorf("parallel fetches should be bounded by 2, but peaked at %d", peak)
		}
	})

	t.Run("it errors for unknown keys before fetching anything", func(t *testing.T) {
		fetched := 0
		testee := census.New([]domain.Source{
			&fakeSource{
				key:    "bgp",
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					fetched++
					return &stats.BGPStats{}, nil
				},
				fallback: &stats.BGPStats{},
			},
		}, quietly())

		if _, err := testee.Refresh(ctx, "bgp", "no-such-dataset"); !errors.Is(err, domain.ErrUnknownKey) {
			t.Errorf("unexpected error: %s", err)
		}
		if fetched != 0 {
			t.Errorf("nothing should be fetched: %d times", fetched)
		}
	})
}

func TestManager_RefreshExpiring(t *testing.T) {
	ctx := context.Background()

	fetches := map[domain.Key]int{}
	mu := sync.Mutex{}
	count := func(key domain.Key) {
		mu.Lock()
		defer mu.Unlock()
		fetches[key]++
	}

	testee := census.New([]domain.Source{
		&fakeSource{
			key:    "bgp",
			method: domain.MethodAPI,
			fetch: func(context.Context) (stats.Payload, error) {
				count("bgp")
				return &stats.BGPStats{}, nil
			},
			fallback: &stats.BGPStats{},
		},
		&fakeSource{
			key:    "cloud",
			method: domain.MethodStatic,
			fetch: func(context.Context) (stats.Payload, error) {
				count("cloud")
				return &stats.CloudCatalog{}, nil
			},
			fallback: &stats.CloudCatalog{},
		},
	}, quietly())

	// first pass: nothing is cached, so everything is refreshed
	try.To(testee.RefreshExpiring(ctx, 24*time.Hour)).OrFatal(t)
	if fetches["bgp"] != 1 || fetches["cloud"] != 1 {
		t.Fatalf("missing datasets should be fetched: %v", fetches)
	}

	// second pass with a short horizon: everything is fresh, nothing to do
	try.To(testee.RefreshExpiring(ctx, 24*time.Hour)).OrFatal(t)
	if fetches["bgp"] != 1 || fetches["cloud"] != 1 {
		t.Errorf("fresh datasets should not be refetched: %v", fetches)
	}

	// horizon beyond the TTL: live snapshots are about to expire, static never
	try.To(testee.RefreshExpiring(ctx, 31*24*time.Hour)).OrFatal(t)
	if fetches["bgp"] != 2 {
		t.Errorf("the live dataset should be refetched: %v", fetches)
	}
	if fetches["cloud"] != 1 {
		t.Errorf("the static dataset should not be refetched: %v", fetches)
	}
}

func TestManager_Invalidate(t *testing.T) {
	ctx := context.Background()

	newTestee := func(store *dbmock.SnapshotInterface) (*census.Manager, func(domain.Key) int) {
		mu := sync.Mutex{}
		fetches := map[domain.Key]int{}
		srcs := []domain.Source{}
		for _, key := range []domain.Key{"bgp", "pulse"} {
			key := key
			srcs = append(srcs, &fakeSource{
				key:    key,
				method: domain.MethodAPI,
				fetch: func(context.Context) (stats.Payload, error) {
					mu.Lock()
					defer mu.Unlock()
					fetches[key]++
					return &stats.PulseStats{}, nil
				},
				fallback: &stats.PulseStats{},
			})
		}
		options := []census.Option{quietly()}
		if store != nil {
			options = append(options, census.WithStore(store))
		}
		fetchCount := func(key domain.Key) int {
			mu.Lock()
			defer mu.Unlock()
			return fetches[key]
		}
		return census.New(srcs, options...), fetchCount
	}

	t.Run("it drops the given keys and only them", func(t *testing.T) {
		store := dbmock.NewSnapshotInterface()
		store.Impl.Put = func(context.Context, domain.Snapshot) error { return nil }
		store.Impl.Get = func(context.Context, []domain.Key) (map[domain.Key]domain.Snapshot, error) {
			return map[domain.Key]domain.Snapshot{}, nil
		}
		store.Impl.Delete = func(context.Context, []domain.Key) error { return nil }

		testee, fetchCount := newTestee(store)
		try.To(testee.Refresh(ctx)).OrFatal(t)

		dropped := try.To(testee.Invalidate(ctx, "bgp")).OrFatal(t)
		if dropped != 1 {
			t.Errorf("unexpected drop count: %d", dropped)
		}
		if store.Calls.Delete.Times() != 1 {
			t.Errorf("the store should delete the key too: %d calls", store.Calls.Delete.Times())
		}

		try.To(testee.Dataset(ctx, "bgp")).OrFatal(t)
		try.To(testee.Dataset(ctx, "pulse")).OrFatal(t)
		if n := fetchCount("bgp"); n != 2 {
			t.Errorf("the invalidated dataset should be refetched: %d fetches", n)
		}
		if n := fetchCount("pulse"); n != 1 {
			t.Errorf("the untouched dataset should stay cached: %d fetches", n)
		}
	})

	t.Run("it rejects unknown keys", func(t *testing.T) {
		testee, _ := newTestee(nil)
		if _, err := testee.Invalidate(ctx, "no-such-dataset"); !errors.Is(err, domain.ErrUnknownKey) {
			t.Errorf("unexpected error: %s", err)
		}
	})

	t.Run("InvalidateAll empties cache and store", func(t *testing.T) {
		store := dbmock.NewSnapshotInterface()
		store.Impl.Put = func(context.Context, domain.Snapshot) error { return nil }
		store.Impl.DeleteAll = func(context.Context) error { return nil }

		testee, _ := newTestee(store)
		try.To(testee.Refresh(ctx)).OrFatal(t)

		dropped := try.To(testee.InvalidateAll(ctx)).OrFatal(t)
		if dropped != 2 {
			t.Errorf("unexpected drop count: %d", dropped)
		}
		if store.Calls.DeleteAll.Times() != 1 {
			t.Errorf("the store should be emptied too: %d calls", store.Calls.DeleteAll.Times())
		}
		if stats := testee.Stats(); stats.Entries != 0 {
			t.Errorf("the cache should be empty: %+v", stats)
		}
	})
}

func TestManager_Sources(t *testing.T) {
	testee := census.New([]domain.Source{
		&fakeSource{key: "adoption/global", method: domain.MethodScrape},
		&fakeSource{key: "bgp", method: domain.MethodAPI},
	}, quietly())

	infos := testee.Sources()
	if len(infos) != 2 {
		t.Fatalf("unexpected source count: %d", len(infos))
	}
	if infos[0].Key != "adoption/global" || infos[1].Key != "bgp" {
		t.Errorf("sources should list in registration order: %+v", infos)
	}
}
