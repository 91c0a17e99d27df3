// Package census coordinates the dataset registry, the snapshot cache and
// the upstream sources of the IPv6 census.
package census

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	"github.com/v6census/v6census/pkg/metrics"
)

const (
	// DefaultTTL keeps live and fallback snapshots for 30 days.
	// The upstreams publish monthly at best, so longer is just stale.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultMaxParallel bounds how many sources are fetched at once.
	DefaultMaxParallel = 3

	// DefaultFetchTimeout bounds a single upstream fetch.
	DefaultFetchTimeout = 10 * time.Second
)

// Manager owns the dataset registry, the in-memory cache and the optional
// snapshot store, and coordinates fetches against the upstream sources.
type Manager struct {
	sources  map[domain.Key]domain.Source
	order    []domain.Key
	families []domain.Family

	cache *Cache

	// store is nil when no database is configured. The manager then runs
	// memory-only and every policy below still holds.
	store kdb.SnapshotInterface

	logger  *log.Logger
	metrics *metrics.Metrics

	ttl          time.Duration
	maxParallel  int
	fetchTimeout time.Duration
}

type Option func(*Manager) *Manager

// WithStore adds a write-through snapshot store behind the cache.
func WithStore(store kdb.SnapshotInterface) Option {
	return func(m *Manager) *Manager {
		m.store = store
		return m
	}
}

// WithFamilies registers builders for parameterized datasets,
// like "whois/<resource>".
func WithFamilies(families ...domain.Family) Option {
	return func(m *Manager) *Manager {
		m.families = append(m.families, families...)
		return m
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) *Manager {
		m.logger = logger
		return m
	}
}

func WithMetrics(mtr *metrics.Metrics) Option {
	return func(m *Manager) *Manager {
		m.metrics = mtr
		return m
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) *Manager {
		if 0 < ttl {
			m.ttl = ttl
		}
		return m
	}
}

func WithMaxParallel(n int) Option {
	return func(m *Manager) *Manager {
		if 0 < n {
			m.maxParallel = n
		}
		return m
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) *Manager {
		if 0 < d {
			m.fetchTimeout = d
		}
		return m
	}
}

// New builds a Manager over the given sources.
//
// Registering two sources with the same key is a programming error,
// so New panics on it.
func New(sources []domain.Source, options ...Option) *Manager {
	m := &Manager{
		sources:      map[domain.Key]domain.Source{},
		cache:        NewCache(),
		logger:       log.Default(),
		ttl:          DefaultTTL,
		maxParallel:  DefaultMaxParallel,
		fetchTimeout: DefaultFetchTimeout,
	}

	for _, src := range sources {
		key := src.Key()
		if _, ok := m.sources[key]; ok {
			panic(fmt.Sprintf("dataset key is registered twice: %s", key))
		}
		m.sources[key] = src
		m.order = append(m.order, key)
	}

	for _, option := range options {
		m = option(m)
	}
	return m
}

// resolve finds the source serving key, consulting families for
// parameterized keys.
func (m *Manager) resolve(key domain.Key) (domain.Source, error) {
	if src, ok := m.sources[key]; ok {
		return src, nil
	}
	for _, family := range m.families {
		param, ok := strings.CutPrefix(key.String(), family.Prefix())
		if !ok || param == "" {
			continue
		}
		return family.New(param)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKey, key)
}

// Dataset returns the current snapshot for key.
//
// The in-memory cache is consulted first, then the snapshot store, then the
// upstream. A failing upstream yields the source's fallback payload, so
// Dataset errors only for keys no source serves.
func (m *Manager) Dataset(ctx context.Context, key domain.Key) (domain.Snapshot, error) {
	now := time.Now()

	if snap, ok := m.cache.Get(key, now); ok {
		m.metrics.RecordCacheRead(true)
		return snap, nil
	}
	m.metrics.RecordCacheRead(false)

	src, err := m.resolve(key)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if m.store != nil {
		if found, err := m.store.Get(ctx, []domain.Key{key}); err != nil {
			m.logger.Printf("snapshot store: get %s: %s", key, err)
			m.metrics.RecordStoreError()
		} else if snap, ok := found[key]; ok && !snap.Expired(now) {
			m.cache.Put(snap)
			m.metrics.UpdateCacheEntries(m.cache.Len())
			return snap, nil
		}
	}

	snap := m.fetch(ctx, src)
	m.keep(ctx, snap)
	return snap, nil
}

// Refresh fetches the given datasets anew, bypassing cache and store.
// With no keys, the whole registry is refreshed.
func (m *Manager) Refresh(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error) {
	var srcs []domain.Source
	if len(keys) == 0 {
		for _, key := range m.order {
			srcs = append(srcs, m.sources[key])
		}
	} else {
		for _, key := range keys {
			src, err := m.resolve(key)
			if err != nil {
				return nil, err
			}
			srcs = append(srcs, src)
		}
	}
	return m.refresh(ctx, srcs), nil
}

// RefreshExpiring refreshes the registry datasets which are missing from the
// cache, expired, or expiring within the horizon.
func (m *Manager) RefreshExpiring(ctx context.Context, horizon time.Duration) ([]domain.Snapshot, error) {
	now := time.Now()

	var srcs []domain.Source
	for _, key := range m.order {
		if snap, ok := m.cache.Peek(key); ok && !snap.ExpiresWithin(now, horizon) {
			continue
		}
		srcs = append(srcs, m.sources[key])
	}
	return m.refresh(ctx, srcs), nil
}

// Invalidate drops the given datasets from the cache and the store.
// It returns how many cached snapshots were dropped.
func (m *Manager) Invalidate(ctx context.Context, keys ...domain.Key) (int, error) {
	for _, key := range keys {
		if _, err := m.resolve(key); err != nil {
			return 0, err
		}
	}

	dropped := m.cache.Drop(keys...)
	m.metrics.UpdateCacheEntries(m.cache.Len())
	m.metrics.RecordInvalidation(dropped)

	if m.store != nil {
		if err := m.store.Delete(ctx, keys); err != nil {
			m.metrics.RecordStoreError()
			return dropped, err
		}
	}
	return dropped, nil
}

// InvalidateAll empties the cache and the store.
// It returns how many cached snapshots were dropped.
func (m *Manager) InvalidateAll(ctx context.Context) (int, error) {
	dropped := m.cache.DropAll()
	m.metrics.UpdateCacheEntries(0)
	m.metrics.RecordInvalidation(dropped)

	if m.store != nil {
		if err := m.store.DeleteAll(ctx); err != nil {
			m.metrics.RecordStoreError()
			return dropped, err
		}
	}
	return dropped, nil
}

// Hydrate loads unexpired snapshots from the store into the cache, so a
// rebooted daemon serves immediately instead of hammering every upstream.
// It reports how many snapshots were loaded.
func (m *Manager) Hydrate(ctx context.Context) (int, error) {
	if m.store == nil {
		return 0, nil
	}

	stored, err := m.store.List(ctx)
	if err != nil {
		m.metrics.RecordStoreError()
		return 0, err
	}

	now := time.Now()
	loaded := 0
	for _, snap := range stored {
		if snap.Expired(now) {
			continue
		}
		m.cache.Put(snap)
		loaded++
	}
	m.metrics.UpdateCacheEntries(m.cache.Len())
	return loaded, nil
}

// Sources lists the registered datasets in registration order.
func (m *Manager) Sources() []domain.SourceInfo {
	infos := make([]domain.SourceInfo, 0, len(m.order))
	for _, key := range m.order {
		infos = append(infos, m.sources[key].Info())
	}
	return infos
}

// Peek returns the cached snapshot for key, expired or not, without touching
// the store or the upstream.
func (m *Manager) Peek(key domain.Key) (domain.Snapshot, bool) {
	return m.cache.Peek(key)
}

// Stats summarizes the in-memory cache.
func (m *Manager) Stats() CacheStats {
	return m.cache.Stats()
}

// TTL returns how long live and fallback snapshots stay fresh.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// refresh fetches sources with at most maxParallel in flight at once and
// records the results.
func (m *Manager) refresh(ctx context.Context, srcs []domain.Source) []domain.Snapshot {
	sem := make(chan struct{}, m.maxParallel)
	snapshots := make([]domain.Snapshot, len(srcs))

	wg := sync.WaitGroup{}
	for nth := range srcs {
		wg.Add(1)
		go func(nth int, src domain.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			snap := m.fetch(ctx, src)
			m.keep(ctx, snap)
			snapshots[nth] = snap
		}(nth, srcs[nth])
	}
	wg.Wait()

	return snapshots
}

// fetch obtains a fresh snapshot from the source. A failing upstream is
// logged and replaced by the source's fallback payload.
func (m *Manager) fetch(ctx context.Context, src domain.Source) domain.Snapshot {
	key := src.Key()

	fctx := ctx
	if 0 < m.fetchTimeout {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, m.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	payload, err := src.Fetch(fctx)
	elapsed := time.Since(start)

	now := time.Now()
	snap := domain.Snapshot{Key: key, FetchedAt: now}

	switch {
	case err != nil:
		m.logger.Printf("source %s: fetch failed (%s). fall back to the built-in estimate", key, err)
		snap.Payload = src.Fallback()
		snap.Origin = domain.OriginFallback
		snap.Note = err.Error()
		snap.ExpiresAt = now.Add(m.ttl)
	case src.Info().Method == domain.MethodStatic:
		snap.Payload = payload
		snap.Origin = domain.OriginStatic
	default:
		snap.Payload = payload
		snap.Origin = domain.OriginLive
		snap.ExpiresAt = now.Add(m.ttl)
	}

	m.metrics.RecordFetch(key.String(), snap.Origin.String(), elapsed)
	return snap
}

// keep records the snapshot in the cache and, when configured, the store.
// A failing store is logged and does not take dataset reads down.
func (m *Manager) keep(ctx context.Context, snap domain.Snapshot) {
	m.cache.Put(snap)
	m.metrics.UpdateCacheEntries(m.cache.Len())

	if m.store == nil {
		return
	}
	if err := m.store.Put(ctx, snap); err != nil {
		m.logger.Printf("snapshot store: put %s: %s", snap.Key, err)
		m.metrics.RecordStoreError()
	}
}
