package census

import (
	"github.com/v6census/v6census/pkg/domain"
	manager "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/cmp"
	"github.com/v6census/v6census/pkg/utils/rfctime"
	"github.com/v6census/v6census/pkg/utils/slices"
)

// Provenance tells where a served dataset came from and how fresh it is.
type Provenance struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`

	// Note carries extra context, like the upstream error behind a fallback.
	Note string `json:"note,omitempty"`

	FetchedAt rfctime.RFC3339 `json:"fetchedAt"`

	// ExpiresAt is absent for static snapshots, which never go stale.
	ExpiresAt *rfctime.RFC3339 `json:"expiresAt,omitempty"`
}

func (p *Provenance) Equal(o *Provenance) bool {
	if (p == nil) || (o == nil) {
		return p == nil && o == nil
	}

	pf := p.FetchedAt
	of := o.FetchedAt
	return p.Key == o.Key &&
		p.Origin == o.Origin &&
		p.Note == o.Note &&
		pf.Equal(&of) &&
		p.ExpiresAt.Equal(o.ExpiresAt)
}

func ComposeProvenance(snap domain.Snapshot) Provenance {
	prov := Provenance{
		Key:       snap.Key.String(),
		Origin:    snap.Origin.String(),
		Note:      snap.Note,
		FetchedAt: rfctime.RFC3339(snap.FetchedAt),
	}
	if !snap.ExpiresAt.IsZero() {
		exp := rfctime.RFC3339(snap.ExpiresAt)
		prov.ExpiresAt = &exp
	}
	return prov
}

// Adoption is the composite adoption view: the global figure, the
// per-region view and the leading countries.
type Adoption struct {
	Global     stats.GlobalAdoption   `json:"global"`
	Regional   stats.RegionalAdoption `json:"regional"`
	Countries  stats.CountryAdoption  `json:"countries"`
	Provenance []Provenance           `json:"provenance"`
}

type Countries struct {
	Data       stats.CountryAdoption `json:"data"`
	Provenance Provenance            `json:"provenance"`
}

type History struct {
	Data       stats.Series `json:"data"`
	Provenance Provenance   `json:"provenance"`
}

type BGP struct {
	Data       stats.BGPStats `json:"data"`
	Provenance Provenance     `json:"provenance"`
}

type BGPPrefixes struct {
	Data       stats.PrefixDistribution `json:"data"`
	Provenance Provenance               `json:"provenance"`
}

// RIR is the all-registry view: each registry's delegation summary plus
// the cumulative allocation totals.
type RIR struct {
	Registries []stats.RIRDelegations `json:"registries"`
	Totals     stats.AllocationTotals `json:"totals"`
	Provenance []Provenance           `json:"provenance"`
}

type Registry struct {
	Data       stats.RIRDelegations `json:"data"`
	Provenance Provenance           `json:"provenance"`
}

type Cloud struct {
	Data stats.CloudCatalog `json:"data"`

	// Summaries are the per-provider rollups of Data.
	Summaries []stats.ProviderSummary `json:"summaries"`

	Provenance Provenance `json:"provenance"`
}

type Federal struct {
	Data       stats.FederalDeployment `json:"data"`
	Provenance Provenance              `json:"provenance"`
}

type Whois struct {
	Data       stats.WhoisInfo `json:"data"`
	Provenance Provenance      `json:"provenance"`
}

// Overview carries the headline figures of the whole census.
type Overview struct {
	// GlobalAdoption is the share of users on IPv6, percent.
	GlobalAdoption float64 `json:"globalAdoption"`

	// TrafficShare is the share of HTTP requests over IPv6, percent.
	TrafficShare float64 `json:"trafficShare"`

	// IPv6Prefixes is the global routing table size.
	IPv6Prefixes int64 `json:"ipv6Prefixes"`

	// TableShare is the v6 table size relative to the v4 table, percent.
	TableShare float64 `json:"tableShare"`

	// AllocatedSlash48s is the space all registries delegated, in
	// /48-equivalents.
	AllocatedSlash48s float64 `json:"allocatedSlash48s"`

	// Sources lists the provenance of every dataset the figures above
	// were read from.
	Sources []Provenance `json:"sources"`
}

func (ov *Overview) Equal(o *Overview) bool {
	if (ov == nil) || (o == nil) {
		return ov == nil && o == nil
	}

	return ov.GlobalAdoption == o.GlobalAdoption &&
		ov.TrafficShare == o.TrafficShare &&
		ov.IPv6Prefixes == o.IPv6Prefixes &&
		ov.TableShare == o.TableShare &&
		ov.AllocatedSlash48s == o.AllocatedSlash48s &&
		cmp.SliceEqWith(
			ov.Sources, o.Sources,
			func(a, b Provenance) bool { return a.Equal(&b) },
		)
}

// SourceState is one registry entry together with its cache state.
type SourceState struct {
	Key      string `json:"key"`
	Provider string `json:"provider"`
	URL      string `json:"url,omitempty"`
	Method   string `json:"method"`
	Cadence  string `json:"cadence,omitempty"`

	// Cached tells whether a snapshot of this dataset is held right now.
	Cached bool `json:"cached"`

	Origin    string           `json:"origin,omitempty"`
	FetchedAt *rfctime.RFC3339 `json:"fetchedAt,omitempty"`
	ExpiresAt *rfctime.RFC3339 `json:"expiresAt,omitempty"`
}

func (s *SourceState) Equal(o *SourceState) bool {
	if (s == nil) || (o == nil) {
		return s == nil && o == nil
	}

	return s.Key == o.Key &&
		s.Provider == o.Provider &&
		s.URL == o.URL &&
		s.Method == o.Method &&
		s.Cadence == o.Cadence &&
		s.Cached == o.Cached &&
		s.Origin == o.Origin &&
		s.FetchedAt.Equal(o.FetchedAt) &&
		s.ExpiresAt.Equal(o.ExpiresAt)
}

func ComposeSourceState(info domain.SourceInfo, snap domain.Snapshot, cached bool) SourceState {
	state := SourceState{
		Key:      info.Key.String(),
		Provider: info.Provider,
		URL:      info.URL,
		Method:   info.Method.String(),
		Cadence:  info.Cadence,
		Cached:   cached,
	}
	if cached {
		state.Origin = snap.Origin.String()
		fetched := rfctime.RFC3339(snap.FetchedAt)
		state.FetchedAt = &fetched
		if !snap.ExpiresAt.IsZero() {
			exp := rfctime.RFC3339(snap.ExpiresAt)
			state.ExpiresAt = &exp
		}
	}
	return state
}

// CacheStats summarizes the in-memory cache of the daemon.
type CacheStats struct {
	Entries int              `json:"entries"`
	Keys    []string         `json:"keys"`
	Oldest  *rfctime.RFC3339 `json:"oldest,omitempty"`
	Newest  *rfctime.RFC3339 `json:"newest,omitempty"`
}

func (c *CacheStats) Equal(o *CacheStats) bool {
	if (c == nil) || (o == nil) {
		return c == nil && o == nil
	}

	return c.Entries == o.Entries &&
		cmp.SliceEq(c.Keys, o.Keys) &&
		c.Oldest.Equal(o.Oldest) &&
		c.Newest.Equal(o.Newest)
}

func ComposeCacheStats(stats manager.CacheStats) CacheStats {
	wire := CacheStats{
		Entries: stats.Entries,
		Keys: slices.Map(
			stats.Keys,
			func(k domain.Key) string { return k.String() },
		),
	}
	if !stats.Oldest.IsZero() {
		oldest := rfctime.RFC3339(stats.Oldest)
		wire.Oldest = &oldest
	}
	if !stats.Newest.IsZero() {
		newest := rfctime.RFC3339(stats.Newest)
		wire.Newest = &newest
	}
	return wire
}

// Sources is the registry listing served to operators.
type Sources struct {
	Sources []SourceState `json:"sources"`
	Cache   CacheStats    `json:"cache"`
}

// RefreshResult reports the outcome of a forced refresh.
type RefreshResult struct {
	Refreshed []Provenance `json:"refreshed"`
}

func (r *RefreshResult) Equal(o *RefreshResult) bool {
	if (r == nil) || (o == nil) {
		return r == nil && o == nil
	}

	return cmp.SliceEqWith(
		r.Refreshed, o.Refreshed,
		func(a, b Provenance) bool { return a.Equal(&b) },
	)
}

func ComposeRefreshResult(snaps []domain.Snapshot) RefreshResult {
	return RefreshResult{
		Refreshed: slices.Map(snaps, ComposeProvenance),
	}
}

// InvalidateResult reports how many snapshots an invalidation dropped.
type InvalidateResult struct {
	Dropped int `json:"dropped"`
}

// Health is the liveness report of the daemon.
type Health struct {
	Status string `json:"status"`

	// Store reports the snapshot store ping: "ok", "off" when the daemon
	// runs memory-only, or the ping error.
	Store string `json:"store,omitempty"`
}
