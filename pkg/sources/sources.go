// Package sources holds the adapters around the public IPv6 statistics
// providers: scraped pages, HTTP APIs, registry delegation files, curated
// catalogs and computed series.
//
// Each adapter implements domain.Source. Live fetches go through pkg/fetch;
// every adapter also carries the static estimate its provider is known for,
// so a broken upstream degrades to the estimate instead of an empty dataset.
package sources

import (
	"context"
	"math"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/fetch"
)

// Config carries the shared dependencies of the adapters.
type Config struct {
	// Client used for all live fetches. nil means a default client.
	Client *fetch.Client

	// CloudflareAPIKey unlocks the Radar API. Empty is fine: the Radar
	// source then reports its static insight as a fallback.
	CloudflareAPIKey string

	// Now is the clock of the computed series. nil means time.Now.
	Now func() time.Time
}

func (c Config) normalize() Config {
	if c.Client == nil {
		c.Client = fetch.New()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Registry builds all fixed-key sources, in serving order.
func Registry(cfg Config) []domain.Source {
	cfg = cfg.normalize()

	bgp := newBGPSource(cfg.Client)

	return []domain.Source{
		newGoogleSource(cfg.Client),
		newCountryCatalog(),
		newRegionsSource(cfg.Client),
		bgp,
		newPrefixDistribution(),
		newDelegationSource(cfg.Client, "ripencc", "https://ftp.ripe.net/pub/stats/ripencc/delegated-ripencc-latest"),
		newDelegationSource(cfg.Client, "lacnic", "https://ftp.lacnic.net/pub/stats/lacnic/delegated-lacnic-latest"),
		newDelegationSource(cfg.Client, "afrinic", "https://ftp.afrinic.net/pub/stats/afrinic/delegated-afrinic-latest"),
		newDelegationSource(cfg.Client, "arin", "https://ftp.arin.net/pub/stats/arin/delegated-arin-extended-latest"),
		newAllocationTotals(),
		newRadarSource(cfg.Client, cfg.CloudflareAPIKey),
		newDNSInsights(),
		newPulseCatalog(),
		newAkamaiCatalog(),
		newNISTSource(cfg.Client),
		newMatrixCatalog(),
		newCloudSource(),
		newGlobalHistory(cfg.Now),
		newRegionalHistory(cfg.Now),
		newBGPHistory(bgp, cfg.Now),
		newRegionalComparison(),
	}
}

// Families builds the parameterized-key families.
func Families(cfg Config) []domain.Family {
	cfg = cfg.normalize()

	return []domain.Family{
		newWhoisFamily(cfg.Client),
		newCountryHistoryFamily(cfg.Now),
	}
}

// staticSource serves a curated catalog. Fetch never fails and build runs
// per call, so callers can hold and mutate their payload freely.
type staticSource struct {
	info  domain.SourceInfo
	build func() stats.Payload
}

func (s staticSource) Key() domain.Key         { return s.info.Key }
func (s staticSource) Info() domain.SourceInfo { return s.info }

func (s staticSource) Fetch(_ context.Context) (stats.Payload, error) {
	return s.build(), nil
}

func (s staticSource) Fallback() stats.Payload { return s.build() }

// computedSource derives its payload on demand. Like staticSource its
// Fetch never fails, but the result depends on the clock, so snapshots of
// it expire and get recomputed like live data.
type computedSource struct {
	info  domain.SourceInfo
	build func() stats.Payload
}

func (s computedSource) Key() domain.Key         { return s.info.Key }
func (s computedSource) Info() domain.SourceInfo { return s.info }

func (s computedSource) Fetch(_ context.Context) (stats.Payload, error) {
	return s.build(), nil
}

func (s computedSource) Fallback() stats.Payload { return s.build() }

// round2 rounds to 2 decimal places, the precision the registry
// percentage views use.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
