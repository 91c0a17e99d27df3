package census

import (
	"time"
)

// CensusConfig is the sealed server/collector configuration.
//
// To get a CensusConfig instance, use `CensusConfigMarshall.TrySeal()` or
// the Load/Unmarshal helpers.
type CensusConfig struct {
	port      string
	database  string
	cache     *CacheConfig
	collector *CollectorConfig
	admin     *AdminConfig
}

// Port the API server listens on.
func (c *CensusConfig) Port() string {
	return c.port
}

// Connection string for the snapshot store. Empty means memory only.
func (c *CensusConfig) Database() string {
	return c.database
}

func (c *CensusConfig) Cache() *CacheConfig {
	return c.cache
}

func (c *CensusConfig) Collector() *CollectorConfig {
	return c.collector
}

func (c *CensusConfig) Admin() *AdminConfig {
	return c.admin
}

// Configuration for the snapshot cache.
type CacheConfig struct {
	ttl time.Duration
}

// How long a live or fallback snapshot stays fresh. default = 720h.
func (c *CacheConfig) TTL() time.Duration {
	return c.ttl
}

// Configuration for the refresh machinery, shared by the server's admin
// refresh and the collector daemon.
type CollectorConfig struct {
	interval      time.Duration
	expiryHorizon time.Duration
	maxParallel   int
	fetchTimeout  time.Duration
}

// How often the collector wakes. default = 6h.
func (c *CollectorConfig) Interval() time.Duration {
	return c.interval
}

// How close to expiry a snapshot must be to get refreshed. default = 24h.
func (c *CollectorConfig) ExpiryHorizon() time.Duration {
	return c.expiryHorizon
}

// How many sources fetch at once. default = 3.
func (c *CollectorConfig) MaxParallel() int {
	return c.maxParallel
}

// Per-source fetch deadline. default = 10s.
func (c *CollectorConfig) FetchTimeout() time.Duration {
	return c.fetchTimeout
}

// Configuration for admin-token signing.
type AdminConfig struct {
	signKey       string
	tokenLifetime time.Duration
}

// HS256 key the admin tokens are signed with.
func (a *AdminConfig) SignKey() string {
	return a.signKey
}

// How long a minted admin token stays valid. default = 1h.
func (a *AdminConfig) TokenLifetime() time.Duration {
	return a.tokenLifetime
}
