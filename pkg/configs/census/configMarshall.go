package census

import (
	"fmt"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/census.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type CensusConfigMarshall struct {
	Port      string                   `yaml:"port,omitempty"`
	Database  string                   `yaml:"database,omitempty"`
	Cache     *CacheConfigMarshall     `yaml:"cache,omitempty"`
	Collector *CollectorConfigMarshall `yaml:"collector,omitempty"`
	Admin     *AdminConfigMarshall     `yaml:"admin"`
}

var _ Marshalled[*CensusConfig] = &CensusConfigMarshall{}

func (c *CensusConfigMarshall) trySeal(path string) *CensusConfig {
	port := c.Port
	if port == "" {
		port = "8780"
	}
	cache := c.Cache
	if cache == nil {
		cache = &CacheConfigMarshall{}
	}
	collector := c.Collector
	if collector == nil {
		collector = &CollectorConfigMarshall{}
	}
	return &CensusConfig{
		port:      port,
		database:  c.Database,
		cache:     cache.trySeal(path + ".cache"),
		collector: collector.trySeal(path + ".collector"),
		admin:     nonnil(c.Admin, path+".admin").trySeal(path + ".admin"),
	}
}

type CacheConfigMarshall struct {
	TTL string `yaml:"ttl,omitempty"`
}

func (c *CacheConfigMarshall) trySeal(path string) *CacheConfig {
	return &CacheConfig{
		ttl: duration(c.TTL, 720*time.Hour, path+".ttl"),
	}
}

type CollectorConfigMarshall struct {
	Interval      string `yaml:"interval,omitempty"`
	ExpiryHorizon string `yaml:"expiryHorizon,omitempty"`
	MaxParallel   int    `yaml:"maxParallel,omitempty"`
	FetchTimeout  string `yaml:"fetchTimeout,omitempty"`
}

func (c *CollectorConfigMarshall) trySeal(path string) *CollectorConfig {
	maxParallel := c.MaxParallel
	if maxParallel == 0 {
		maxParallel = 3
	}
	if maxParallel < 0 {
		panic(path + ".maxParallel must be positive")
	}
	return &CollectorConfig{
		interval:      duration(c.Interval, 6*time.Hour, path+".interval"),
		expiryHorizon: duration(c.ExpiryHorizon, 24*time.Hour, path+".expiryHorizon"),
		maxParallel:   maxParallel,
		fetchTimeout:  duration(c.FetchTimeout, 10*time.Second, path+".fetchTimeout"),
	}
}

type AdminConfigMarshall struct {
	SignKey       string `yaml:"signKey"`
	TokenLifetime string `yaml:"tokenLifetime,omitempty"`
}

func (a *AdminConfigMarshall) trySeal(path string) *AdminConfig {
	return &AdminConfig{
		signKey:       required(a.SignKey, path+".signKey"),
		tokenLifetime: duration(a.TokenLifetime, 1*time.Hour, path+".tokenLifetime"),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func duration(v string, fallback time.Duration, path string) time.Duration {
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed as duration: %w", path, err))
	}
	if d <= 0 {
		panic(path + " must be positive")
	}
	return d
}
