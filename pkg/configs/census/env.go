package census

import (
	"github.com/caarlos0/env/v11"
)

// Env is the process environment the census binaries read. Everything here
// is optional; the YAML config is the authoritative source and the
// environment only unlocks or overrides.
type Env struct {
	// CloudflareAPIKey unlocks the authenticated Radar API. Without it the
	// Radar source degrades to its static insight.
	CloudflareAPIKey string `env:"CLOUDFLARE_API_KEY"`

	// Database overrides the config's snapshot store URI.
	Database string `env:"CENSUS_DB"`

	// LogLevel for the echo logger. debug|info|warn|error|off
	LogLevel string `env:"CENSUS_LOGLEVEL" envDefault:"info"`
}

func ParseEnv() (Env, error) {
	e := Env{}
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
