package domain

import (
	"context"
	"errors"

	"github.com/v6census/v6census/pkg/domain/stats"
)

// Method tells how a source obtains its dataset.
type Method string

var (
	// MethodAPI fetches a structured payload from an HTTP API.
	MethodAPI Method = "api"

	// MethodScrape extracts values out of an HTML page.
	MethodScrape Method = "scrape"

	// MethodDelegation parses a registry delegation file.
	MethodDelegation Method = "delegation-file"

	// MethodStatic serves a curated catalog with no upstream.
	MethodStatic Method = "static"

	// MethodComputed derives the dataset from other census data.
	MethodComputed Method = "computed"
)

func (m Method) String() string {
	return string(m)
}

// SourceInfo describes where a dataset comes from.
type SourceInfo struct {
	Key Key

	// Provider is the organization publishing the upstream data.
	Provider string

	// URL points at the upstream endpoint. Empty for curated datasets.
	URL string

	Method Method

	// Cadence describes how often the upstream itself refreshes,
	// like "daily" or "weekly".
	Cadence string
}

// Source produces one dataset of the census.
//
// Fetch obtains the current upstream value. When it fails, callers fall back
// to Fallback, which must always return a usable payload without touching
// the network.
type Source interface {
	Key() Key
	Info() SourceInfo
	Fetch(ctx context.Context) (stats.Payload, error)
	Fallback() stats.Payload
}

// ErrBadParam marks a family parameter that can never name a dataset,
// like a malformed AS number. It is a caller error, not a fetch failure.
var ErrBadParam = errors.New("bad dataset parameter")

// Family builds Sources for parameterized keys sharing a prefix,
// like "whois/" + resource.
type Family interface {
	// Prefix returns the key prefix of the family, trailing slash included.
	Prefix() string

	// New builds the Source for the given parameter, which is the key with
	// the family prefix removed. Parameters no source can ever serve yield
	// an error wrapping ErrBadParam.
	New(param string) (Source, error)
}
