package domain

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/v6census/v6census/pkg/domain/stats"
)

// Key identifies a dataset in the census registry, like "bgp" or "rir/ripencc".
//
// Parameterized datasets put their parameter after the family prefix,
// like "whois/AS15169" or "history/country/de".
type Key string

func (k Key) String() string {
	return string(k)
}

var ErrUnknownKey = errors.New("unknown dataset key")

var ErrUnknownOrigin = errors.New("unknown snapshot origin")

// Origin tells how a snapshot was obtained.
type Origin string

var (
	// OriginLive marks a snapshot fetched from its upstream source.
	OriginLive Origin = "live"

	// OriginFallback marks a snapshot built from the source's fallback value
	// after the upstream fetch failed.
	OriginFallback Origin = "fallback"

	// OriginStatic marks a snapshot of a curated catalog that has no upstream.
	OriginStatic Origin = "static"
)

func (o Origin) String() string {
	return string(o)
}

func AsOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case OriginLive:
		return OriginLive, nil
	case OriginFallback:
		return OriginFallback, nil
	case OriginStatic:
		return OriginStatic, nil
	default:
		return Origin(s), fmt.Errorf("%w: %s", ErrUnknownOrigin, s)
	}
}

// Snapshot is a dataset value at a point in time, together with its provenance.
type Snapshot struct {
	Key     Key
	Payload stats.Payload
	Origin  Origin

	// Note carries extra provenance, like the error that forced a fallback.
	Note string

	FetchedAt time.Time

	// ExpiresAt is zero for static snapshots, which never go stale.
	ExpiresAt time.Time
}

// Expired reports whether the snapshot is stale at the given time.
func (s Snapshot) Expired(at time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !at.Before(s.ExpiresAt)
}

// ExpiresWithin reports whether the snapshot is stale now or goes stale
// before now+horizon. Static snapshots never do.
func (s Snapshot) ExpiresWithin(now time.Time, horizon time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return s.ExpiresAt.Before(now.Add(horizon))
}

func (s Snapshot) Equal(o Snapshot) bool {
	if s.Key != o.Key || s.Origin != o.Origin || s.Note != o.Note ||
		!s.FetchedAt.Equal(o.FetchedAt) || !s.ExpiresAt.Equal(o.ExpiresAt) {
		return false
	}
	if (s.Payload == nil) || (o.Payload == nil) {
		return (s.Payload == nil) && (o.Payload == nil)
	}
	_, a, aerr := stats.Marshal(s.Payload)
	_, b, berr := stats.Marshal(o.Payload)
	return aerr == nil && berr == nil &&
		s.Payload.Kind() == o.Payload.Kind() && bytes.Equal(a, b)
}
