package sources

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// The adoption providers publish charts, not history. The series below are
// reconstructed from the current value and a documented monthly trend: the
// point k months back is current*(1 - rate*k), floored.
const (
	globalTrendRate   = 0.03
	regionalTrendRate = 0.025
	countryTrendRate  = 0.05
)

// seriesMonths is the full span a series covers. History views serve
// trailing slices of it, so the sources always compute the maximum.
const seriesMonths = 120

// bgpTableFloor caps how far back the table-size model walks; the v6 table
// was never meaningfully smaller.
const bgpTableFloor = 50000

// decayPoints reconstructs a monthly series ending at (anchor, current),
// oldest point first.
func decayPoints(anchor time.Time, current, rate, floor float64) []stats.SeriesPoint {
	points := make([]stats.SeriesPoint, 0, seriesMonths+1)
	for back := seriesMonths; 0 <= back; back-- {
		value := current * (1 - rate*float64(back))
		if value < floor {
			value = floor
		}
		points = append(points, stats.SeriesPoint{
			At:    anchor.AddDate(0, -back, 0),
			Value: round2(value),
		})
	}
	return points
}

// newGlobalHistory reconstructs worldwide adoption, with the mobile and
// desktop splits the measurement studies report around the headline figure.
func newGlobalHistory(now func() time.Time) domain.Source {
	return computedSource{
		info: domain.SourceInfo{
			Key:      "history/global",
			Provider: "trend model",
			Method:   domain.MethodComputed,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			anchor := now()
			return &stats.Series{
				Unit: "percent",
				Tracks: []stats.Track{
					{Name: "global", Points: decayPoints(anchor, 47.0, globalTrendRate, 5.0)},
					{Name: "mobile", Points: decayPoints(anchor, 47.0*1.2, globalTrendRate, 6.0)},
					{Name: "desktop", Points: decayPoints(anchor, 47.0*0.8, globalTrendRate, 4.0)},
				},
			}
		},
	}
}

// regionTrendAnchors are the current per-region estimates the trend model
// decays from.
var regionTrendAnchors = []stats.RegionRow{
	{Region: "Europe", Percentage: 65.0},
	{Region: "North America", Percentage: 50.0},
	{Region: "Asia-Pacific", Percentage: 45.0},
	{Region: "Latin America", Percentage: 35.0},
	{Region: "Africa", Percentage: 25.0},
}

func newRegionalHistory(now func() time.Time) domain.Source {
	return computedSource{
		info: domain.SourceInfo{
			Key:      "history/regional",
			Provider: "trend model",
			Method:   domain.MethodComputed,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			anchor := now()
			tracks := make([]stats.Track, 0, len(regionTrendAnchors))
			for _, region := range regionTrendAnchors {
				tracks = append(tracks, stats.Track{
					Name:   region.Region,
					Points: decayPoints(anchor, region.Percentage, regionalTrendRate, 3.0),
				})
			}
			return &stats.Series{Unit: "percent", Tracks: tracks}
		},
	}
}

// bgpHistory walks the v6 table size back from the current count at the
// studied linear growth. The anchor is the live count when an upstream
// answers, the static estimate otherwise.
type bgpHistory struct {
	bgp *bgpSource
	now func() time.Time
}

func newBGPHistory(bgp *bgpSource, now func() time.Time) *bgpHistory {
	return &bgpHistory{bgp: bgp, now: now}
}

func (b *bgpHistory) Key() domain.Key { return "history/bgp" }

func (b *bgpHistory) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Key:      b.Key(),
		Provider: "trend model",
		Method:   domain.MethodComputed,
		Cadence:  "monthly",
	}
}

func (b *bgpHistory) Fetch(ctx context.Context) (stats.Payload, error) {
	return b.series(b.bgp.currentCount(ctx)), nil
}

func (b *bgpHistory) Fallback() stats.Payload {
	return b.series(b.bgp.Fallback().(*stats.BGPStats).IPv6Prefixes)
}

func (b *bgpHistory) series(current int64) *stats.Series {
	anchor := b.now()
	points := make([]stats.SeriesPoint, 0, seriesMonths+1)
	for back := seriesMonths; 0 <= back; back-- {
		prefixes := float64(current) - float64(back)/12*bgpGrowthPerYear
		if prefixes < bgpTableFloor {
			prefixes = bgpTableFloor
		}
		points = append(points, stats.SeriesPoint{
			At:    anchor.AddDate(0, -back, 0),
			Value: math.Trunc(prefixes),
		})
	}
	return &stats.Series{
		Unit:   "prefixes",
		Tracks: []stats.Track{{Name: "prefixes", Points: points}},
	}
}

var isoAlpha2 = regexp.MustCompile(`^[A-Za-z]{2}$`)

// countryHistoryFamily reconstructs per-country adoption for keys like
// "history/country/de", decaying from the country catalog's current rate.
type countryHistoryFamily struct {
	now func() time.Time
}

func newCountryHistoryFamily(now func() time.Time) countryHistoryFamily {
	return countryHistoryFamily{now: now}
}

func (f countryHistoryFamily) Prefix() string { return "history/country/" }

func (f countryHistoryFamily) New(param string) (domain.Source, error) {
	if !isoAlpha2.MatchString(param) {
		return nil, fmt.Errorf(
			"%w: %q is not an ISO 3166 alpha-2 country code", domain.ErrBadParam, param,
		)
	}
	name, rate := countryRate(strings.ToUpper(param))

	return computedSource{
		info: domain.SourceInfo{
			Key:      domain.Key(f.Prefix() + param),
			Provider: "trend model",
			Method:   domain.MethodComputed,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			return &stats.Series{
				Unit: "percent",
				Tracks: []stats.Track{
					{Name: name, Points: decayPoints(f.now(), rate, countryTrendRate, 5.0)},
				},
			}
		},
	}, nil
}
