package stats

import (
	"time"

	"github.com/v6census/v6census/pkg/table"
)

// SeriesPoint is one observation in a time series.
type SeriesPoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Track is one named line of a series, e.g. a region or a country.
type Track struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}

// Series is a set of tracks sharing a unit. The adoption providers publish
// no machine-readable history, so these series are reconstructed from the
// current value and a documented monthly rate.
type Series struct {
	// Unit of the values: "percent" or "prefixes".
	Unit string `json:"unit"`

	Tracks []Track `json:"tracks"`
}

func (*Series) Kind() Kind { return KindSeries }

func (s *Series) Table() *table.Table {
	t := table.New(
		table.StrCol("track"),
		table.TimeCol("at"),
		table.FloatCol("value"),
	)
	for _, track := range s.Tracks {
		for _, p := range track.Points {
			t.MustAppend(
				table.String(track.Name),
				table.Time(p.At),
				table.Float(p.Value),
			)
		}
	}
	return t
}
