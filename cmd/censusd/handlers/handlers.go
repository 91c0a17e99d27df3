package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/v6census/v6census/pkg/api/types/errors"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/slices"
)

// Keys of the datasets the composite endpoints read.
// They mirror the registry built by pkg/sources.
const (
	keyGlobalAdoption  = domain.Key("adoption/global")
	keyCountries       = domain.Key("adoption/countries")
	keyRegions         = domain.Key("adoption/regions")
	keyBGP             = domain.Key("bgp")
	keyBGPPrefixes     = domain.Key("bgp/prefixes")
	keyAllocationTotal = domain.Key("rir/totals")
	keyRadar           = domain.Key("cloudflare/radar")
	keyNIST            = domain.Key("nist")
	keyCloud           = domain.Key("cloud")
	keyGlobalHistory   = domain.Key("history/global")
	keyBGPHistory      = domain.Key("history/bgp")
)

// registries are served under rir/, in the order /api/rir reports them.
var registries = []string{"ripencc", "lacnic", "afrinic", "arin"}

const (
	defaultHistoryMonths = 24

	// maxHistoryMonths is how far back the computed series reach.
	maxHistoryMonths = 120
)

var errBadQuery = errors.New("bad query value")

// datasetError maps dataset resolution failures onto the error envelope.
//
// The manager only fails a read for keys it cannot resolve, so everything
// else is unexpected.
func datasetError(srv kcd.Service, err error) *echo.HTTPError {
	if errors.Is(err, domain.ErrUnknownKey) {
		keys := slices.Map(
			srv.Sources(),
			func(info domain.SourceInfo) string { return info.Key.String() },
		)
		return apierr.NotFound(
			apierr.WithAdvice("known datasets: "+strings.Join(keys, ", ")),
			apierr.WithError(err),
		)
	}
	if errors.Is(err, domain.ErrBadParam) {
		return apierr.BadRequest(err.Error(), err)
	}
	return apierr.InternalServerError(err)
}

// payloadOf asserts the payload type a fixed-key dataset is known to hold.
func payloadOf[P stats.Payload](snap domain.Snapshot) (P, *echo.HTTPError) {
	p, ok := snap.Payload.(P)
	if !ok {
		return p, apierr.InternalServerError(fmt.Errorf(
			"dataset %s holds unexpected payload type %T", snap.Key, snap.Payload,
		))
	}
	return p, nil
}

// queryMonths reads ?months=, 1..120, default 24.
func queryMonths(c echo.Context) (int, error) {
	raw := c.QueryParam("months")
	if raw == "" {
		return defaultHistoryMonths, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf(`%w: months "%s" is not an integer`, errBadQuery, raw)
	}
	if months < 1 || maxHistoryMonths < months {
		return 0, fmt.Errorf("%w: months should be 1..%d", errBadQuery, maxHistoryMonths)
	}
	return months, nil
}

// queryLimit reads ?limit=, a positive row cap. 0 means no cap.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf(`%w: limit "%s" is not an integer`, errBadQuery, raw)
	}
	if limit < 1 {
		return 0, fmt.Errorf("%w: limit should be positive", errBadQuery)
	}
	return limit, nil
}

// trailingSeries narrows each track of s to its trailing months, current
// point included. The cached payload stays untouched.
func trailingSeries(s *stats.Series, months int) stats.Series {
	out := *s
	out.Tracks = make([]stats.Track, len(s.Tracks))
	for nth, track := range s.Tracks {
		if keep := months + 1; keep < len(track.Points) {
			track.Points = track.Points[len(track.Points)-keep:]
		}
		out.Tracks[nth] = track
	}
	return out
}
