package common

import (
	"encoding/json"
	"fmt"
	"io"

	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// DumpJson writes v the way --json output looks.
func DumpJson(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// PrintSeries writes a monthly series as one block per track.
func PrintSeries(w io.Writer, series stats.Series) {
	format := "    %s  %8.2f\n"
	if series.Unit == "prefixes" {
		format = "    %s  %8.0f\n"
	}

	for i, track := range series.Tracks {
		if 0 < i {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s):\n", track.Name, series.Unit)
		for _, p := range track.Points {
			fmt.Fprintf(w, format, p.At.Format("2006-01"), p.Value)
		}
	}
}

// PrintProvenance writes one line per dataset telling where it came from.
func PrintProvenance(w io.Writer, provs ...apicensus.Provenance) {
	for _, p := range provs {
		origin := p.Origin
		if p.Note != "" {
			origin += ": " + p.Note
		}
		line := fmt.Sprintf("source: %s (%s) fetched at %s", p.Key, origin, p.FetchedAt)
		if p.ExpiresAt != nil {
			line += ", expires at " + p.ExpiresAt.String()
		}
		fmt.Fprintln(w, line)
	}
}
