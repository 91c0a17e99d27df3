package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/utils/slices"
)

// CensusClient speaks to the HTTP API of censusd.
type CensusClient interface {
	// GetOverview returns the headline figures of the census.
	GetOverview(ctx context.Context) (apicensus.Overview, error)

	// GetAdoption returns the composite adoption view:
	// global percentage, regions and leading countries.
	GetAdoption(ctx context.Context) (apicensus.Adoption, error)

	// GetCountries returns the per-country adoption ranking.
	//
	// limit caps the number of rows. Pass 0 to leave it to the server.
	GetCountries(ctx context.Context, limit int) (apicensus.Countries, error)

	// GetAdoptionHistory returns the monthly adoption series.
	//
	// months caps the window. Pass 0 to leave it to the server.
	GetAdoptionHistory(ctx context.Context, months int) (apicensus.History, error)

	// GetBGP returns the routing table counts.
	GetBGP(ctx context.Context) (apicensus.BGP, error)

	// GetBGPHistory returns the monthly prefix-count series.
	//
	// months caps the window. Pass 0 to leave it to the server.
	GetBGPHistory(ctx context.Context, months int) (apicensus.History, error)

	// GetBGPPrefixes returns the prefix-length distribution and the
	// largest announcing networks.
	GetBGPPrefixes(ctx context.Context) (apicensus.BGPPrefixes, error)

	// GetRIR returns every registry's delegation summary and the
	// cumulative allocation totals.
	GetRIR(ctx context.Context) (apicensus.RIR, error)

	// GetRegistry returns the delegation summary of one registry,
	// like "ripencc" or "arin".
	GetRegistry(ctx context.Context, registry string) (apicensus.Registry, error)

	// GetCloud returns the cloud provider IPv6 support catalog.
	GetCloud(ctx context.Context) (apicensus.Cloud, error)

	// GetWhois looks up an AS number or address prefix, like
	// "AS15169" or "2001:4860::/32".
	GetWhois(ctx context.Context, resource string) (apicensus.Whois, error)

	// GetSources lists the dataset registry with per-source cache state.
	GetSources(ctx context.Context) (apicensus.Sources, error)

	// Refresh forces a refetch of the named sources, or of the whole
	// registry when none are named. It needs an admin token.
	Refresh(ctx context.Context, token string, sources []string) (apicensus.RefreshResult, error)

	// Invalidate drops cached snapshots of the named sources, or the
	// whole cache when none are named. It needs an admin token.
	Invalidate(ctx context.Context, token string, sources []string) (apicensus.InvalidateResult, error)
}

type client struct {
	httpclient *http.Client
	api        string
}

// create new census client for the given API root.
//
// # Args
//
// - server: URL of the census API root, like "http://localhost:8780/api"
//
// # Return
//
// - CensusClient: created client
//
// - error: when server is not a http(s) URL
func NewClient(server string) (CensusClient, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL should be http(s): %s", server)
	}

	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(server, "/"),
	}, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = slices.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}
