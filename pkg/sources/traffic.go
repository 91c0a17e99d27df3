package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/fetch"
)

// radarSource reads the share of IPv6 traffic Cloudflare observes, through
// the Radar API. The report page itself blocks scrapers, and the API wants
// a token; without one the source degrades to the published insight.
type radarSource struct {
	client *fetch.Client
	apiKey string
	base   string
}

func newRadarSource(client *fetch.Client, apiKey string) *radarSource {
	return &radarSource{
		client: client,
		apiKey: apiKey,
		base:   "https://api.cloudflare.com/client/v4",
	}
}

func (r *radarSource) Key() domain.Key { return "cloudflare/radar" }

func (r *radarSource) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Key:      r.Key(),
		Provider: "Cloudflare Radar",
		URL:      "https://radar.cloudflare.com/reports/ipv6",
		Method:   domain.MethodAPI,
		Cadence:  "daily",
	}
}

type radarSummary struct {
	Success bool `json:"success"`
	Result  struct {
		Summary struct {
			IPv6 string `json:"ipv6"`
		} `json:"summary_0"`
	} `json:"result"`
}

type radarTimeseries struct {
	Success bool `json:"success"`
	Result  struct {
		Main struct {
			Timestamps []time.Time `json:"timestamps"`
			IPv6       []string    `json:"ipv6"`
		} `json:"main"`
	} `json:"result"`
}

func (r *radarSource) Fetch(ctx context.Context) (stats.Payload, error) {
	if r.apiKey == "" {
		return nil, errors.New("CLOUDFLARE_API_KEY is not set. the Radar API wants a token")
	}

	summary, err := fetch.JSON[radarSummary](
		ctx, r.client, r.base+"/radar/http/summary/ip_version",
		fetch.WithBearer(r.apiKey),
	)
	if err != nil {
		return nil, err
	}
	if !summary.Success {
		return nil, errors.New("radar summary: success = false")
	}
	percent, err := strconv.ParseFloat(summary.Result.Summary.IPv6, 64)
	if err != nil {
		return nil, fmt.Errorf("radar summary: %w", err)
	}

	payload := &stats.TrafficShare{Provider: "Cloudflare Radar", Percentage: percent}

	// Losing the weekly series does not fail the fetch; the headline
	// percentage alone is a usable payload.
	series, err := fetch.JSON[radarTimeseries](
		ctx, r.client,
		r.base+"/radar/http/timeseries_groups/ip_version?name=main&dateRange=52w",
		fetch.WithBearer(r.apiKey),
	)
	if err == nil && series.Success {
		main := series.Result.Main
		for nth, at := range main.Timestamps {
			if len(main.IPv6) <= nth {
				break
			}
			value, err := strconv.ParseFloat(main.IPv6[nth], 64)
			if err != nil {
				continue
			}
			payload.Weekly = append(payload.Weekly, stats.SeriesPoint{At: at, Value: value})
		}
	}

	return payload, nil
}

func (r *radarSource) Fallback() stats.Payload {
	return &stats.TrafficShare{Provider: "Cloudflare Radar", Percentage: 36.0}
}

// newDNSInsights carries the resolver-side figures Cloudflare published in
// its DNS-eye-view writeup. The post is prose, so the figures live here.
func newDNSInsights() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "cloudflare/dns",
			Provider: "Cloudflare",
			URL:      "https://blog.cloudflare.com/ipv6-from-dns-pov/",
			Method:   domain.MethodStatic,
			Cadence:  "yearly",
		},
		build: func() stats.Payload {
			return &stats.DNSInsights{
				Client:   30.5,
				Server:   43.3,
				EndToEnd: 13.2,
				Top100:   60.8,
			}
		},
	}
}

// newPulseCatalog carries Internet Society Pulse's readiness view of the
// top-1000 websites. The live page is JS-rendered, so no scrape.
func newPulseCatalog() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "pulse",
			Provider: "Internet Society Pulse",
			URL:      "https://pulse.internetsociety.org/technologies",
			Method:   domain.MethodStatic,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			return &stats.PulseStats{
				SitesIPv6:  49.0,
				SitesHTTPS: 95.0,
				SitesTLS13: 86.0,
				Regions: []stats.RegionRow{
					{Region: "Americas", Percentage: 44.0},
					{Region: "Asia", Percentage: 39.0},
					{Region: "Europe", Percentage: 32.0},
					{Region: "Oceania", Percentage: 30.0},
					{Region: "Africa", Percentage: 6.0},
				},
			}
		},
	}
}

// newAkamaiCatalog carries the per-country and per-network highlights from
// Akamai's IPv6 statistics pages, which publish them as rendered charts.
func newAkamaiCatalog() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "akamai",
			Provider: "Akamai",
			URL:      "https://www.akamai.com/ipv6/",
			Method:   domain.MethodStatic,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			return &stats.AkamaiStats{
				Countries: []stats.CountryRow{
					{Country: "India", Code: "IN", Percentage: 61.9},
					{Country: "United States", Code: "US", Percentage: 55.0},
					{Country: "Germany", Code: "DE", Percentage: 45.0},
					{Country: "France", Code: "FR", Percentage: 40.0},
					{Country: "United Kingdom", Code: "GB", Percentage: 35.0},
				},
				Networks: []stats.NetworkRow{
					{Network: "T-Mobile USA", Country: "US", Percentage: 87.2},
					{Network: "Reliance Jio", Country: "IN", Percentage: 85.3},
					{Network: "Bharti Airtel", Country: "IN", Percentage: 76.1},
					{Network: "Verizon Business", Country: "US", Percentage: 74.9},
					{Network: "AT&T Communications", Country: "US", Percentage: 69.7},
					{Network: "Deutsche Telekom", Country: "DE", Percentage: 67.4},
					{Network: "Comcast Cable", Country: "US", Percentage: 67.3},
					{Network: "BT Openworld", Country: "GB", Percentage: 65.0},
				},
			}
		},
	}
}

// newMatrixCatalog carries the reachability figures of the connectivity
// test matrices, with the sampling caveats attached per metric.
func newMatrixCatalog() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "matrix",
			Provider: "IPv6 Matrix / ipv6-test.com",
			URL:      "https://ipv6matrix.com/",
			Method:   domain.MethodStatic,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			return &stats.MatrixStats{
				Metrics: []stats.MetricRow{
					{
						Name:       "IPv6-enabled hosts",
						Percentage: 100.0,
						Note:       "ipv6matrix.com connectivity probes, tracked since October 2010",
					},
					{
						Name:       "Visitors with working IPv6",
						Percentage: 58.0,
						Note:       "ipv6-test.com connection tests; self-selected sample",
					},
					{
						Name:       "Dual-stack visitors defaulting to IPv6",
						Percentage: 97.0,
						Note:       "ipv6-test.com monthly default-protocol statistics",
					},
				},
			}
		},
	}
}
