package stats

import "github.com/v6census/v6census/pkg/table"

// TrafficShare is the share of HTTP traffic a CDN observes over IPv6.
type TrafficShare struct {
	Provider string `json:"provider"`

	// Percentage of requests over IPv6, 0..100.
	Percentage float64 `json:"percentage"`

	// Weekly holds the trailing year as weekly points when the
	// provider's API was available; empty otherwise.
	Weekly []SeriesPoint `json:"weekly,omitempty"`
}

func (*TrafficShare) Kind() Kind { return KindTrafficShare }

func (ts *TrafficShare) Table() *table.Table {
	t := table.New(table.StrCol("provider"), table.FloatCol("percentage"))
	t.MustAppend(table.String(ts.Provider), table.Float(ts.Percentage))
	return t
}

// DNSInsights carries resolver-side IPv6 figures published by Cloudflare.
//
// Client is the share of clients asking over IPv6, Server the share of
// queried domains with AAAA records, EndToEnd the share of lookups where
// both ends speak IPv6, Top100 the AAAA coverage of the busiest domains.
type DNSInsights struct {
	Client   float64 `json:"client"`
	Server   float64 `json:"server"`
	EndToEnd float64 `json:"endToEnd"`
	Top100   float64 `json:"top100"`
}

func (*DNSInsights) Kind() Kind { return KindDNSInsights }

func (d *DNSInsights) Table() *table.Table {
	t := table.New(table.StrCol("metric"), table.FloatCol("percentage"))
	t.MustAppend(table.String("client"), table.Float(d.Client))
	t.MustAppend(table.String("server"), table.Float(d.Server))
	t.MustAppend(table.String("end_to_end"), table.Float(d.EndToEnd))
	t.MustAppend(table.String("top100"), table.Float(d.Top100))
	return t
}

// PulseStats is Internet Society Pulse's readiness view of the top-1000
// websites.
type PulseStats struct {
	SitesIPv6  float64 `json:"sitesIpv6"`
	SitesHTTPS float64 `json:"sitesHttps"`
	SitesTLS13 float64 `json:"sitesTls13"`

	Regions []RegionRow `json:"regions"`
}

func (*PulseStats) Kind() Kind { return KindPulse }

func (p *PulseStats) Table() *table.Table {
	t := table.New(table.StrCol("region"), table.FloatCol("percentage"))
	for _, r := range p.Regions {
		t.MustAppend(table.String(r.Region), table.Float(r.Percentage))
	}
	return t
}

// NetworkRow is one access network's adoption figure.
type NetworkRow struct {
	Network    string  `json:"network"`
	Country    string  `json:"country"`
	Percentage float64 `json:"percentage"`
}

// AkamaiStats carries Akamai's per-country and per-network highlights.
type AkamaiStats struct {
	Countries []CountryRow `json:"countries"`
	Networks  []NetworkRow `json:"networks"`
}

func (*AkamaiStats) Kind() Kind { return KindAkamai }

func (a *AkamaiStats) Table() *table.Table {
	t := table.New(
		table.StrCol("network"),
		table.StrCol("country"),
		table.FloatCol("percentage"),
	)
	for _, n := range a.Networks {
		t.MustAppend(
			table.String(n.Network),
			table.String(n.Country),
			table.Float(n.Percentage),
		)
	}
	return t
}

// MetricRow is one named percentage with a remark.
type MetricRow struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Note       string  `json:"note,omitempty"`
}

// MatrixStats carries reachability checks from the IPv6 test matrices.
type MatrixStats struct {
	Metrics []MetricRow `json:"metrics"`
}

func (*MatrixStats) Kind() Kind { return KindMatrix }

func (m *MatrixStats) Table() *table.Table {
	t := table.New(table.StrCol("metric"), table.FloatCol("percentage"))
	for _, row := range m.Metrics {
		t.MustAppend(table.String(row.Name), table.Float(row.Percentage))
	}
	return t
}

// RegionComparisonRow aligns one region's adoption, allocation and growth.
type RegionComparisonRow struct {
	Region          string  `json:"region"`
	Adoption        float64 `json:"adoption"`
	AllocationShare float64 `json:"allocationShare"`
	YearlyGrowth    float64 `json:"yearlyGrowth"`
}

// RegionalComparison is the cross-region rollup.
type RegionalComparison struct {
	Rows []RegionComparisonRow `json:"rows"`
}

func (*RegionalComparison) Kind() Kind { return KindRegionalComparison }

func (r *RegionalComparison) Table() *table.Table {
	t := table.New(
		table.StrCol("region"),
		table.FloatCol("adoption"),
		table.FloatCol("allocation_share"),
		table.FloatCol("yearly_growth"),
	)
	for _, row := range r.Rows {
		t.MustAppend(
			table.String(row.Region),
			table.Float(row.Adoption),
			table.Float(row.AllocationShare),
			table.Float(row.YearlyGrowth),
		)
	}
	return t
}
