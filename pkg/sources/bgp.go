package sources

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/fetch"
)

// bgpGrowthPerYear is the studied growth of the global v6 table.
const bgpGrowthPerYear = 26000

var (
	bgpstuffV6 = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*IPv6\s*prefixes`)
	bgpstuffV4 = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*IPv4\s*prefixes`)

	// potaroo publishes the v6 table size alone.
	potarooCount = regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*(?:prefixes|routes)`)
)

// bgpSource reads the global routing table size, preferring bgpstuff.net
// and degrading to potaroo's v6 analysis.
type bgpSource struct {
	client   *fetch.Client
	bgpstuff string
	potaroo  string
}

func newBGPSource(client *fetch.Client) *bgpSource {
	return &bgpSource{
		client:   client,
		bgpstuff: "https://bgpstuff.net/totals",
		potaroo:  "https://bgp.potaroo.net/v6/as2.0/index.html",
	}
}

func (b *bgpSource) Key() domain.Key { return "bgp" }

func (b *bgpSource) Info() domain.SourceInfo {
	return domain.SourceInfo{
		Key:      b.Key(),
		Provider: "BGPStuff.net",
		URL:      b.bgpstuff,
		Method:   domain.MethodScrape,
		Cadence:  "realtime",
	}
}

// grouped parses a comma-grouped decimal like "228,748".
func grouped(digits string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(digits, ",", ""), 10, 64)
}

// share relates the v6 table to the v4 table as a percentage.
// Unknown v4 counts yield zero rather than a nonsense ratio.
func share(v6, v4 int64) float64 {
	if v4 <= 0 {
		return 0
	}
	return round2(float64(v6) / float64(v4) * 100)
}

func (b *bgpSource) Fetch(ctx context.Context) (stats.Payload, error) {
	if p, err := b.fromBGPStuff(ctx); err == nil {
		return p, nil
	}
	return b.fromPotaroo(ctx)
}

func (b *bgpSource) fromBGPStuff(ctx context.Context) (stats.Payload, error) {
	body, err := b.client.Get(ctx, b.bgpstuff)
	if err != nil {
		return nil, err
	}
	m6 := bgpstuffV6.FindSubmatch(body)
	if m6 == nil {
		return nil, fmt.Errorf("no IPv6 prefix count found at %s", b.bgpstuff)
	}
	v6, err := grouped(string(m6[1]))
	if err != nil {
		return nil, err
	}
	var v4 int64
	if m4 := bgpstuffV4.FindSubmatch(body); m4 != nil {
		if v4, err = grouped(string(m4[1])); err != nil {
			return nil, err
		}
	}
	return &stats.BGPStats{
		IPv6Prefixes:  v6,
		IPv4Prefixes:  v4,
		IPv6Share:     share(v6, v4),
		GrowthPerYear: bgpGrowthPerYear,
		Provider:      "BGPStuff.net",
	}, nil
}

func (b *bgpSource) fromPotaroo(ctx context.Context) (stats.Payload, error) {
	body, err := b.client.Get(ctx, b.potaroo)
	if err != nil {
		return nil, err
	}
	m := potarooCount.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("no prefix count found at %s", b.potaroo)
	}
	v6, err := grouped(string(m[1]))
	if err != nil {
		return nil, err
	}
	return &stats.BGPStats{
		IPv6Prefixes:  v6,
		GrowthPerYear: bgpGrowthPerYear,
		Provider:      "Potaroo",
	}, nil
}

func (b *bgpSource) Fallback() stats.Payload {
	return &stats.BGPStats{
		IPv6Prefixes:  228748,
		IPv4Prefixes:  1014404,
		IPv6Share:     share(228748, 1014404),
		GrowthPerYear: bgpGrowthPerYear,
		Provider:      "BGPStuff.net",
	}
}

// currentCount is the anchor for the v6 table growth series: the live
// count when an upstream answers, the static estimate otherwise.
func (b *bgpSource) currentCount(ctx context.Context) int64 {
	if p, err := b.Fetch(ctx); err == nil {
		return p.(*stats.BGPStats).IPv6Prefixes
	}
	return b.Fallback().(*stats.BGPStats).IPv6Prefixes
}

func newPrefixDistribution() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "bgp/prefixes",
			Provider: "routing table studies",
			Method:   domain.MethodStatic,
			Cadence:  "monthly",
		},
		build: func() stats.Payload {
			return &stats.PrefixDistribution{
				Buckets: []stats.PrefixBucket{
					{Prefix: "/48", Share: 46.0},
					{Prefix: "/32", Share: 15.0},
					{Prefix: "/44", Share: 8.0},
					{Prefix: "/40", Share: 6.0},
					{Prefix: "/56", Share: 5.0},
					{Prefix: "/64", Share: 4.0},
					{Prefix: "other", Share: 16.0},
				},
				TopASNs: []stats.ASNRow{
					{ASN: "AS6939", Name: "Hurricane Electric", Prefixes: 2500},
					{ASN: "AS15169", Name: "Google", Prefixes: 2200},
					{ASN: "AS32934", Name: "Facebook", Prefixes: 1800},
					{ASN: "AS20940", Name: "Akamai", Prefixes: 1500},
					{ASN: "AS13335", Name: "Cloudflare", Prefixes: 1200},
					{ASN: "AS8075", Name: "Microsoft", Prefixes: 1100},
					{ASN: "AS16509", Name: "Amazon", Prefixes: 1000},
					{ASN: "AS2906", Name: "Netflix", Prefixes: 800},
					{ASN: "AS36040", Name: "YouTube", Prefixes: 700},
					{ASN: "AS714", Name: "Apple", Prefixes: 650},
				},
			}
		},
	}
}
