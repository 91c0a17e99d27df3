package stats

import "github.com/v6census/v6census/pkg/table"

// BGPStats holds global routing table counts.
type BGPStats struct {
	// IPv6Prefixes is the number of IPv6 prefixes in the global table.
	IPv6Prefixes int64 `json:"ipv6Prefixes"`

	// IPv4Prefixes is the IPv4 count, kept for the share calculation.
	IPv4Prefixes int64 `json:"ipv4Prefixes"`

	// IPv6Share is the size of the v6 table relative to the v4 table,
	// as a percentage. Zero when the v4 count is unknown.
	IPv6Share float64 `json:"ipv6Share"`

	// GrowthPerYear is the estimated yearly growth of the IPv6 count.
	GrowthPerYear int64 `json:"growthPerYear"`

	Provider string `json:"provider"`
}

func (*BGPStats) Kind() Kind { return KindBGP }

func (b *BGPStats) Table() *table.Table {
	t := table.New(
		table.StrCol("provider"),
		table.IntCol("ipv6_prefixes"),
		table.IntCol("ipv4_prefixes"),
		table.FloatCol("ipv6_share"),
		table.IntCol("growth_per_year"),
	)
	t.MustAppend(
		table.String(b.Provider),
		table.Int(b.IPv6Prefixes),
		table.Int(b.IPv4Prefixes),
		table.Float(b.IPv6Share),
		table.Int(b.GrowthPerYear),
	)
	return t
}

// PrefixBucket is one slice of the announced-prefix size histogram.
type PrefixBucket struct {
	// Prefix is the length bucket, e.g. "/48".
	Prefix string `json:"prefix"`

	// Share of announcements in this bucket, 0..100.
	Share float64 `json:"share"`
}

// ASNRow is one origin AS by announced IPv6 prefix count.
type ASNRow struct {
	ASN      string `json:"asn"`
	Name     string `json:"name"`
	Prefixes int64  `json:"prefixes"`
}

// PrefixDistribution describes how announced IPv6 space is sliced and
// which origin ASes announce the most of it.
type PrefixDistribution struct {
	Buckets []PrefixBucket `json:"buckets"`
	TopASNs []ASNRow       `json:"topAsns"`
}

func (*PrefixDistribution) Kind() Kind { return KindPrefixDistribution }

func (p *PrefixDistribution) Table() *table.Table {
	t := table.New(table.StrCol("prefix"), table.FloatCol("share"))
	for _, b := range p.Buckets {
		t.MustAppend(table.String(b.Prefix), table.Float(b.Share))
	}
	return t
}
