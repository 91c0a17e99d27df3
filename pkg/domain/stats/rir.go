package stats

import "github.com/v6census/v6census/pkg/table"

// DelegationCountry aggregates one country's IPv6 delegations within
// a registry.
type DelegationCountry struct {
	// Code is the ISO 3166-1 alpha-2 code as it appears in the
	// delegation file.
	Code string `json:"code"`

	// Equivalents is the allocated space in the registry's unit
	// (/32-equivalents, or /48-equivalents for LACNIC).
	Equivalents float64 `json:"equivalents"`

	// Percentage of the registry total, rounded to 2 decimal places.
	Percentage float64 `json:"percentage"`

	// Entries is the number of delegation records.
	Entries int64 `json:"entries"`
}

// RIRDelegations is the parsed aggregate of one registry's delegation file.
type RIRDelegations struct {
	// Registry as named in the file: ripencc, lacnic, afrinic, arin.
	Registry string `json:"registry"`

	// Unit of Equivalents: "/32" or "/48".
	Unit string `json:"unit"`

	// TopCountries by allocated space, largest first, at most 10.
	TopCountries []DelegationCountry `json:"topCountries"`

	// TotalEquivalents over all countries, not only the top listed.
	TotalEquivalents float64 `json:"totalEquivalents"`

	// TotalEntries is the number of IPv6 delegation records read.
	TotalEntries int64 `json:"totalEntries"`

	// CountryCount is how many distinct countries hold delegations.
	CountryCount int `json:"countryCount"`
}

func (*RIRDelegations) Kind() Kind { return KindRIRDelegations }

func (r *RIRDelegations) Table() *table.Table {
	t := table.New(
		table.StrCol("registry"),
		table.StrCol("code"),
		table.FloatCol("equivalents"),
		table.FloatCol("percentage"),
		table.IntCol("entries"),
	)
	for _, c := range r.TopCountries {
		t.MustAppend(
			table.String(r.Registry),
			table.String(c.Code),
			table.Float(c.Equivalents),
			table.Float(c.Percentage),
			table.Int(c.Entries),
		)
	}
	return t
}

// RegistryShare is one registry's share of all allocated IPv6 space.
type RegistryShare struct {
	Registry string  `json:"registry"`
	Share    float64 `json:"share"`
}

// AllocationTotals is the cumulative allocation view over all registries.
type AllocationTotals struct {
	// TotalSlash48s is the total allocated space in /48-equivalents.
	TotalSlash48s float64 `json:"totalSlash48s"`

	Shares []RegistryShare `json:"shares"`
}

func (*AllocationTotals) Kind() Kind { return KindAllocationTotals }

func (a *AllocationTotals) Table() *table.Table {
	t := table.New(table.StrCol("registry"), table.FloatCol("share"))
	for _, s := range a.Shares {
		t.MustAppend(table.String(s.Registry), table.Float(s.Share))
	}
	return t
}
