package stats

import "github.com/v6census/v6census/pkg/table"

// GlobalAdoption is the worldwide share of users reaching a provider
// over IPv6.
type GlobalAdoption struct {
	// Percentage of users, 0..100.
	Percentage float64 `json:"percentage"`

	// Provider which measured it, e.g. "Google".
	Provider string `json:"provider"`
}

func (*GlobalAdoption) Kind() Kind { return KindGlobalAdoption }

func (g *GlobalAdoption) Table() *table.Table {
	t := table.New(table.StrCol("provider"), table.FloatCol("percentage"))
	t.MustAppend(table.String(g.Provider), table.Float(g.Percentage))
	return t
}

// CountryRow is one country's adoption figure.
type CountryRow struct {
	Country string `json:"country"`

	// Code is the ISO 3166-1 alpha-2 code.
	Code string `json:"code"`

	Percentage float64 `json:"percentage"`
}

// CountryAdoption lists per-country adoption, highest first.
type CountryAdoption struct {
	Provider  string       `json:"provider"`
	Countries []CountryRow `json:"countries"`
}

func (*CountryAdoption) Kind() Kind { return KindCountryAdoption }

func (c *CountryAdoption) Table() *table.Table {
	t := table.New(
		table.StrCol("country"),
		table.StrCol("code"),
		table.FloatCol("percentage"),
	)
	for _, row := range c.Countries {
		t.MustAppend(
			table.String(row.Country),
			table.String(row.Code),
			table.Float(row.Percentage),
		)
	}
	return t
}

// RegionRow is one RIR service region's adoption figure.
type RegionRow struct {
	Region     string  `json:"region"`
	Percentage float64 `json:"percentage"`
}

// RegionalAdoption lists adoption estimates per RIR service region.
type RegionalAdoption struct {
	Provider string      `json:"provider"`
	Regions  []RegionRow `json:"regions"`
}

func (*RegionalAdoption) Kind() Kind { return KindRegionalAdoption }

func (r *RegionalAdoption) Table() *table.Table {
	t := table.New(table.StrCol("region"), table.FloatCol("percentage"))
	for _, row := range r.Regions {
		t.MustAppend(table.String(row.Region), table.Float(row.Percentage))
	}
	return t
}
