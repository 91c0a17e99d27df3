package stats

import "github.com/v6census/v6census/pkg/table"

// AgencyRow is one federal agency's IPv6 operational state.
type AgencyRow struct {
	Agency string `json:"agency"`

	// Domains under the agency that the monitor tracks.
	Domains int64 `json:"domains"`

	// Operational share of those domains, 0..100.
	Operational float64 `json:"operational"`
}

// FederalDeployment is the USGv6 deployment monitor's view of US
// government (and related) domains.
type FederalDeployment struct {
	// Scope of the report: gov, edu, or all.
	Scope string `json:"scope"`

	// Domains tracked within the scope.
	Domains int64 `json:"domains"`

	// Overall share of domains with IPv6 operational services, 0..100.
	Overall float64 `json:"overall"`

	// Per-service operational shares.
	DNS  float64 `json:"dns"`
	Mail float64 `json:"mail"`
	Web  float64 `json:"web"`

	Agencies []AgencyRow `json:"agencies"`
}

func (*FederalDeployment) Kind() Kind { return KindFederal }

func (f *FederalDeployment) Table() *table.Table {
	t := table.New(
		table.StrCol("agency"),
		table.IntCol("domains"),
		table.FloatCol("operational"),
	)
	for _, a := range f.Agencies {
		t.MustAppend(
			table.String(a.Agency),
			table.Int(a.Domains),
			table.Float(a.Operational),
		)
	}
	return t
}
