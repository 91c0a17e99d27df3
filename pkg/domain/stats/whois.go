package stats

import "github.com/v6census/v6census/pkg/table"

// Deployment status values derived from a whois/ASN lookup.
const (
	DeploymentFull    = "Full"
	DeploymentPartial = "Partial"
	DeploymentUnknown = "Unknown"
)

// WhoisInfo is the aggregated answer of an ASN or prefix lookup.
type WhoisInfo struct {
	// Resource as asked, e.g. "AS15169" or "2001:db8::/32".
	Resource string `json:"resource"`

	// ASN when the resource is (or resolves to) an AS, e.g. "AS15169".
	ASN string `json:"asn,omitempty"`

	Organization string `json:"organization,omitempty"`

	// IPv6Prefixes known to be announced or allocated to the holder.
	IPv6Prefixes []string `json:"ipv6Prefixes,omitempty"`

	// Status is one of the Deployment* values.
	Status string `json:"status"`

	// Recommendation is a short operator-facing hint matching Status.
	Recommendation string `json:"recommendation"`

	// Answered names the provider that answered: ripestat, bgpview,
	// or builtin for the curated table.
	Answered string `json:"answered"`
}

func (*WhoisInfo) Kind() Kind { return KindWhois }

func (w *WhoisInfo) Table() *table.Table {
	t := table.New(
		table.StrCol("resource"),
		table.StrCol("asn"),
		table.StrCol("organization"),
		table.StrCol("status"),
		table.IntCol("ipv6_prefixes"),
	)
	t.MustAppend(
		table.String(w.Resource),
		table.String(w.ASN),
		table.String(w.Organization),
		table.String(w.Status),
		table.Int(int64(len(w.IPv6Prefixes))),
	)
	return t
}
