package stats

import "github.com/v6census/v6census/pkg/table"

// CloudService is one service of a cloud provider and its IPv6 posture.
type CloudService struct {
	Service string `json:"service"`

	// DualStack: the service can run with both address families.
	DualStack bool `json:"dualStack"`

	// IPv6Only: the service can run without any IPv4 at all.
	IPv6Only bool `json:"ipv6Only"`

	// EgressNATFree: outbound IPv6 needs no NAT gateway (no per-GB toll).
	EgressNATFree bool `json:"egressNatFree"`

	// PrefixDelegation: the provider can delegate a prefix to the
	// instance/tenant for downstream use.
	PrefixDelegation bool `json:"prefixDelegation"`

	Notes string `json:"notes,omitempty"`
}

// CloudProvider groups the services of one provider.
type CloudProvider struct {
	// Name for display, e.g. "AWS".
	Name string `json:"name"`

	// Slug for lookups, e.g. "aws".
	Slug string `json:"slug"`

	Services []CloudService `json:"services"`
}

// ProviderSummary is the computed rollup of one provider's services.
type ProviderSummary struct {
	Provider  string `json:"provider"`
	Services  int    `json:"services"`
	DualStack int    `json:"dualStack"`
	IPv6Only  int    `json:"ipv6Only"`
	NATFree   int    `json:"natFree"`
	Delegated int    `json:"delegated"`
}

// CloudCatalog is the cross-provider IPv6 support matrix.
type CloudCatalog struct {
	Providers []CloudProvider `json:"providers"`
}

func (*CloudCatalog) Kind() Kind { return KindCloudCatalog }

// Summaries computes one rollup row per provider, in catalog order.
func (c *CloudCatalog) Summaries() []ProviderSummary {
	summaries := make([]ProviderSummary, 0, len(c.Providers))
	for _, p := range c.Providers {
		s := ProviderSummary{Provider: p.Name, Services: len(p.Services)}
		for _, svc := range p.Services {
			if svc.DualStack {
				s.DualStack += 1
			}
			if svc.IPv6Only {
				s.IPv6Only += 1
			}
			if svc.EgressNATFree {
				s.NATFree += 1
			}
			if svc.PrefixDelegation {
				s.Delegated += 1
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func (c *CloudCatalog) Table() *table.Table {
	boolCell := func(b bool) table.Value {
		if b {
			return table.Int(1)
		}
		return table.Int(0)
	}
	t := table.New(
		table.StrCol("provider"),
		table.StrCol("service"),
		table.IntCol("dual_stack"),
		table.IntCol("ipv6_only"),
		table.IntCol("egress_nat_free"),
		table.IntCol("prefix_delegation"),
	)
	for _, p := range c.Providers {
		for _, svc := range p.Services {
			t.MustAppend(
				table.String(p.Name),
				table.String(svc.Service),
				boolCell(svc.DualStack),
				boolCell(svc.IPv6Only),
				boolCell(svc.EgressNATFree),
				boolCell(svc.PrefixDelegation),
			)
		}
	}
	return t
}
