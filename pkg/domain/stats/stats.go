// Package stats defines the typed payloads the statistics sources produce.
//
// Every payload knows its Kind (stable identifier used for persistence)
// and renders itself into the normalized tabular form for export.
package stats

import (
	"encoding/json"
	"fmt"

	"github.com/v6census/v6census/pkg/table"
)

// Kind identifies a payload type. Kinds go into the snapshot store,
// so they are stable names, not Go type names.
type Kind string

const (
	KindGlobalAdoption     Kind = "global_adoption"
	KindCountryAdoption    Kind = "country_adoption"
	KindRegionalAdoption   Kind = "regional_adoption"
	KindBGP                Kind = "bgp"
	KindPrefixDistribution Kind = "prefix_distribution"
	KindRIRDelegations     Kind = "rir_delegations"
	KindAllocationTotals   Kind = "allocation_totals"
	KindTrafficShare       Kind = "traffic_share"
	KindDNSInsights        Kind = "dns_insights"
	KindPulse              Kind = "pulse"
	KindAkamai             Kind = "akamai"
	KindFederal            Kind = "federal"
	KindMatrix             Kind = "matrix"
	KindCloudCatalog       Kind = "cloud_catalog"
	KindWhois              Kind = "whois"
	KindSeries             Kind = "series"
	KindRegionalComparison Kind = "regional_comparison"
)

// Payload is a typed statistics value produced by one source fetch.
type Payload interface {
	Kind() Kind

	// Table renders the payload into the normalized tabular form.
	Table() *table.Table
}

// Marshal serializes a payload for the snapshot store.
func Marshal(p Payload) (Kind, []byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	return p.Kind(), raw, nil
}

// Unmarshal restores a payload serialized by Marshal.
//
// Unknown kinds are an error: they mean the store holds rows written by a
// newer build, and the snapshot should be refreshed instead of read.
func Unmarshal(kind Kind, raw []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindGlobalAdoption:
		p = &GlobalAdoption{}
	case KindCountryAdoption:
		p = &CountryAdoption{}
	case KindRegionalAdoption:
		p = &RegionalAdoption{}
	case KindBGP:
		p = &BGPStats{}
	case KindPrefixDistribution:
		p = &PrefixDistribution{}
	case KindRIRDelegations:
		p = &RIRDelegations{}
	case KindAllocationTotals:
		p = &AllocationTotals{}
	case KindTrafficShare:
		p = &TrafficShare{}
	case KindDNSInsights:
		p = &DNSInsights{}
	case KindPulse:
		p = &PulseStats{}
	case KindAkamai:
		p = &AkamaiStats{}
	case KindFederal:
		p = &FederalDeployment{}
	case KindMatrix:
		p = &MatrixStats{}
	case KindCloudCatalog:
		p = &CloudCatalog{}
	case KindWhois:
		p = &WhoisInfo{}
	case KindSeries:
		p = &Series{}
	case KindRegionalComparison:
		p = &RegionalComparison{}
	default:
		return nil, fmt.Errorf("unknown payload kind: %s", kind)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
