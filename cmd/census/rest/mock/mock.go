package mock

import (
	"context"
	"testing"

	"github.com/v6census/v6census/cmd/census/rest"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
)

type AdminArgs struct {
	Token   string
	Sources []string
}

func New(t *testing.T) *mockCensusClient {
	return &mockCensusClient{t: t}
}

type mockCensusClient struct {
	t    *testing.T
	Impl struct {
		GetOverview        func(ctx context.Context) (apicensus.Overview, error)
		GetAdoption        func(ctx context.Context) (apicensus.Adoption, error)
		GetCountries       func(ctx context.Context, limit int) (apicensus.Countries, error)
		GetAdoptionHistory func(ctx context.Context, months int) (apicensus.History, error)
		GetBGP             func(ctx context.Context) (apicensus.BGP, error)
		GetBGPHistory      func(ctx context.Context, months int) (apicensus.History, error)
		GetBGPPrefixes     func(ctx context.Context) (apicensus.BGPPrefixes, error)
		GetRIR             func(ctx context.Context) (apicensus.RIR, error)
		GetRegistry        func(ctx context.Context, registry string) (apicensus.Registry, error)
		GetCloud           func(ctx context.Context) (apicensus.Cloud, error)
		GetWhois           func(ctx context.Context, resource string) (apicensus.Whois, error)
		GetSources         func(ctx context.Context) (apicensus.Sources, error)
		Refresh            func(ctx context.Context, token string, sources []string) (apicensus.RefreshResult, error)
		Invalidate         func(ctx context.Context, token string, sources []string) (apicensus.InvalidateResult, error)
	}
	Calls struct {
		GetOverview        int
		GetAdoption        int
		GetCountries       []int
		GetAdoptionHistory []int
		GetBGP             int
		GetBGPHistory      []int
		GetBGPPrefixes     int
		GetRIR             int
		GetRegistry        []string
		GetCloud           int
		GetWhois           []string
		GetSources         int
		Refresh            []AdminArgs
		Invalidate         []AdminArgs
	}
}

var _ rest.CensusClient = &mockCensusClient{}

func (m *mockCensusClient) GetOverview(ctx context.Context) (apicensus.Overview, error) {
	m.t.Helper()
	m.Calls.GetOverview += 1
	if m.Impl.GetOverview == nil {
		m.t.Fatal("GetOverview is not ready to be called")
	}
	return m.Impl.GetOverview(ctx)
}

func (m *mockCensusClient) GetAdoption(ctx context.Context) (apicensus.Adoption, error) {
	m.t.Helper()
	m.Calls.GetAdoption += 1
	if m.Impl.GetAdoption == nil {
		m.t.Fatal("GetAdoption is not ready to be called")
	}
	return m.Impl.GetAdoption(ctx)
}

func (m *mockCensusClient) GetCountries(ctx context.Context, limit int) (apicensus.Countries, error) {
	m.t.Helper()
	m.Calls.GetCountries = append(m.Calls.GetCountries, limit)
	if m.Impl.GetCountries == nil {
		m.t.Fatal("GetCountries is not ready to be called")
	}
	return m.Impl.GetCountries(ctx, limit)
}

func (m *mockCensusClient) GetAdoptionHistory(ctx context.Context, months int) (apicensus.History, error) {
	m.t.Helper()
	m.Calls.GetAdoptionHistory = append(m.Calls.GetAdoptionHistory, months)
	if m.Impl.GetAdoptionHistory == nil {
		m.t.Fatal("GetAdoptionHistory is not ready to be called")
	}
	return m.Impl.GetAdoptionHistory(ctx, months)
}

func (m *mockCensusClient) GetBGP(ctx context.Context) (apicensus.BGP, error) {
	m.t.Helper()
	m.Calls.GetBGP += 1
	if m.Impl.GetBGP == nil {
		m.t.Fatal("GetBGP is not ready to be called")
	}
	return m.Impl.GetBGP(ctx)
}

func (m *mockCensusClient) GetBGPHistory(ctx context.Context, months int) (apicensus.History, error) {
	m.t.Helper()
	m.Calls.GetBGPHistory = append(m.Calls.GetBGPHistory, months)
	if m.Impl.GetBGPHistory == nil {
		m.t.Fatal("GetBGPHistory is not ready to be called")
	}
	return m.Impl.GetBGPHistory(ctx, months)
}

func (m *mockCensusClient) GetBGPPrefixes(ctx context.Context) (apicensus.BGPPrefixes, error) {
	m.t.Helper()
	m.Calls.GetBGPPrefixes += 1
	if m.Impl.GetBGPPrefixes == nil {
		m.t.Fatal("GetBGPPrefixes is not ready to be called")
	}
	return m.Impl.GetBGPPrefixes(ctx)
}

func (m *mockCensusClient) GetRIR(ctx context.Context) (apicensus.RIR, error) {
	m.t.Helper()
	m.Calls.GetRIR += 1
	if m.Impl.GetRIR == nil {
		m.t.Fatal("GetRIR is not ready to be called")
	}
	return m.Impl.GetRIR(ctx)
}

func (m *mockCensusClient) GetRegistry(ctx context.Context, registry string) (apicensus.Registry, error) {
	m.t.Helper()
	m.Calls.GetRegistry = append(m.Calls.GetRegistry, registry)
	if m.Impl.GetRegistry == nil {
		m.t.Fatal("GetRegistry is not ready to be called")
	}
	return m.Impl.GetRegistry(ctx, registry)
}

func (m *mockCensusClient) GetCloud(ctx context.Context) (apicensus.Cloud, error) {
	m.t.Helper()
	m.Calls.GetCloud += 1
	if m.Impl.GetCloud == nil {
		m.t.Fatal("GetCloud is not ready to be called")
	}
	return m.Impl.GetCloud(ctx)
}

func (m *mockCensusClient) GetWhois(ctx context.Context, resource string) (apicensus.Whois, error) {
	m.t.Helper()
	m.Calls.GetWhois = append(m.Calls.GetWhois, resource)
	if m.Impl.GetWhois == nil {
		m.t.Fatal("GetWhois is not ready to be called")
	}
	return m.Impl.GetWhois(ctx, resource)
}

func (m *mockCensusClient) GetSources(ctx context.Context) (apicensus.Sources, error) {
	m.t.Helper()
	m.Calls.GetSources += 1
	if m.Impl.GetSources == nil {
		m.t.Fatal("GetSources is not ready to be called")
	}
	return m.Impl.GetSources(ctx)
}

func (m *mockCensusClient) Refresh(
	ctx context.Context, token string, sources []string,
) (apicensus.RefreshResult, error) {
	m.t.Helper()
	m.Calls.Refresh = append(m.Calls.Refresh, AdminArgs{Token: token, Sources: sources})
	if m.Impl.Refresh == nil {
		m.t.Fatal("Refresh is not ready to be called")
	}
	return m.Impl.Refresh(ctx, token, sources)
}

func (m *mockCensusClient) Invalidate(
	ctx context.Context, token string, sources []string,
) (apicensus.InvalidateResult, error) {
	m.t.Helper()
	m.Calls.Invalidate = append(m.Calls.Invalidate, AdminArgs{Token: token, Sources: sources})
	if m.Impl.Invalidate == nil {
		m.t.Fatal("Invalidate is not ready to be called")
	}
	return m.Impl.Invalidate(ctx, token, sources)
}
