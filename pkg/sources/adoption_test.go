package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/fetch"
	"github.com/v6census/v6census/pkg/utils/try"
)

func TestGoogleSource(t *testing.T) {
	t.Run("when the page carries a percentage, it fetches a live payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body>
<p>Around 47.35% of users access Google over IPv6.</p>
</body></html>`))
		}))
		defer server.Close()

		testee := newGoogleSource(fetch.New())
		testee.url = server.URL

		payload := try.To(testee.Fetch(context.Background())).OrFatal(t)

		adoption, ok := payload.(*stats.GlobalAdoption)
		if !ok {
			t.Fatalf("unexpected payload type: %T", payload)
		}
		if adoption.Percentage != 47.35 {
			t.Errorf("unexpected percentage: %f", adoption.Percentage)
		}
		if adoption.Provider != "Google" {
			t.Errorf("unexpected provider: %s", adoption.Provider)
		}
	})

	t.Run("when the page names no percentage, it errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>maintenance</body></html>"))
		}))
		defer server.Close()

		testee := newGoogleSource(fetch.New())
		testee.url = server.URL

		if _, err := testee.Fetch(context.Background()); err == nil {
			t.Error("a page without the figure should error")
		}
	})

	t.Run("its fallback is the published estimate", func(t *testing.T) {
		testee := newGoogleSource(fetch.New())

		adoption := testee.Fallback().(*stats.GlobalAdoption)
		if adoption.Percentage != 47.0 {
			t.Errorf("unexpected fallback percentage: %f", adoption.Percentage)
		}
	})
}

func TestCountryCatalog(t *testing.T) {
	testee := newCountryCatalog()

	payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
	catalog := payload.(*stats.CountryAdoption)

	if len(catalog.Countries) != 25 {
		t.Fatalf("unexpected country count: %d", len(catalog.Countries))
	}
	if top := catalog.Countries[0]; top.Code != "FR" || top.Percentage != 80.0 {
		t.Errorf("unexpected head of the table: %+v", top)
	}
	for nth := 1; nth < len(catalog.Countries); nth++ {
		if catalog.Countries[nth-1].Percentage < catalog.Countries[nth].Percentage {
			t.Errorf(
				"catalog is not descending at %s",
				catalog.Countries[nth].Code,
			)
		}
	}

	t.Run("callers can mutate their copy freely", func(t *testing.T) {
		payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
		payload.(*stats.CountryAdoption).Countries[0].Percentage = 0

		fresh := try.To(testee.Fetch(context.Background())).OrFatal(t)
		if fresh.(*stats.CountryAdoption).Countries[0].Percentage != 80.0 {
			t.Error("catalog payloads should not share backing arrays")
		}
	})
}

func TestCountryRate(t *testing.T) {
	if name, rate := countryRate("DE"); name != "Germany" || rate != 75.0 {
		t.Errorf("unexpected rate for DE: %s, %f", name, rate)
	}
	if name, rate := countryRate("ZZ"); name != "ZZ" || rate != 25.0 {
		t.Errorf("unlisted countries should get the default: %s, %f", name, rate)
	}
}

func TestRegionsSource(t *testing.T) {
	t.Run("it reports the registries the page names", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body>
<div>RIPE users</div><div>ARIN users</div>
</body></html>`))
		}))
		defer server.Close()

		testee := newRegionsSource(fetch.New())
		testee.url = server.URL

		payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
		regions := payload.(*stats.RegionalAdoption).Regions

		if len(regions) != 2 {
			t.Fatalf("unexpected regions: %+v", regions)
		}
		if regions[0].Region != "RIPE" || regions[1].Region != "ARIN" {
			t.Errorf("unexpected regions: %+v", regions)
		}
	})

	t.Run("a page naming no registry is a failed fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>redirecting...</body></html>"))
		}))
		defer server.Close()

		testee := newRegionsSource(fetch.New())
		testee.url = server.URL

		if _, err := testee.Fetch(context.Background()); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("its fallback carries all five registries", func(t *testing.T) {
		testee := newRegionsSource(fetch.New())

		regions := testee.Fallback().(*stats.RegionalAdoption).Regions
		if len(regions) != 5 {
			t.Fatalf("unexpected regions: %+v", regions)
		}
		if regions[0].Region != "RIPE" || regions[0].Percentage != 65.0 {
			t.Errorf("unexpected head region: %+v", regions[0])
		}
	})
}

func TestRegionalComparison(t *testing.T) {
	testee := newRegionalComparison()

	payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
	rows := payload.(*stats.RegionalComparison).Rows

	if len(rows) != 5 {
		t.Fatalf("unexpected row count: %d", len(rows))
	}
	if rows[0].Region != "Europe" || rows[0].Adoption != 65.0 {
		t.Errorf("unexpected head row: %+v", rows[0])
	}
}
