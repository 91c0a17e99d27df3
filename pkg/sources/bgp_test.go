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

func TestBGPSource(t *testing.T) {
	t.Run("it reads both table sizes from bgpstuff", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body>
<p>1,014,404 IPv4 prefixes</p>
<p>228,748 IPv6 prefixes</p>
</body></html>`))
		}))
		defer server.Close()

		testee := newBGPSource(fetch.New())
		testee.bgpstuff = server.URL

		payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
		table := payload.(*stats.BGPStats)

		if table.IPv6Prefixes != 228748 {
			t.Errorf("unexpected v6 count: %d", table.IPv6Prefixes)
		}
		if table.IPv4Prefixes != 1014404 {
			t.Errorf("unexpected v4 count: %d", table.IPv4Prefixes)
		}
		if table.IPv6Share != 22.55 {
			t.Errorf("unexpected share: %f", table.IPv6Share)
		}
		if table.Provider != "BGPStuff.net" {
			t.Errorf("unexpected provider: %s", table.Provider)
		}
	})

	t.Run("when bgpstuff is down, it degrades to potaroo", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer down.Close()
		potaroo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("The table currently holds 231,500 prefixes."))
		}))
		defer potaroo.Close()

		testee := newBGPSource(fetch.New())
		testee.bgpstuff = down.URL
		testee.potaroo = potaroo.URL

		payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
		table := payload.(*stats.BGPStats)

		if table.IPv6Prefixes != 231500 {
			t.Errorf("unexpected v6 count: %d", table.IPv6Prefixes)
		}
		if table.IPv4Prefixes != 0 {
			t.Errorf("potaroo carries no v4 count, got %d", table.IPv4Prefixes)
		}
		if table.Provider != "Potaroo" {
			t.Errorf("unexpected provider: %s", table.Provider)
		}
	})

	t.Run("when both upstreams fail, the fetch errors", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer down.Close()

		testee := newBGPSource(fetch.New())
		testee.bgpstuff = down.URL
		testee.potaroo = down.URL

		if _, err := testee.Fetch(context.Background()); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("its fallback is the studied table size", func(t *testing.T) {
		testee := newBGPSource(fetch.New())

		table := testee.Fallback().(*stats.BGPStats)
		if table.IPv6Prefixes != 228748 || table.IPv4Prefixes != 1014404 {
			t.Errorf("unexpected fallback table: %+v", table)
		}
		if table.IPv6Share != 22.55 {
			t.Errorf("unexpected fallback share: %f", table.IPv6Share)
		}
	})

	t.Run("currentCount anchors on the live table when it answers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("300,000 IPv6 prefixes"))
		}))
		defer server.Close()

		testee := newBGPSource(fetch.New())
		testee.bgpstuff = server.URL
		testee.potaroo = server.URL

		if got := testee.currentCount(context.Background()); got != 300000 {
			t.Errorf("unexpected anchor: %d", got)
		}
	})

	t.Run("currentCount anchors on the estimate when nothing answers", func(t *testing.T) {
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer down.Close()

		testee := newBGPSource(fetch.New())
		testee.bgpstuff = down.URL
		testee.potaroo = down.URL

		if got := testee.currentCount(context.Background()); got != 228748 {
			t.Errorf("unexpected anchor: %d", got)
		}
	})
}

func TestPrefixDistribution(t *testing.T) {
	testee := newPrefixDistribution()

	payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
	dist := payload.(*stats.PrefixDistribution)

	if len(dist.Buckets) != 7 {
		t.Fatalf("unexpected bucket count: %d", len(dist.Buckets))
	}
	if dist.Buckets[0].Prefix != "/48" || dist.Buckets[0].Share != 46.0 {
		t.Errorf("unexpected head bucket: %+v", dist.Buckets[0])
	}
	if len(dist.TopASNs) != 10 {
		t.Fatalf("unexpected ASN count: %d", len(dist.TopASNs))
	}
	if dist.TopASNs[0].ASN != "AS6939" {
		t.Errorf("unexpected head ASN: %+v", dist.TopASNs[0])
	}
}
