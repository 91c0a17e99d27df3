package sources

import (
	"context"
	"testing"

	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/try"
)

func TestCloudSource(t *testing.T) {
	testee := newCloudSource()

	payload := try.To(testee.Fetch(context.Background())).OrFatal(t)
	catalog := payload.(*stats.CloudCatalog)

	t.Run("it covers the major providers", func(t *testing.T) {
		if len(catalog.Providers) != 7 {
			t.Fatalf("unexpected provider count: %d", len(catalog.Providers))
		}
		slugs := map[string]bool{}
		for _, p := range catalog.Providers {
			slugs[p.Slug] = true
		}
		for _, want := range []string{"aws", "gcp", "azure", "digitalocean", "linode", "oracle", "cloudflare"} {
			if !slugs[want] {
				t.Errorf("missing provider %q", want)
			}
		}
	})

	t.Run("the rollups count service capabilities", func(t *testing.T) {
		summaries := catalog.Summaries()

		aws := summaries[0]
		if aws.Provider != "Amazon Web Services" {
			t.Fatalf("unexpected head provider: %+v", aws)
		}
		if aws.Services != 6 || aws.DualStack != 6 || aws.IPv6Only != 2 ||
			aws.NATFree != 3 || aws.Delegated != 2 {
			t.Errorf("unexpected AWS rollup: %+v", aws)
		}

		for _, s := range summaries {
			if s.Provider != "DigitalOcean" {
				continue
			}
			if s.Services != 4 || s.DualStack != 3 || s.IPv6Only != 0 ||
				s.NATFree != 1 || s.Delegated != 0 {
				t.Errorf("unexpected DigitalOcean rollup: %+v", s)
			}
		}
	})

	t.Run("every service row names its service", func(t *testing.T) {
		for _, p := range catalog.Providers {
			if len(p.Services) == 0 {
				t.Errorf("provider %q has no services", p.Name)
			}
			for _, svc := range p.Services {
				if svc.Service == "" {
					t.Errorf("provider %q has an unnamed service", p.Name)
				}
			}
		}
	})
}
