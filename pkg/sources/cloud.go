package sources

import (
	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// newCloudSource serves the cloud provider IPv6 support matrix, maintained
// from the providers' own documentation.
func newCloudSource() domain.Source {
	return staticSource{
		info: domain.SourceInfo{
			Key:      "cloud",
			Provider: "provider documentation",
			Method:   domain.MethodStatic,
			Cadence:  "quarterly",
		},
		build: buildCloudCatalog,
	}
}

func buildCloudCatalog() stats.Payload {
	return &stats.CloudCatalog{
		Providers: []stats.CloudProvider{
			{
				Name: "Amazon Web Services", Slug: "aws",
				Services: []stats.CloudService{
					{
						Service: "EC2", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "egress-only internet gateway; /56 per VPC, /64 per subnet",
					},
					{
						Service: "ECS/EKS", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "CNI assigns pod addresses",
					},
					{
						Service: "Lambda", DualStack: true, EgressNATFree: true,
						Notes: "IPv6 egress via VPC configuration",
					},
					{
						Service: "S3", DualStack: true,
						Notes: "dual-stack endpoints in every region",
					},
					{
						Service: "CloudFront", DualStack: true,
						Notes: "IPv6 on for all distributions",
					},
					{Service: "RDS", DualStack: true},
				},
			},
			{
				Name: "Google Cloud", Slug: "gcp",
				Services: []stats.CloudService{
					{
						Service: "Compute Engine", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "direct IPv6 routing; /64 per subnet, /96 per VM",
					},
					{
						Service: "GKE", DualStack: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "pods carved /96 out of the subnet /64",
					},
					{Service: "Cloud Load Balancing", DualStack: true},
					{
						Service: "Cloud Functions", DualStack: true,
						Notes: "IPv6 through a VPC connector only",
					},
					{Service: "Cloud Storage", DualStack: true},
				},
			},
			{
				Name: "Microsoft Azure", Slug: "azure",
				Services: []stats.CloudService{
					{
						Service: "Virtual Machines", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "free public IPv6; /48 per VNet, /64 per subnet",
					},
					{
						Service: "AKS", DualStack: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "dual-stack clusters, pods addressed from the VNet",
					},
					{
						Service: "Load Balancer", DualStack: true,
						Notes: "standard SKU IPv6 frontends",
					},
					{Service: "App Service", DualStack: true},
					{
						Service: "Storage", DualStack: true,
						Notes: "blob, file and queue endpoints",
					},
				},
			},
			{
				Name: "DigitalOcean", Slug: "digitalocean",
				Services: []stats.CloudService{
					{
						Service: "Droplets", DualStack: true, EgressNATFree: true,
						Notes: "single /128 per droplet, no delegation",
					},
					{
						Service: "Kubernetes",
						Notes: "DOKS clusters are IPv4 only",
					},
					{
						Service: "Load Balancers", DualStack: true,
						Notes: "IPv6 forwarding to droplets",
					},
					{Service: "Spaces", DualStack: true},
				},
			},
			{
				Name: "Linode (Akamai)", Slug: "linode",
				Services: []stats.CloudService{
					{
						Service: "Compute Instances", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "/64 or /56 pools on request",
					},
					{Service: "LKE", DualStack: true},
					{Service: "NodeBalancers", DualStack: true},
					{Service: "Object Storage", DualStack: true},
				},
			},
			{
				Name: "Oracle Cloud Infrastructure", Slug: "oracle",
				Services: []stats.CloudService{
					{
						Service: "Compute", DualStack: true, IPv6Only: true,
						EgressNATFree: true, PrefixDelegation: true,
						Notes: "internet gateway routes IPv6 directly; /56 per VCN",
					},
					{
						Service: "OKE", DualStack: true,
						Notes: "dual-stack clusters",
					},
					{Service: "Load Balancers", DualStack: true},
				},
			},
			{
				Name: "Cloudflare", Slug: "cloudflare",
				Services: []stats.CloudService{
					{
						Service: "CDN", DualStack: true,
						Notes: "IPv6 on every zone",
					},
					{Service: "Workers", DualStack: true},
					{Service: "R2 Storage", DualStack: true},
					{Service: "Load Balancing", DualStack: true},
				},
			},
		},
	}
}
