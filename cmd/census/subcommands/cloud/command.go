package cloud

import (
	"context"
	"fmt"
	"log"

	krst "github.com/v6census/v6census/cmd/census/rest"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flag struct {
	JSON bool `flag:"json" help:"Dump the raw API response as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show which cloud services speak IPv6.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command shows the IPv6 support matrix of the major clouds:
per service, whether it runs dual-stack, IPv6-only, without NAT charges
on egress, and whether it can delegate prefixes to workloads.

Example
-------

- Show the support matrix:

	{{ .Command }}

- Get the matrix as JSON:

	{{ .Command }} --json
`,
		),
	)
}

func Task() common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.CensusClient,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		cloud, err := client.GetCloud(ctx)
		if err != nil {
			return fmt.Errorf("failed to get the cloud support matrix: %w", err)
		}

		if cl.Flags().JSON {
			return common.DumpJson(cl.Stdout(), cloud)
		}

		out := cl.Stdout()
		for _, provider := range cloud.Data.Providers {
			fmt.Fprintf(out, "%s:\n", provider.Name)
			fmt.Fprintf(
				out, "    %-32s %-11s %-10s %-9s %s\n",
				"service", "dual-stack", "ipv6-only", "nat-free", "delegation",
			)
			for _, s := range provider.Services {
				fmt.Fprintf(
					out, "    %-32s %-11s %-10s %-9s %s",
					s.Service, yn(s.DualStack), yn(s.IPv6Only), yn(s.EgressNATFree), yn(s.PrefixDelegation),
				)
				if s.Notes != "" {
					fmt.Fprintf(out, "    (%s)", s.Notes)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, "per-provider rollup:")
		for _, s := range cloud.Summaries {
			fmt.Fprintf(
				out, "    %-16s %2d services: %2d dual-stack, %2d ipv6-only, %2d nat-free, %2d with delegation\n",
				s.Provider, s.Services, s.DualStack, s.IPv6Only, s.NATFree, s.Delegated,
			)
		}
		fmt.Fprintln(out)
		common.PrintProvenance(out, cloud.Provenance)

		return nil
	}
}

func yn(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
