package rir

import (
	"context"
	"fmt"
	"io"
	"log"

	krst "github.com/v6census/v6census/cmd/census/rest"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/youta-t/flarc"
)

type Flag struct {
	JSON bool `flag:"json" help:"Dump the raw API response as JSON."`
}

const ARG_REGISTRY = "REGISTRY"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show IPv6 delegations per regional registry.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_REGISTRY, Required: false,
				Help: "Registry to show: afrinic, apnic, arin, lacnic or ripencc. All of them when omitted.",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command shows the IPv6 address space each regional registry has
delegated, country by country, and the cumulative allocation totals.

Example
-------

- Show every registry and the totals:

	{{ .Command }}

- Show one registry:

	{{ .Command }} ripencc
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
		out := cl.Stdout()

		if registries := cl.Args()[ARG_REGISTRY]; 0 < len(registries) {
			registry, err := client.GetRegistry(ctx, registries[0])
			if err != nil {
				return fmt.Errorf("failed to get the delegations of %s: %w", registries[0], err)
			}
			if cl.Flags().JSON {
				return common.DumpJson(out, registry)
			}

			printRegistry(out, registry.Data)
			fmt.Fprintln(out)
			common.PrintProvenance(out, registry.Provenance)
			return nil
		}

		rir, err := client.GetRIR(ctx)
		if err != nil {
			return fmt.Errorf("failed to get the delegation summaries: %w", err)
		}
		if cl.Flags().JSON {
			return common.DumpJson(out, rir)
		}

		for _, reg := range rir.Registries {
			printRegistry(out, reg)
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "allocated over all registries: %.0f /48-equivalents\n", rir.Totals.TotalSlash48s)
		for _, s := range rir.Totals.Shares {
			fmt.Fprintf(out, "    %-10s %6.2f %%\n", s.Registry, s.Share)
		}
		fmt.Fprintln(out)
		common.PrintProvenance(out, rir.Provenance...)

		return nil
	}
}

func printRegistry(w io.Writer, reg stats.RIRDelegations) {
	fmt.Fprintf(
		w, "%s: %.0f %s-equivalents over %d delegations, %d countries\n",
		reg.Registry, reg.TotalEquivalents, reg.Unit, reg.TotalEntries, reg.CountryCount,
	)
	for _, c := range reg.TopCountries {
		fmt.Fprintf(
			w, "    %-4s %6.2f %%  %12.0f %ss  (%d delegations)\n",
			c.Code, c.Percentage, c.Equivalents, reg.Unit, c.Entries,
		)
	}
}
