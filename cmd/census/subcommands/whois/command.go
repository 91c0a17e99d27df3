package whois

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

const ARG_RESOURCE = "RESOURCE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Look up the IPv6 footprint of an AS or a prefix.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_RESOURCE, Required: true,
				Help: "AS number (like AS15169) or IP prefix (like 2001:db8::/32) to look up.",
			},
		},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command asks the registry databases about an AS number or an
IP prefix: who holds it, which IPv6 prefixes it announces and whether
its IPv6 rollout looks complete.

Example
-------

- Look up an AS:

	{{ .Command }} AS15169

- Look up a prefix:

	{{ .Command }} 2001:4860::/32
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
		resource := cl.Args()[ARG_RESOURCE][0]

		whois, err := client.GetWhois(ctx, resource)
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", resource, err)
		}

		if cl.Flags().JSON {
			return common.DumpJson(cl.Stdout(), whois)
		}

		out := cl.Stdout()
		info := whois.Data
		fmt.Fprintf(out, "resource      : %s\n", info.Resource)
		if info.ASN != "" {
			fmt.Fprintf(out, "ASN           : %s\n", info.ASN)
		}
		if info.Organization != "" {
			fmt.Fprintf(out, "organization  : %s\n", info.Organization)
		}
		for i, prefix := range info.IPv6Prefixes {
			if i == 0 {
				fmt.Fprintf(out, "IPv6 prefixes : %s\n", prefix)
			} else {
				fmt.Fprintf(out, "                %s\n", prefix)
			}
		}
		fmt.Fprintf(out, "status        : %s\n", info.Status)
		if info.Recommendation != "" {
			fmt.Fprintf(out, "recommendation: %s\n", info.Recommendation)
		}
		fmt.Fprintf(out, "answered by   : %s\n", info.Answered)
		fmt.Fprintln(out)
		common.PrintProvenance(out, whois.Provenance)

		return nil
	}
}
