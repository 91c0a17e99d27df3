package overview

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
		"Show the headline figures of the IPv6 census.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command shows the headline figures of the IPv6 census:
the share of users reaching the web over IPv6, the share of IPv6 web traffic,
the size of the IPv6 BGP table and the allocated IPv6 address space.
Each figure comes with the dataset it was taken from.

Example
-------

- Show the headline figures:

	{{ .Command }}

- Get them as JSON, for scripting:

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
		overview, err := client.GetOverview(ctx)
		if err != nil {
			return fmt.Errorf("failed to get the census overview: %w", err)
		}

		if cl.Flags().JSON {
			return common.DumpJson(cl.Stdout(), overview)
		}

		out := cl.Stdout()
		fmt.Fprintf(out, "users on IPv6     : %6.2f %%\n", overview.GlobalAdoption)
		fmt.Fprintf(out, "IPv6 web traffic  : %6.2f %%\n", overview.TrafficShare)
		fmt.Fprintf(
			out, "IPv6 BGP prefixes : %d (%.2f %% of the IPv4 table size)\n",
			overview.IPv6Prefixes, overview.TableShare,
		)
		fmt.Fprintf(out, "allocated space   : %.0f /48-equivalents\n", overview.AllocatedSlash48s)
		fmt.Fprintln(out)
		common.PrintProvenance(out, overview.Sources...)

		return nil
	}
}
