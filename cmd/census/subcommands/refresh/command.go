package refresh

import (
	"context"
	"fmt"
	"log"
	"os"

	krst "github.com/v6census/v6census/cmd/census/rest"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Token  string   `flag:"token" metavar:"TOKEN" help:"Admin token minted by the 'token' subcommand. $CENSUS_TOKEN is used when omitted."`
	Source []string `flag:"source" alias:"s" metavar:"KEY" help:"Dataset key to refresh. Repeatable. Everything when omitted."`
	JSON   bool     `flag:"json" help:"Dump the raw API response as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Fetch datasets again, ahead of their expiry.",
		Flags{
			Token: os.Getenv("CENSUS_TOKEN"),
		},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command makes the daemon fetch datasets from their providers right
now, instead of waiting for the cached snapshots to expire. It needs an
admin token (see the 'token' subcommand).

Example
-------

- Refresh everything:

	{{ .Command }} --token "$(census token --sign-key ...)"

- Refresh two datasets, with the token taken from the environment:

	CENSUS_TOKEN=... {{ .Command }} --source adoption/global --source bgp/table
`,
		),
	)
}

func Task() common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		client krst.CensusClient,
		cl flarc.Commandline[Flags],
		params []any,
	) error {
		flags := cl.Flags()
		if flags.Token == "" {
			return fmt.Errorf("%w: --token (or $CENSUS_TOKEN) is required", flarc.ErrUsage)
		}

		result, err := client.Refresh(ctx, flags.Token, flags.Source)
		if err != nil {
			return fmt.Errorf("failed to refresh: %w", err)
		}

		if flags.JSON {
			return common.DumpJson(cl.Stdout(), result)
		}

		out := cl.Stdout()
		fmt.Fprintf(out, "refreshed %d datasets\n", len(result.Refreshed))
		common.PrintProvenance(out, result.Refreshed...)

		return nil
	}
}
