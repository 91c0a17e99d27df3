package invalidate

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
	Source []string `flag:"source" alias:"s" metavar:"KEY" help:"Dataset key to drop. Repeatable. Everything when omitted."`
	JSON   bool     `flag:"json" help:"Dump the raw API response as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Drop cached snapshots so the next read refetches.",
		Flags{
			Token: os.Getenv("CENSUS_TOKEN"),
		},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command drops cached snapshots from the daemon. The next read of a
dropped dataset fetches it from its provider again, or falls back to the
baked-in figures if the provider is down. It needs an admin token (see
the 'token' subcommand).

Example
-------

- Drop everything cached:

	{{ .Command }} --token "$(census token --sign-key ...)"

- Drop one dataset:

	CENSUS_TOKEN=... {{ .Command }} --source whois/AS15169
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

		result, err := client.Invalidate(ctx, flags.Token, flags.Source)
		if err != nil {
			return fmt.Errorf("failed to invalidate: %w", err)
		}

		if flags.JSON {
			return common.DumpJson(cl.Stdout(), result)
		}

		fmt.Fprintf(cl.Stdout(), "dropped %d cached snapshots\n", result.Dropped)

		return nil
	}
}
