package sources

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
		"List the datasets the census is built from.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command lists every dataset the census draws on, who publishes it,
how it is fetched and whether a snapshot is cached right now.

Example
-------

- List the datasets:

	{{ .Command }}

- Get the list as JSON:

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
		sources, err := client.GetSources(ctx)
		if err != nil {
			return fmt.Errorf("failed to list the datasets: %w", err)
		}

		if cl.Flags().JSON {
			return common.DumpJson(cl.Stdout(), sources)
		}

		out := cl.Stdout()
		fmt.Fprintf(
			out, "%-28s %-18s %-10s %-7s %s\n",
			"key", "provider", "method", "cached", "fetched at",
		)
		for _, s := range sources.Sources {
			cached := "no"
			if s.Cached {
				cached = "yes"
			}
			fmt.Fprintf(out, "%-28s %-18s %-10s %-7s", s.Key, s.Provider, s.Method, cached)
			if s.FetchedAt != nil {
				fmt.Fprintf(out, " %s (%s)", s.FetchedAt, s.Origin)
			}
			fmt.Fprintln(out)
		}

		cache := sources.Cache
		fmt.Fprintln(out)
		fmt.Fprintf(out, "cache: %d snapshots", cache.Entries)
		if cache.Oldest != nil && cache.Newest != nil {
			fmt.Fprintf(out, " (oldest %s, newest %s)", cache.Oldest, cache.Newest)
		}
		fmt.Fprintln(out)

		return nil
	}
}
