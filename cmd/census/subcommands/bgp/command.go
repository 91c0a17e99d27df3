package bgp

import (
	"context"
	"fmt"
	"log"
	"strconv"

	krst "github.com/v6census/v6census/cmd/census/rest"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Prefixes bool   `flag:"prefixes" alias:"p" help:"Show how announcements spread over prefix sizes and origin ASes."`
	History  bool   `flag:"history" help:"Show the monthly table-size series instead of the current figures."`
	Months   string `flag:"months" alias:"m" metavar:"N" help:"Limit --history to the last N months."`
	JSON     bool   `flag:"json" help:"Dump the raw API response as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show the IPv6 routing table as BGP sees it.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command shows the global IPv6 routing table: how many prefixes are
announced, how that compares with the IPv4 table and how fast it grows.

Example
-------

- Show the current table figures:

	{{ .Command }}

- Show the announced prefix sizes and the largest origin ASes:

	{{ .Command }} --prefixes

- Show how the table grew, month by month:

	{{ .Command }} --history --months 24
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
		flags := cl.Flags()

		if flags.Prefixes && flags.History {
			return fmt.Errorf("%w: --prefixes and --history are exclusive", flarc.ErrUsage)
		}
		if flags.Months != "" && !flags.History {
			return fmt.Errorf("%w: --months takes effect with --history only", flarc.ErrUsage)
		}

		out := cl.Stdout()

		switch {
		case flags.History:
			months := 0
			if flags.Months != "" {
				var err error
				months, err = strconv.Atoi(flags.Months)
				if err != nil || months <= 0 {
					return fmt.Errorf(
						"%w: invalid number of months: %s", flarc.ErrUsage, flags.Months,
					)
				}
			}

			history, err := client.GetBGPHistory(ctx, months)
			if err != nil {
				return fmt.Errorf("failed to get the table-size history: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, history)
			}

			common.PrintSeries(out, history.Data)
			fmt.Fprintln(out)
			common.PrintProvenance(out, history.Provenance)

		case flags.Prefixes:
			dist, err := client.GetBGPPrefixes(ctx)
			if err != nil {
				return fmt.Errorf("failed to get the prefix distribution: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, dist)
			}

			fmt.Fprintln(out, "announced prefix sizes:")
			for _, b := range dist.Data.Buckets {
				fmt.Fprintf(out, "    %-6s %6.2f %%\n", b.Prefix, b.Share)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "top origin ASes:")
			for _, a := range dist.Data.TopASNs {
				fmt.Fprintf(out, "    %-10s %-28s %6d prefixes\n", a.ASN, a.Name, a.Prefixes)
			}
			fmt.Fprintln(out)
			common.PrintProvenance(out, dist.Provenance)

		default:
			bgp, err := client.GetBGP(ctx)
			if err != nil {
				return fmt.Errorf("failed to get the table figures: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, bgp)
			}

			fmt.Fprintf(out, "IPv6 prefixes  : %d\n", bgp.Data.IPv6Prefixes)
			fmt.Fprintf(out, "IPv4 prefixes  : %d\n", bgp.Data.IPv4Prefixes)
			fmt.Fprintf(out, "v6 / v4 size   : %.2f %%\n", bgp.Data.IPv6Share)
			fmt.Fprintf(out, "growth per year: %d prefixes\n", bgp.Data.GrowthPerYear)
			fmt.Fprintln(out)
			common.PrintProvenance(out, bgp.Provenance)
		}

		return nil
	}
}
