package adoption

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	krst "github.com/v6census/v6census/cmd/census/rest"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Countries string `flag:"countries" alias:"c" metavar:"N" help:"Show the country ranking only, up to N rows."`
	History   bool   `flag:"history" help:"Show the monthly adoption series instead of the current figures."`
	Months    string `flag:"months" alias:"m" metavar:"N" help:"Limit --history to the last N months."`
	JSON      bool   `flag:"json" help:"Dump the raw API response as JSON."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show how far the world has moved to IPv6.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task()),
		flarc.WithDescription(
			`
This command shows the share of users reaching the web over IPv6:
the global figure, the per-region breakdown and the leading countries.

Example
-------

- Show the current adoption figures:

	{{ .Command }}

- Show the 25 leading countries only:

	{{ .Command }} --countries 25

- Show how adoption grew, month by month:

	{{ .Command }} --history

- ...limited to the last 24 months:

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

		if flags.History && flags.Countries != "" {
			return fmt.Errorf("%w: --countries and --history are exclusive", flarc.ErrUsage)
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

			history, err := client.GetAdoptionHistory(ctx, months)
			if err != nil {
				return fmt.Errorf("failed to get the adoption history: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, history)
			}

			common.PrintSeries(out, history.Data)
			fmt.Fprintln(out)
			common.PrintProvenance(out, history.Provenance)

		case flags.Countries != "":
			limit, err := strconv.Atoi(flags.Countries)
			if err != nil || limit <= 0 {
				return fmt.Errorf(
					"%w: invalid number of countries: %s", flarc.ErrUsage, flags.Countries,
				)
			}

			countries, err := client.GetCountries(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to get the country ranking: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, countries)
			}

			printCountries(out, countries.Data)
			fmt.Fprintln(out)
			common.PrintProvenance(out, countries.Provenance)

		default:
			adoption, err := client.GetAdoption(ctx)
			if err != nil {
				return fmt.Errorf("failed to get the adoption figures: %w", err)
			}
			if flags.JSON {
				return common.DumpJson(out, adoption)
			}

			fmt.Fprintf(
				out, "global adoption: %.2f %% of users (%s)\n\n",
				adoption.Global.Percentage, adoption.Global.Provider,
			)
			printRegions(out, adoption.Regional)
			fmt.Fprintln(out)
			printCountries(out, adoption.Countries)
			fmt.Fprintln(out)
			common.PrintProvenance(out, adoption.Provenance...)
		}

		return nil
	}
}

func printRegions(w io.Writer, regional stats.RegionalAdoption) {
	fmt.Fprintf(w, "regions (%s):\n", regional.Provider)
	for _, r := range regional.Regions {
		fmt.Fprintf(w, "    %-28s %6.2f %%\n", r.Region, r.Percentage)
	}
}

func printCountries(w io.Writer, countries stats.CountryAdoption) {
	fmt.Fprintf(w, "countries (%s):\n", countries.Provider)
	for i, c := range countries.Countries {
		name := fmt.Sprintf("%s (%s)", c.Country, c.Code)
		fmt.Fprintf(w, "    %3d. %-28s %6.2f %%\n", i+1, name, c.Percentage)
	}
}
