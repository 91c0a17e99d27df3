package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	subadoption "github.com/v6census/v6census/cmd/census/subcommands/adoption"
	subbgp "github.com/v6census/v6census/cmd/census/subcommands/bgp"
	subcloud "github.com/v6census/v6census/cmd/census/subcommands/cloud"
	"github.com/v6census/v6census/cmd/census/subcommands/common"
	subinvalidate "github.com/v6census/v6census/cmd/census/subcommands/invalidate"
	"github.com/v6census/v6census/cmd/census/subcommands/logger"
	suboverview "github.com/v6census/v6census/cmd/census/subcommands/overview"
	subrefresh "github.com/v6census/v6census/cmd/census/subcommands/refresh"
	subrir "github.com/v6census/v6census/cmd/census/subcommands/rir"
	subsources "github.com/v6census/v6census/cmd/census/subcommands/sources"
	subtoken "github.com/v6census/v6census/cmd/census/subcommands/token"
	subwhois "github.com/v6census/v6census/cmd/census/subcommands/whois"
	"github.com/v6census/v6census/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := common.DefaultFlags()
	overview := try.To(suboverview.New()).OrFatal(logger)
	adoption := try.To(subadoption.New()).OrFatal(logger)
	bgp := try.To(subbgp.New()).OrFatal(logger)
	rir := try.To(subrir.New()).OrFatal(logger)
	cloud := try.To(subcloud.New()).OrFatal(logger)
	whois := try.To(subwhois.New()).OrFatal(logger)
	sources := try.To(subsources.New()).OrFatal(logger)
	refresh := try.To(subrefresh.New()).OrFatal(logger)
	invalidate := try.To(subinvalidate.New()).OrFatal(logger)
	token := try.To(subtoken.New()).OrFatal(logger)

	census := try.To(
		flarc.NewCommandGroup(
			"IPv6 census commandline interface",
			cf,
			flarc.WithSubcommand("overview", overview),
			flarc.WithSubcommand("adoption", adoption),
			flarc.WithSubcommand("bgp", bgp),
			flarc.WithSubcommand("rir", rir),
			flarc.WithSubcommand("cloud", cloud),
			flarc.WithSubcommand("whois", whois),
			flarc.WithSubcommand("sources", sources),
			flarc.WithSubcommand("refresh", refresh),
			flarc.WithSubcommand("invalidate", invalidate),
			flarc.WithSubcommand("token", token),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, census, flarc.WithHelp(true)))
}
