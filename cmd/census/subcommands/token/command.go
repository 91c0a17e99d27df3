package token

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/v6census/v6census/pkg/auth"
	"github.com/youta-t/flarc"
)

type Flag struct {
	SignKey  string `flag:"sign-key" metavar:"KEY" help:"Signing key the daemon is configured with. $CENSUS_SIGN_KEY is used when omitted."`
	Lifetime string `flag:"lifetime" metavar:"DURATION" help:"How long the minted token stays valid."`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Mint an admin token for refresh and invalidate.",
		Flag{
			SignKey:  os.Getenv("CENSUS_SIGN_KEY"),
			Lifetime: "1h",
		},
		flarc.Args{},
		Task(),
		flarc.WithDescription(
			`
This command mints a bearer token for the admin operations of the
daemon, signed with the same key the daemon is configured with
(admin.signKey). The token is written to stdout, so it can be fed to
other commands directly.

Example
-------

- Mint a token valid for an hour (the default):

	{{ .Command }} --sign-key some-secret

- Mint a short-lived token and refresh with it:

	census refresh --token "$({{ .Command }} --sign-key some-secret --lifetime 5m)"
`,
		),
	)
}

func Task() flarc.Task[Flag] {
	return func(ctx context.Context, cl flarc.Commandline[Flag], params []any) error {
		flags := cl.Flags()

		if flags.SignKey == "" {
			return fmt.Errorf("%w: --sign-key (or $CENSUS_SIGN_KEY) is required", flarc.ErrUsage)
		}
		lifetime, err := time.ParseDuration(flags.Lifetime)
		if err != nil || lifetime <= 0 {
			return fmt.Errorf("%w: invalid lifetime: %s", flarc.ErrUsage, flags.Lifetime)
		}

		token, err := auth.NewAdminToken(flags.SignKey, lifetime, time.Now())
		if err != nil {
			return fmt.Errorf("failed to sign the token: %w", err)
		}

		fmt.Fprintln(cl.Stdout(), token)
		return nil
	}
}
