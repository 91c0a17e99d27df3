package refresh_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/v6census/v6census/cmd/census/rest/mock"
	"github.com/v6census/v6census/cmd/census/subcommands/internal/commandline"
	"github.com/v6census/v6census/cmd/census/subcommands/logger"
	"github.com/v6census/v6census/cmd/census/subcommands/refresh"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/utils/cmp"
	"github.com/v6census/v6census/pkg/utils/rfctime"
	"github.com/v6census/v6census/pkg/utils/try"
	"github.com/youta-t/flarc"
)

func TestRefreshCommand(t *testing.T) {
	refreshed := apicensus.RefreshResult{
		Refreshed: []apicensus.Provenance{
			{
				Key: "adoption/global", Origin: "live",
				FetchedAt: try.To(rfctime.ParseRFC3339DateTime(
					"2026-08-01T12:00:00+00:00",
				)).OrFatal(t),
			},
		},
	}

	type when struct {
		flags     refresh.Flags
		clientErr error
	}

	type then struct {
		err   error
		calls []mock.AdminArgs
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.Refresh = func(
				ctx context.Context, token string, sources []string,
			) (apicensus.RefreshResult, error) {
				return refreshed, when.clientErr
			}

			stdout := new(strings.Builder)

			testee := refresh.Task()
			ctx := context.Background()
			err := testee(
				ctx,
				logger.Null(),
				client,
				commandline.MockCommandline[refresh.Flags]{
					Fullname_: "census refresh",
					Stdout_:   stdout,
					Stderr_:   new(strings.Builder),
					Flags_:    when.flags,
					Args_:     map[string][]string{},
				},
				[]any{},
			)

			if !errors.Is(err, then.err) {
				t.Errorf("unexpected error: %+v (expected: %+v)", err, then.err)
			}

			if !cmp.SliceEqWith(
				client.Calls.Refresh, then.calls,
				func(a, b mock.AdminArgs) bool {
					return a.Token == b.Token && cmp.SliceEq(a.Sources, b.Sources)
				},
			) {
				t.Errorf(
					"Refresh: called with %+v (expected: %+v)",
					client.Calls.Refresh, then.calls,
				)
			}
		}
	}

	t.Run("when called with a token, it refreshes everything", theory(
		when{
			flags: refresh.Flags{Token: "fake-token"},
		},
		then{
			err:   nil,
			calls: []mock.AdminArgs{{Token: "fake-token"}},
		},
	))

	t.Run("when called with --source, it refreshes those datasets", theory(
		when{
			flags: refresh.Flags{
				Token:  "fake-token",
				Source: []string{"adoption/global", "bgp/table"},
			},
		},
		then{
			err: nil,
			calls: []mock.AdminArgs{
				{Token: "fake-token", Sources: []string{"adoption/global", "bgp/table"}},
			},
		},
	))

	t.Run("when the token is missing, it is a usage error", theory(
		when{
			flags: refresh.Flags{},
		},
		then{
			err: flarc.ErrUsage,
		},
	))

	{
		expectedError := errors.New("fake error")
		t.Run("when the server rejects, it returns that error", theory(
			when{
				flags:     refresh.Flags{Token: "fake-token"},
				clientErr: expectedError,
			},
			then{
				err:   expectedError,
				calls: []mock.AdminArgs{{Token: "fake-token"}},
			},
		))
	}
}
