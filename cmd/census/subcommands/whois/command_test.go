package whois_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/v6census/v6census/cmd/census/rest/mock"
	"github.com/v6census/v6census/cmd/census/subcommands/internal/commandline"
	"github.com/v6census/v6census/cmd/census/subcommands/logger"
	"github.com/v6census/v6census/cmd/census/subcommands/whois"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/cmp"
	"github.com/v6census/v6census/pkg/utils/rfctime"
	"github.com/v6census/v6census/pkg/utils/try"
)

func TestWhoisCommand(t *testing.T) {
	whoisData := apicensus.Whois{
		Data: stats.WhoisInfo{
			Resource:     "AS15169",
			ASN:          "AS15169",
			Organization: "Google LLC",
			IPv6Prefixes: []string{"2001:4860::/32", "2404:6800::/32"},
			Status:       "full",
			Answered:     "ripestat",
		},
		Provenance: apicensus.Provenance{
			Key: "whois/AS15169", Origin: "live",
			FetchedAt: try.To(rfctime.ParseRFC3339DateTime(
				"2026-08-01T12:00:00+00:00",
			)).OrFatal(t),
		},
	}

	type when struct {
		resource  string
		clientErr error
	}

	type then struct {
		err        error
		whoisCalls []string
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.GetWhois = func(ctx context.Context, resource string) (apicensus.Whois, error) {
				return whoisData, when.clientErr
			}

			stdout := new(strings.Builder)

			testee := whois.Task()
			ctx := context.Background()
			err := testee(
				ctx,
				logger.Null(),
				client,
				commandline.MockCommandline[whois.Flag]{
					Fullname_: "census whois",
					Stdout_:   stdout,
					Stderr_:   new(strings.Builder),
					Flags_:    whois.Flag{},
					Args_: map[string][]string{
						whois.ARG_RESOURCE: {when.resource},
					},
				},
				[]any{},
			)

			if !errors.Is(err, then.err) {
				t.Errorf("unexpected error: %+v (expected: %+v)", err, then.err)
			}
			if !cmp.SliceEq(client.Calls.GetWhois, then.whoisCalls) {
				t.Errorf(
					"GetWhois: called with %v (expected: %v)",
					client.Calls.GetWhois, then.whoisCalls,
				)
			}

			if then.err != nil {
				return
			}
			for _, line := range []string{"AS15169", "Google LLC", "2404:6800::/32", "full"} {
				if !strings.Contains(stdout.String(), line) {
					t.Errorf("output does not contain %q:\n%s", line, stdout.String())
				}
			}
		}
	}

	t.Run("when called with an AS number, it shows the lookup result", theory(
		when{
			resource: "AS15169",
		},
		then{
			err:        nil,
			whoisCalls: []string{"AS15169"},
		},
	))

	{
		expectedError := errors.New("fake error")
		t.Run("when the client fails, it returns that error", theory(
			when{
				resource:  "AS15169",
				clientErr: expectedError,
			},
			then{
				err:        expectedError,
				whoisCalls: []string{"AS15169"},
			},
		))
	}
}
