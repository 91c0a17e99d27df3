package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/v6census/v6census/internal/testutils/http"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/domain"
	mocks "github.com/v6census/v6census/pkg/domain/census/mock"
	"github.com/v6census/v6census/pkg/domain/stats"
	"github.com/v6census/v6census/pkg/utils/cmp"
	"github.com/v6census/v6census/pkg/utils/rfctime"
	"github.com/v6census/v6census/pkg/utils/try"

	"github.com/v6census/v6census/cmd/censusd/handlers"
)

func TestRefreshHandler(t *testing.T) {

	t.Run("it refreshes the whole registry when no source is named", func(t *testing.T) {
		fetchedAt := try.To(rfctime.ParseRFC3339DateTime(
			"2026-08-01T10:00:00+00:00",
		)).OrFatal(t).Time()

		snaps := []domain.Snapshot{
			{
				Key: "bgp", Payload: &stats.BGPStats{IPv6Prefixes: 220_000},
				Origin: domain.OriginLive, FetchedAt: fetchedAt,
			},
			{
				Key: "adoption/global", Payload: &stats.GlobalAdoption{Percentage: 43.1},
				Origin: domain.OriginFallback, Note: "fetch failed: 503",
				FetchedAt: fetchedAt,
			},
		}

		mckService := mocks.NewService()
		mckService.Impl.Refresh = func(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error) {
			return snaps, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(e, "/api/admin/refresh/", nil)

		testee := handlers.RefreshHandler(mckService)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if last := mckService.Calls.Refresh.Last(); len(last.Keys) != 0 {
			t.Errorf("Refresh should receive no keys: %v", last.Keys)
		}

		actual := apicensus.RefreshResult{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		expected := apicensus.ComposeRefreshResult(snaps)
		if !actual.Equal(&expected) {
			t.Errorf(
				"refresh result does not match. (actual, expected) = \n(%+v, \n%+v)",
				actual, expected,
			)
		}
	})

	t.Run("it refreshes only the named sources", func(t *testing.T) {
		fetchedAt := try.To(rfctime.ParseRFC3339DateTime(
			"2026-08-01T10:00:00+00:00",
		)).OrFatal(t).Time()

		mckService := mocks.NewService()
		mckService.Impl.Refresh = func(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error) {
			snaps := make([]domain.Snapshot, 0, len(keys))
			for _, key := range keys {
				snaps = append(snaps, domain.Snapshot{
					Key: key, Payload: &stats.BGPStats{},
					Origin: domain.OriginLive, FetchedAt: fetchedAt,
				})
			}
			return snaps, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/admin/refresh/?source=bgp&source=rir/ripencc", nil,
		)

		testee := handlers.RefreshHandler(mckService)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		expectedKeys := []domain.Key{"bgp", "rir/ripencc"}
		if last := mckService.Calls.Refresh.Last(); !cmp.SliceEq(last.Keys, expectedKeys) {
			t.Errorf(
				"Refresh keys do not match. (actual, expected) = (%v, %v)",
				last.Keys, expectedKeys,
			)
		}

		actual := apicensus.RefreshResult{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if len(actual.Refreshed) != 2 {
			t.Errorf("refreshed entries: %d != 2", len(actual.Refreshed))
		}
	})

	t.Run("when a named source is unknown, status code should be 404", func(t *testing.T) {
		mckService := mocks.NewService()
		mckService.Impl.Refresh = func(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKey, keys[0])
		}
		mckService.Impl.Sources = func() []domain.SourceInfo {
			return []domain.SourceInfo{
				{Key: "bgp", Provider: "bgp.potaroo.net", Method: domain.MethodScrape},
			}
		}

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/admin/refresh/?source=no-such-dataset", nil)

		testee := handlers.RefreshHandler(mckService)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. acutal = %#v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("unmatch error code:%d, expeced:%d", echoErr.Code, http.StatusNotFound)
		}
	})
}

func TestInvalidateHandler(t *testing.T) {

	t.Run("it empties the whole cache when no source is named", func(t *testing.T) {
		mckService := mocks.NewService()
		mckService.Impl.InvalidateAll = func(ctx context.Context) (int, error) {
			return 21, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(e, "/api/admin/invalidate/", nil)

		testee := handlers.InvalidateHandler(mckService)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if times := mckService.Calls.InvalidateAll.Times(); times != 1 {
			t.Errorf("InvalidateAll should be called once: %d times", times)
		}
		if times := mckService.Calls.Invalidate.Times(); times != 0 {
			t.Errorf("Invalidate should not be called: %d times", times)
		}

		actual := apicensus.InvalidateResult{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if actual.Dropped != 21 {
			t.Errorf("dropped: %d != 21", actual.Dropped)
		}
	})

	t.Run("it drops only the named sources", func(t *testing.T) {
		mckService := mocks.NewService()
		mckService.Impl.Invalidate = func(ctx context.Context, keys ...domain.Key) (int, error) {
			return len(keys), nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/admin/invalidate/?source=bgp&source=cloud", nil,
		)

		testee := handlers.InvalidateHandler(mckService)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		expectedKeys := []domain.Key{"bgp", "cloud"}
		if last := mckService.Calls.Invalidate.Last(); !cmp.SliceEq(last.Keys, expectedKeys) {
			t.Errorf(
				"Invalidate keys do not match. (actual, expected) = (%v, %v)",
				last.Keys, expectedKeys,
			)
		}

		actual := apicensus.InvalidateResult{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if actual.Dropped != 2 {
			t.Errorf("dropped: %d != 2", actual.Dropped)
		}
	})

	t.Run("when a named source is unknown, status code should be 404", func(t *testing.T) {
		mckService := mocks.NewService()
		mckService.Impl.Invalidate = func(ctx context.Context, keys ...domain.Key) (int, error) {
			return 0, fmt.Errorf("%w: %s", domain.ErrUnknownKey, keys[0])
		}
		mckService.Impl.Sources = func() []domain.SourceInfo {
			return []domain.SourceInfo{
				{Key: "bgp", Provider: "bgp.potaroo.net", Method: domain.MethodScrape},
			}
		}

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/admin/invalidate/?source=no-such-dataset", nil)

		testee := handlers.InvalidateHandler(mckService)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. acutal = %#v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("unmatch error code:%d, expeced:%d", echoErr.Code, http.StatusNotFound)
		}
	})

	t.Run("when the store fails, status code should be 500", func(t *testing.T) {
		mckService := mocks.NewService()
		mckService.Impl.InvalidateAll = func(ctx context.Context) (int, error) {
			return 3, errors.New("fake store error")
		}

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/admin/invalidate/", nil)

		testee := handlers.InvalidateHandler(mckService)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. acutal = %#v", err)
		}
		if echoErr.Code != http.StatusInternalServerError {
			t.Errorf("unmatch error code:%d, expeced:%d", echoErr.Code, http.StatusInternalServerError)
		}
	})
}
