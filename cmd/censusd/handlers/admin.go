package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/utils/slices"
)

// RefreshHandler forces a refresh of the datasets named by ?source=
// (repeatable). With none, the whole registry is refreshed.
func RefreshHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		keys := slices.Map(
			c.QueryParams()["source"],
			func(s string) domain.Key { return domain.Key(s) },
		)

		snaps, err := srv.Refresh(ctx, keys...)
		if err != nil {
			return datasetError(srv, err)
		}

		return c.JSON(http.StatusOK, apicensus.ComposeRefreshResult(snaps))
	}
}

// InvalidateHandler drops the snapshots of the datasets named by ?source=
// (repeatable). With none, every snapshot is dropped.
func InvalidateHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sourceParams := c.QueryParams()["source"]

		var dropped int
		var err error
		if len(sourceParams) == 0 {
			dropped, err = srv.InvalidateAll(ctx)
		} else {
			dropped, err = srv.Invalidate(ctx, slices.Map(
				sourceParams,
				func(s string) domain.Key { return domain.Key(s) },
			)...)
		}
		if err != nil {
			return datasetError(srv, err)
		}

		return c.JSON(http.StatusOK, apicensus.InvalidateResult{Dropped: dropped})
	}
}
