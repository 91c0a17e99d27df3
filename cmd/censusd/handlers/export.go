package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/v6census/v6census/pkg/api/types/errors"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/table/arrowconv"
)

// ExportHandler serves one dataset in its normalized tabular form. The
// dataset key comes from the trailing wildcard of the route; ?format=
// picks json (default), csv or arrow.
func ExportHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		// the trailing-slash middleware leaves its slash in the wildcard
		key := domain.Key(strings.TrimSuffix(c.Param("*"), "/"))

		format := c.QueryParam("format")
		if format == "" {
			format = "json"
		}

		snap, err := srv.Dataset(ctx, key)
		if err != nil {
			return datasetError(srv, err)
		}

		switch format {
		case "json":
			return c.JSON(http.StatusOK, snap.Payload)

		case "csv":
			filename := strings.ReplaceAll(key.String(), "/", "-")
			c.Response().Header().Set(
				"Content-Disposition", `attachment; filename="`+filename+`.csv"`,
			)
			c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
			c.Response().WriteHeader(http.StatusOK)
			return snap.Payload.Table().WriteCSV(c.Response())

		case "arrow":
			raw, err := arrowconv.MarshalIPC(snap.Payload.Table())
			if err != nil {
				return apierr.InternalServerError(err)
			}
			return c.Blob(http.StatusOK, "application/vnd.apache.arrow.stream", raw)

		default:
			return apierr.BadRequest(
				fmt.Sprintf(`unknown format "%s": use json, csv or arrow`, format), nil,
			)
		}
	}
}
