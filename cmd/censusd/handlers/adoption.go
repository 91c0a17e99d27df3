package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	apierr "github.com/v6census/v6census/pkg/api/types/errors"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// topCountries caps the country table embedded in the composite adoption
// view. The full table stays at /api/adoption/countries.
const topCountries = 10

// GetAdoptionHandler serves the composite adoption view: the global
// figure, the per-region view and the leading countries.
func GetAdoptionHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		adoption := apicensus.Adoption{}

		{
			snap, err := srv.Dataset(ctx, keyGlobalAdoption)
			if err != nil {
				return datasetError(srv, err)
			}
			global, herr := payloadOf[*stats.GlobalAdoption](snap)
			if herr != nil {
				return herr
			}
			adoption.Global = *global
			adoption.Provenance = append(adoption.Provenance, apicensus.ComposeProvenance(snap))
		}

		{
			snap, err := srv.Dataset(ctx, keyRegions)
			if err != nil {
				return datasetError(srv, err)
			}
			regional, herr := payloadOf[*stats.RegionalAdoption](snap)
			if herr != nil {
				return herr
			}
			adoption.Regional = *regional
			adoption.Provenance = append(adoption.Provenance, apicensus.ComposeProvenance(snap))
		}

		{
			snap, err := srv.Dataset(ctx, keyCountries)
			if err != nil {
				return datasetError(srv, err)
			}
			countries, herr := payloadOf[*stats.CountryAdoption](snap)
			if herr != nil {
				return herr
			}
			adoption.Countries = *countries
			if topCountries < len(adoption.Countries.Countries) {
				adoption.Countries.Countries = adoption.Countries.Countries[:topCountries]
			}
			adoption.Provenance = append(adoption.Provenance, apicensus.ComposeProvenance(snap))
		}

		return c.JSON(http.StatusOK, adoption)
	}
}

// GetCountriesHandler serves the per-country adoption table,
// optionally capped by ?limit=.
func GetCountriesHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		limit, err := queryLimit(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		snap, err := srv.Dataset(ctx, keyCountries)
		if err != nil {
			return datasetError(srv, err)
		}
		countries, herr := payloadOf[*stats.CountryAdoption](snap)
		if herr != nil {
			return herr
		}

		resp := apicensus.Countries{
			Data:       *countries,
			Provenance: apicensus.ComposeProvenance(snap),
		}
		if 0 < limit && limit < len(resp.Data.Countries) {
			resp.Data.Countries = resp.Data.Countries[:limit]
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// GetAdoptionHistoryHandler serves the reconstructed global adoption
// series, trailing ?months= (default 24).
func GetAdoptionHistoryHandler(srv kcd.Service) echo.HandlerFunc {
	return historyHandler(srv, keyGlobalHistory)
}

// historyHandler serves one of the computed series datasets, narrowed
// to the months the query asks for.
func historyHandler(srv kcd.Service, key domain.Key) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		months, err := queryMonths(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		snap, err := srv.Dataset(ctx, key)
		if err != nil {
			return datasetError(srv, err)
		}
		series, herr := payloadOf[*stats.Series](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.History{
			Data:       trailingSeries(series, months),
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}
