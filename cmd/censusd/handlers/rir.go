package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	apierr "github.com/v6census/v6census/pkg/api/types/errors"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// GetRIRHandler serves every registry's delegation summary plus the
// cumulative allocation totals.
func GetRIRHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		rir := apicensus.RIR{}

		for _, registry := range registries {
			snap, err := srv.Dataset(ctx, domain.Key("rir/"+registry))
			if err != nil {
				return datasetError(srv, err)
			}
			delegations, herr := payloadOf[*stats.RIRDelegations](snap)
			if herr != nil {
				return herr
			}
			rir.Registries = append(rir.Registries, *delegations)
			rir.Provenance = append(rir.Provenance, apicensus.ComposeProvenance(snap))
		}

		{
			snap, err := srv.Dataset(ctx, keyAllocationTotal)
			if err != nil {
				return datasetError(srv, err)
			}
			totals, herr := payloadOf[*stats.AllocationTotals](snap)
			if herr != nil {
				return herr
			}
			rir.Totals = *totals
			rir.Provenance = append(rir.Provenance, apicensus.ComposeProvenance(snap))
		}

		return c.JSON(http.StatusOK, rir)
	}
}

// GetRegistryHandler serves one registry's delegation summary.
// The registry name comes from the route parameter paramKey.
func GetRegistryHandler(srv kcd.Service, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		registry := c.Param(paramKey)

		snap, err := srv.Dataset(ctx, domain.Key("rir/"+registry))
		if err != nil {
			return datasetError(srv, err)
		}
		delegations, ok := snap.Payload.(*stats.RIRDelegations)
		if !ok {
			// rir/ also holds the totals dataset, which is not a registry.
			return apierr.NotFound(
				apierr.WithAdvice("known registries: " + strings.Join(registries, ", ")),
			)
		}

		return c.JSON(http.StatusOK, apicensus.Registry{
			Data:       *delegations,
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}
