package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// GetBGPHandler serves the global routing table counts.
func GetBGPHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		snap, err := srv.Dataset(ctx, keyBGP)
		if err != nil {
			return datasetError(srv, err)
		}
		bgp, herr := payloadOf[*stats.BGPStats](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.BGP{
			Data:       *bgp,
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}

// GetBGPHistoryHandler serves the reconstructed table-size series,
// trailing ?months= (default 24).
func GetBGPHistoryHandler(srv kcd.Service) echo.HandlerFunc {
	return historyHandler(srv, keyBGPHistory)
}

// GetBGPPrefixesHandler serves the announced-prefix histogram and the
// leading IPv6 ASNs.
func GetBGPPrefixesHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		snap, err := srv.Dataset(ctx, keyBGPPrefixes)
		if err != nil {
			return datasetError(srv, err)
		}
		dist, herr := payloadOf[*stats.PrefixDistribution](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.BGPPrefixes{
			Data:       *dist,
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}
