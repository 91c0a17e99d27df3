package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// GetOverviewHandler serves the headline figures of the census, composed
// from the adoption, traffic, routing table and allocation datasets.
func GetOverviewHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		overview := apicensus.Overview{}

		{
			snap, err := srv.Dataset(ctx, keyGlobalAdoption)
			if err != nil {
				return datasetError(srv, err)
			}
			adoption, herr := payloadOf[*stats.GlobalAdoption](snap)
			if herr != nil {
				return herr
			}
			overview.GlobalAdoption = adoption.Percentage
			overview.Sources = append(overview.Sources, apicensus.ComposeProvenance(snap))
		}

		{
			snap, err := srv.Dataset(ctx, keyRadar)
			if err != nil {
				return datasetError(srv, err)
			}
			traffic, herr := payloadOf[*stats.TrafficShare](snap)
			if herr != nil {
				return herr
			}
			overview.TrafficShare = traffic.Percentage
			overview.Sources = append(overview.Sources, apicensus.ComposeProvenance(snap))
		}

		{
			snap, err := srv.Dataset(ctx, keyBGP)
			if err != nil {
				return datasetError(srv, err)
			}
			bgp, herr := payloadOf[*stats.BGPStats](snap)
			if herr != nil {
				return herr
			}
			overview.IPv6Prefixes = bgp.IPv6Prefixes
			overview.TableShare = bgp.IPv6Share
			overview.Sources = append(overview.Sources, apicensus.ComposeProvenance(snap))
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
			overview.AllocatedSlash48s = totals.TotalSlash48s
			overview.Sources = append(overview.Sources, apicensus.ComposeProvenance(snap))
		}

		return c.JSON(http.StatusOK, overview)
	}
}
