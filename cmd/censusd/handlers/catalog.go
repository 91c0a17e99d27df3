package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	"github.com/v6census/v6census/pkg/domain"
	kcd "github.com/v6census/v6census/pkg/domain/census"
	"github.com/v6census/v6census/pkg/domain/stats"
)

// GetCloudHandler serves the cloud provider catalog with its
// per-provider rollups.
func GetCloudHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		snap, err := srv.Dataset(ctx, keyCloud)
		if err != nil {
			return datasetError(srv, err)
		}
		catalog, herr := payloadOf[*stats.CloudCatalog](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.Cloud{
			Data:       *catalog,
			Summaries:  catalog.Summaries(),
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}

// GetFederalHandler serves the USGv6 deployment dataset.
func GetFederalHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		snap, err := srv.Dataset(ctx, keyNIST)
		if err != nil {
			return datasetError(srv, err)
		}
		federal, herr := payloadOf[*stats.FederalDeployment](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.Federal{
			Data:       *federal,
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}

// GetWhoisHandler serves an ASN or prefix lookup. The resource comes from
// the trailing wildcard of the route, so prefixes keep their slash.
func GetWhoisHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		// the trailing-slash middleware leaves its slash in the wildcard
		resource := strings.TrimSuffix(c.Param("*"), "/")

		snap, err := srv.Dataset(ctx, domain.Key("whois/"+resource))
		if err != nil {
			return datasetError(srv, err)
		}
		info, herr := payloadOf[*stats.WhoisInfo](snap)
		if herr != nil {
			return herr
		}

		return c.JSON(http.StatusOK, apicensus.Whois{
			Data:       *info,
			Provenance: apicensus.ComposeProvenance(snap),
		})
	}
}

// GetSourcesHandler lists the registry with each dataset's cache state.
func GetSourcesHandler(srv kcd.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := apicensus.Sources{
			Cache: apicensus.ComposeCacheStats(srv.Stats()),
		}
		for _, info := range srv.Sources() {
			snap, cached := srv.Peek(info.Key)
			resp.Sources = append(resp.Sources, apicensus.ComposeSourceState(info, snap, cached))
		}

		return c.JSON(http.StatusOK, resp)
	}
}
